// Package domain contains core concepts of the chat room.
// Messages are immutable once created and persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SystemSender is the sender name carried by messages the coordinator
// synthesizes itself (join/leave announcements).
const SystemSender = "System"

// Kind distinguishes messages typed by a user from announcements
// synthesized by the coordinator.
type Kind string

const (
	KindUser   Kind = "user"
	KindSystem Kind = "system"
)

// Message represents an immutable chat event. The ID and timestamp are
// assigned by the persistence gateway at save time; the broadcast payload
// carries them unchanged so every client sees the canonical values.
type Message struct {
	ID      uuid.UUID
	Sender  string
	Content string
	Kind    Kind
	At      time.Time
}
