// Package event defines the outbound events the coordinator multicasts to
// connected clients. Event names double as the wire protocol event field.
package event

import (
	"chat-room/domain"
)

type Event interface {
	EventName() string
}

// MessageBroadcast carries a persisted message to every connection,
// including the sender. It is only ever emitted after the gateway save
// succeeded, so the ID and timestamp are canonical.
type MessageBroadcast struct {
	Message domain.Message
}

func (MessageBroadcast) EventName() string { return "message" }

// OnlineUsers is the presence snapshot announced after every successful
// join and leave. Sorted for a reproducible wire payload; duplicates are
// kept when two sessions share a username.
type OnlineUsers struct {
	Usernames []string
}

func (OnlineUsers) EventName() string { return "online_users" }

// TypingStatus is a best-effort signal relayed to everyone except the
// typing connection. Never persisted.
type TypingStatus struct {
	Username string
	IsTyping bool
}

func (TypingStatus) EventName() string { return "typing_status" }

// JoinSuccess acknowledges a join to the origin connection only, before
// the client requests its history replay.
type JoinSuccess struct {
	Username string
}

func (JoinSuccess) EventName() string { return "join_success" }

// Error reports a rejected operation to the origin connection only.
// It never terminates the connection.
type Error struct {
	Kind    string
	Message string
}

func (Error) EventName() string { return "error" }
