// Package ws is the WebSocket transport. Every frame in both directions
// is a JSON envelope {"event": ..., "data": ...}; the event names match
// the coordinator's domain events one to one.
package ws

import (
	"chat-room/domain/event"
	"encoding/json"
	"fmt"
	"time"
)

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads

type joinPayload struct {
	Username string `json:"username"`
}

type sendPayload struct {
	Content string `json:"content"`
}

type typingPayload struct {
	IsTyping bool `json:"is_typing"`
}

// Outbound payloads

type messagePayload struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
}

type onlineUsersPayload struct {
	Usernames []string `json:"usernames"`
}

type typingStatusPayload struct {
	Username string `json:"username"`
	IsTyping bool   `json:"is_typing"`
}

type joinSuccessPayload struct {
	Username string `json:"username"`
}

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func encodeEvent(e event.Event) (Envelope, error) {
	var payload any
	switch evt := e.(type) {
	case event.MessageBroadcast:
		payload = messagePayload{
			ID:        evt.Message.ID.String(),
			Sender:    evt.Message.Sender,
			Content:   evt.Message.Content,
			Timestamp: evt.Message.At,
			Kind:      string(evt.Message.Kind),
		}
	case event.OnlineUsers:
		usernames := evt.Usernames
		if usernames == nil {
			usernames = []string{}
		}
		payload = onlineUsersPayload{Usernames: usernames}
	case event.TypingStatus:
		payload = typingStatusPayload{Username: evt.Username, IsTyping: evt.IsTyping}
	case event.JoinSuccess:
		payload = joinSuccessPayload{Username: evt.Username}
	case event.Error:
		payload = errorPayload{Kind: evt.Kind, Message: evt.Message}
	default:
		return Envelope{}, fmt.Errorf("no wire encoding for event %q", e.EventName())
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: e.EventName(), Data: data}, nil
}
