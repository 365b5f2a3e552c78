package runtime

import (
	"chat-room/contract"
	"chat-room/domain"
	"chat-room/domain/event"
	"chat-room/errors"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ContentFilter censors forbidden words before a message is persisted,
// so the stored and broadcast content stay identical. A nil filter
// disables moderation entirely.
type ContentFilter interface {
	Censor(content string) (censored string, foundWords []string, lang string)
}

// Broadcaster accepts an outbound chat message from a connection,
// persists it, then relays the persisted message to every live
// connection including the sender. The broadcast strictly happens after
// a successful save: every message a client ever sees is in history.
type Broadcaster struct {
	registry *Registry
	gateway  contract.Gateway
	filter   ContentFilter
	log      *slog.Logger
}

func NewBroadcaster(registry *Registry, gateway contract.Gateway, filter ContentFilter, log *slog.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, gateway: gateway, filter: filter, log: log}
}

// Send validates, persists and broadcasts a user message. The sender
// identity is resolved from the registry, never taken from the payload.
// On any returned error nothing has been broadcast.
func (b *Broadcaster) Send(ctx context.Context, connectionID, content string) error {
	username, ok := b.registry.Username(connectionID)
	if !ok {
		return errors.ErrNotJoined
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.ErrEmptyContent
	}

	if b.filter != nil {
		censored, foundWords, lang := b.filter.Censor(trimmed)
		if len(foundWords) > 0 {
			b.log.Warn("message censored",
				"sender", username,
				"words", len(foundWords),
				"lang", lang)
		}
		trimmed = censored
	}

	message, err := b.gateway.SaveMessage(username, trimmed, domain.KindUser)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	b.broadcast(ctx, message)
	return nil
}

// System persists and broadcasts a coordinator-synthesized announcement.
// Same persist-then-broadcast rule as user messages, but no validation
// and no moderation: the coordinator owns the content.
func (b *Broadcaster) System(ctx context.Context, content string) error {
	message, err := b.gateway.SaveMessage(domain.SystemSender, content, domain.KindSystem)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	b.broadcast(ctx, message)
	return nil
}

func (b *Broadcaster) broadcast(ctx context.Context, message domain.Message) {
	evt := event.MessageBroadcast{Message: message}
	for _, sink := range b.registry.Sinks() {
		if err := sink.Consume(ctx, evt); err != nil {
			b.log.Debug("message delivery dropped", "message_id", message.ID, "error", err)
		}
	}
}
