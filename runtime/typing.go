package runtime

import (
	"chat-room/domain/event"
	"context"
	"log/slog"
)

// TypingRelay forwards ephemeral typing signals to every connection
// except the origin. Nothing is persisted and nothing is validated
// beyond requiring an active session: typing events are best-effort and
// loss is tolerable.
type TypingRelay struct {
	registry *Registry
	log      *slog.Logger
}

func NewTypingRelay(registry *Registry, log *slog.Logger) *TypingRelay {
	return &TypingRelay{registry: registry, log: log}
}

// Relay drops the signal silently when the connection never joined;
// that is not an error.
func (t *TypingRelay) Relay(ctx context.Context, connectionID string, isTyping bool) {
	username, ok := t.registry.Username(connectionID)
	if !ok {
		t.log.Debug("typing signal from un-joined connection dropped", "connection_id", connectionID)
		return
	}
	evt := event.TypingStatus{Username: username, IsTyping: isTyping}
	for _, sink := range t.registry.SinksExcept(connectionID) {
		if err := sink.Consume(ctx, evt); err != nil {
			t.log.Debug("typing signal dropped", "error", err)
		}
	}
}
