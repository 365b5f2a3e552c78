package runtime

import (
	"chat-room/domain/event"
	"context"
	"log/slog"
)

// Announcer multicasts the current presence snapshot to every live
// connection, including the one whose join or leave triggered it.
// A snapshot computation cannot fail, so Announce has no error return;
// per-sink delivery problems are the sink's business.
type Announcer struct {
	registry *Registry
	log      *slog.Logger
}

func NewAnnouncer(registry *Registry, log *slog.Logger) *Announcer {
	return &Announcer{registry: registry, log: log}
}

// Announce reads the registry after the triggering join/leave has been
// applied, never a stale view: the snapshot is computed here, at call
// time, not carried in by the caller.
func (a *Announcer) Announce(ctx context.Context) {
	evt := event.OnlineUsers{Usernames: a.registry.Snapshot()}
	for _, sink := range a.registry.Sinks() {
		if err := sink.Consume(ctx, evt); err != nil {
			a.log.Debug("presence announcement dropped", "error", err)
		}
	}
}
