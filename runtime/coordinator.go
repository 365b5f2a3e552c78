package runtime

import (
	"chat-room/contract"
	"chat-room/domain/event"
	"chat-room/errors"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Coordinator owns the registry and wires a connection's inbound events
// to the presence announcer, the broadcaster and the typing relay.
//
// Per-connection lifecycle: Connected (transport open, no session) ->
// Joined (session active) -> Closed. There is no rename and no re-join
// without disconnecting.
//
// The registry is mutated before gateway calls complete, so a gateway
// failure can leave memory and durable store inconsistent: the user stays
// registered while the announcement is skipped. Accepted degradation, not
// retried (see DESIGN.md).
type Coordinator struct {
	log         *slog.Logger
	registry    *Registry
	gateway     contract.Gateway
	broadcaster *Broadcaster
	presence    *Announcer
	typing      *TypingRelay
	clock       func() time.Time
}

func NewCoordinator(log *slog.Logger, gateway contract.Gateway, filter ContentFilter) *Coordinator {
	registry := NewRegistry()
	return &Coordinator{
		log:         log,
		registry:    registry,
		gateway:     gateway,
		broadcaster: NewBroadcaster(registry, gateway, filter, log),
		presence:    NewAnnouncer(registry, log),
		typing:      NewTypingRelay(registry, log),
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// Registry exposes read access for collaborators (history service,
// tests). Mutation stays the coordinator's exclusive right.
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Connect registers a freshly accepted connection's outbound sink.
// The connection is now in state Connected and already receives
// broadcasts, but is absent from presence until it joins.
func (c *Coordinator) Connect(connectionID string, sink contract.EventSink) {
	c.registry.Attach(connectionID, sink)
	c.log.Debug("connection attached", "connection_id", connectionID)
}

// Join performs the Connected -> Joined transition:
// validate username, bind the session, record durable presence, ack the
// origin, then announce the join to everyone. The ack reaches the origin
// before any history replay it may request, and before the system
// message, mirroring the lifecycle order clients rely on.
//
// On error the connection stays usable; the caller reports the error to
// the origin only.
func (c *Coordinator) Join(ctx context.Context, connectionID, username string) error {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return errors.ErrInvalidUsername
	}

	if err := c.registry.Join(connectionID, trimmed); err != nil {
		return err
	}

	if err := c.gateway.UpsertPresence(trimmed, connectionID, true, c.clock()); err != nil {
		// The session stays bound; only the durable record is behind.
		c.log.Warn("presence record not persisted", "username", trimmed, "error", err)
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	c.ackJoin(ctx, connectionID, trimmed)
	c.log.Info("user joined", "username", trimmed, "connection_id", connectionID)

	if err := c.broadcaster.System(ctx, trimmed+" joined the chat"); err != nil {
		// Joined in memory, announcement skipped. No retry.
		c.log.Warn("join announcement skipped", "username", trimmed, "error", err)
		return err
	}
	c.presence.Announce(ctx)
	return nil
}

// Send delegates to the broadcaster; the lifecycle state is unchanged.
func (c *Coordinator) Send(ctx context.Context, connectionID, content string) error {
	return c.broadcaster.Send(ctx, connectionID, content)
}

// Typing delegates to the relay; signals from un-joined connections are
// dropped silently.
func (c *Coordinator) Typing(ctx context.Context, connectionID string, isTyping bool) {
	c.typing.Relay(ctx, connectionID, isTyping)
}

// Disconnect performs the transition to Closed. A connection that never
// joined releases silently: no system message, no presence announcement.
func (c *Coordinator) Disconnect(ctx context.Context, connectionID string) {
	defer c.registry.Detach(connectionID)

	session, err := c.registry.Leave(connectionID)
	if err != nil {
		c.log.Debug("connection closed before join", "connection_id", connectionID)
		return
	}

	if err := c.gateway.UpsertPresence(session.Username, connectionID, false, c.clock()); err != nil {
		c.log.Warn("presence record not persisted", "username", session.Username, "error", err)
	}

	c.log.Info("user left", "username", session.Username, "connection_id", connectionID)

	if err := c.broadcaster.System(ctx, session.Username+" left the chat"); err != nil {
		c.log.Warn("leave announcement skipped", "username", session.Username, "error", err)
		return
	}
	c.presence.Announce(ctx)
}

func (c *Coordinator) ackJoin(ctx context.Context, connectionID, username string) {
	sink, ok := c.registry.Sink(connectionID)
	if !ok {
		return
	}
	if err := sink.Consume(ctx, event.JoinSuccess{Username: username}); err != nil {
		c.log.Debug("join ack dropped", "connection_id", connectionID, "error", err)
	}
}
