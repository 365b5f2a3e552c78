package ws

import (
	"chat-room/domain/event"
	"chat-room/errors"
	"chat-room/runtime"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
)

// client pairs one WebSocket connection with its outbound event channel.
// The read pump feeds the coordinator, the write pump drains the channel
// back to the socket; keeping them separate means a slow reader never
// blocks a broadcast.
type client struct {
	id          string
	conn        *websocket.Conn
	coordinator *runtime.Coordinator
	out         chan event.Event
	log         *slog.Logger
}

func newClient(id string, conn *websocket.Conn, coordinator *runtime.Coordinator,
	bufferSize int, log *slog.Logger) *client {
	return &client{
		id:          id,
		conn:        conn,
		coordinator: coordinator,
		out:         make(chan event.Event, bufferSize),
		log:         log,
	}
}

// Consume is called by the coordinator's fanout. When the buffer is full
// the event is dropped instead of stalling every other connection; the
// client catches up through later presence snapshots and history replay.
func (c *client) Consume(ctx context.Context, e event.Event) error {
	select {
	case c.out <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		c.log.Warn("outbound buffer full, dropping event",
			"connection_id", c.id, "event", e.EventName())
		return nil
	}
}

// readPump blocks until the socket closes, dispatching each inbound
// envelope to the coordinator. Rejections are reported to this
// connection only; the socket stays open.
func (c *client) readPump(ctx context.Context) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("read failed", "connection_id", c.id, "error", err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.reportError(ctx, "malformed_frame", "frame is not a valid event envelope")
			continue
		}
		c.dispatch(ctx, envelope)
	}
}

func (c *client) dispatch(ctx context.Context, envelope Envelope) {
	switch envelope.Event {
	case "join":
		var payload joinPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.reportError(ctx, "malformed_frame", "join payload is invalid")
			return
		}
		if err := c.coordinator.Join(ctx, c.id, payload.Username); err != nil {
			c.reportError(ctx, errors.Kind(err), err.Error())
		}
	case "send":
		var payload sendPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.reportError(ctx, "malformed_frame", "send payload is invalid")
			return
		}
		if err := c.coordinator.Send(ctx, c.id, payload.Content); err != nil {
			c.reportError(ctx, errors.Kind(err), err.Error())
		}
	case "typing":
		var payload typingPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return
		}
		c.coordinator.Typing(ctx, c.id, payload.IsTyping)
	default:
		c.log.Debug("unknown inbound event", "connection_id", c.id, "event", envelope.Event)
	}
}

func (c *client) reportError(ctx context.Context, kind, message string) {
	if err := c.Consume(ctx, event.Error{Kind: kind, Message: message}); err != nil {
		c.log.Debug("error report dropped", "connection_id", c.id, "error", err)
	}
}

// writePump drains the outbound channel to the socket until the
// connection context is canceled.
func (c *client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case e := <-c.out:
			envelope, err := encodeEvent(e)
			if err != nil {
				c.log.Error("event not encodable", "connection_id", c.id, "error", err)
				continue
			}
			if err := c.conn.WriteJSON(envelope); err != nil {
				c.log.Debug("write failed", "connection_id", c.id, "error", err)
				return
			}
		}
	}
}
