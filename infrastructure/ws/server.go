package ws

import (
	"chat-room/runtime"
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server upgrades HTTP requests to WebSocket connections and runs the
// per-connection pumps. One Server instance serves every connection.
type Server struct {
	coordinator *runtime.Coordinator
	bufferSize  int
	log         *slog.Logger
	upgrader    websocket.Upgrader
}

func NewServer(log *slog.Logger, coordinator *runtime.Coordinator, bufferSize int) *Server {
	return &Server{
		coordinator: coordinator,
		bufferSize:  bufferSize,
		log:         log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Browser clients are served from arbitrary hosts in the lab
				// setup. TODO restrict once the frontend origin is fixed.
				return true
			},
		},
	}
}

// ServeHTTP accepts one connection and blocks until it closes. Cleanup
// runs through Disconnect, which releases the session, records offline
// presence and announces the departure when the connection had joined.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	connectionID := uuid.NewString()
	c := newClient(connectionID, conn, s.coordinator, s.bufferSize, s.log)

	ctx, cancel := context.WithCancel(r.Context())

	s.coordinator.Connect(connectionID, c)
	s.log.Debug("connection accepted", "connection_id", connectionID, "remote", r.RemoteAddr)

	go c.writePump(ctx)
	c.readPump(ctx)

	// The request context may already be canceled once the socket is
	// gone; the departure announcement to the remaining clients must
	// not be.
	s.coordinator.Disconnect(context.Background(), connectionID)
	cancel()
	_ = conn.Close()
}
