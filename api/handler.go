// Package api serves the read-side REST endpoints next to the WebSocket
// transport: message history, full-text search, user listings and the
// health check.
package api

import (
	"chat-room/domain"
	"chat-room/observability"
	"chat-room/repositories"
	"chat-room/services"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
)

type Handler struct {
	history      services.IHistoryService
	collector    *observability.Collector
	defaultLimit int
	startedAt    time.Time
	log          *slog.Logger
}

func NewHandler(log *slog.Logger, history services.IHistoryService,
	collector *observability.Collector, defaultLimit int) *Handler {
	return &Handler{
		history:      history,
		collector:    collector,
		defaultLimit: defaultLimit,
		startedAt:    time.Now().UTC(),
		log:          log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/messages", h.recentMessages)
	mux.HandleFunc("GET /api/messages/search", h.searchMessages)
	mux.HandleFunc("GET /api/users/online", h.onlineUsers)
	mux.HandleFunc("GET /api/users", h.allUsers)
	mux.HandleFunc("GET /health", h.health)
}

type messageJSON struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
}

type userJSON struct {
	Username string    `json:"username"`
	Online   bool      `json:"online"`
	LastSeen time.Time `json:"last_seen"`
}

func (h *Handler) recentMessages(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}
	messages, err := h.history.RecentMessages(limit)
	if err != nil {
		h.fail(w, "messages unavailable", err)
		return
	}
	h.writeMessages(w, messages)
}

func (h *Handler) searchMessages(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	if terms == "" {
		h.badRequest(w, "query parameter q is required")
		return
	}
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}
	messages, err := h.history.SearchMessages(r.Context(), terms, limit)
	if err != nil {
		h.fail(w, "search unavailable", err)
		return
	}
	h.writeMessages(w, messages)
}

func (h *Handler) onlineUsers(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.OnlineUsers()
	if err != nil {
		h.fail(w, "users unavailable", err)
		return
	}
	h.writeUsers(w, records)
}

func (h *Handler) allUsers(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.AllUsers()
	if err != nil {
		h.fail(w, "users unavailable", err)
		return
	}
	h.writeUsers(w, records)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	}
	if h.collector != nil {
		body["process"] = h.collector.Latest()
	}
	h.writeJSON(w, http.StatusOK, body)
}

// limit reads ?limit=N, falling back to the configured default. A value
// that is not a positive integer is a client error.
func (h *Handler) limit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.defaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		h.badRequest(w, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}

func (h *Handler) writeMessages(w http.ResponseWriter, messages []domain.Message) {
	payload := lo.Map(messages, func(m domain.Message, _ int) messageJSON {
		return messageJSON{
			ID:        m.ID.String(),
			Sender:    m.Sender,
			Content:   m.Content,
			Timestamp: m.At,
			Kind:      string(m.Kind),
		}
	})
	if payload == nil {
		payload = []messageJSON{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(payload),
		"messages": payload,
	})
}

func (h *Handler) writeUsers(w http.ResponseWriter, records []repositories.PresenceRecord) {
	payload := lo.Map(records, func(r repositories.PresenceRecord, _ int) userJSON {
		return userJSON{Username: r.Username, Online: r.Online, LastSeen: r.LastSeen}
	})
	if payload == nil {
		payload = []userJSON{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(payload),
		"users":   payload,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   message,
	})
}

func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	h.log.Error(message, "error", err)
	h.writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   message,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Debug("response write failed", "error", err)
	}
}
