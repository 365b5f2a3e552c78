package repositories

import (
	"chat-room/domain"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Gateway assembles the message log, the presence records and the search
// index behind the contract.Gateway boundary the coordinator consumes.
// It is the only place where a message's identifier and timestamp are
// assigned.
type Gateway struct {
	messages IMessageRepository
	presence IPresenceRepository
	index    *SearchIndex
	log      *slog.Logger
	clock    func() time.Time
}

func NewGateway(messages IMessageRepository, presence IPresenceRepository, index *SearchIndex, log *slog.Logger) *Gateway {
	return &Gateway{
		messages: messages,
		presence: presence,
		index:    index,
		log:      log,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// SaveMessage appends the message durably and returns it with its
// canonical id and timestamp. Indexing failures are logged, never
// surfaced: search is derived data, the log is the source of truth.
func (g *Gateway) SaveMessage(sender, content string, kind domain.Kind) (domain.Message, error) {
	message := domain.Message{
		ID:      uuid.New(),
		Sender:  sender,
		Content: content,
		Kind:    kind,
		At:      g.clock(),
	}
	if err := g.messages.Store(message); err != nil {
		return domain.Message{}, err
	}
	if g.index != nil {
		if err := g.index.Index(message); err != nil {
			g.log.Warn("message not indexed", "message_id", message.ID, "error", err)
		}
	}
	return message, nil
}

func (g *Gateway) UpsertPresence(username, connectionID string, online bool, lastSeen time.Time) error {
	return g.presence.Upsert(username, connectionID, online, lastSeen)
}

func (g *Gateway) RecentMessages(limit int) ([]domain.Message, error) {
	return g.messages.Recent(limit)
}
