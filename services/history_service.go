// Package services exposes read-side facades over the repositories for
// the HTTP API and the offline tooling.
package services

import (
	"chat-room/domain"
	"chat-room/repositories"
	"context"
)

type IHistoryService interface {
	RecentMessages(limit int) ([]domain.Message, error)
	SearchMessages(ctx context.Context, terms string, limit int) ([]domain.Message, error)
	OnlineUsers() ([]repositories.PresenceRecord, error)
	AllUsers() ([]repositories.PresenceRecord, error)
}

type HistoryService struct {
	messages repositories.IMessageRepository
	presence repositories.IPresenceRepository
	search   *repositories.SearchIndex
}

func NewHistoryService(messages repositories.IMessageRepository,
	presence repositories.IPresenceRepository, search *repositories.SearchIndex) *HistoryService {
	return &HistoryService{messages: messages, presence: presence, search: search}
}

func (s *HistoryService) RecentMessages(limit int) ([]domain.Message, error) {
	return s.messages.Recent(limit)
}

// SearchMessages queries the full-text index. With no index configured
// the result is simply empty; search is an optional projection over the
// message log.
func (s *HistoryService) SearchMessages(ctx context.Context, terms string, limit int) ([]domain.Message, error) {
	if s.search == nil {
		return nil, nil
	}
	return s.search.Search(ctx, terms, limit)
}

func (s *HistoryService) OnlineUsers() ([]repositories.PresenceRecord, error) {
	return s.presence.Online()
}

func (s *HistoryService) AllUsers() ([]repositories.PresenceRecord, error) {
	return s.presence.All()
}
