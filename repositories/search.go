package repositories

import (
	"chat-room/domain"
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/blugelabs/bluge/search"
	"github.com/google/uuid"
)

// SearchIndex maintains a Bluge full-text index over message content.
// It is derived data: the Badger log stays the source of truth and an
// index failure never fails a save.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

func (s *SearchIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewKeywordField("sender", message.Sender).StoreValue()).
		AddField(bluge.NewKeywordField("kind", string(message.Kind)).StoreValue()).
		AddField(bluge.NewDateTimeField("at", message.At).StoreValue())
	return s.writer.Update(doc.ID(), doc)
}

// Search runs a match query on message content and returns the best
// hits, newest first.
func (s *SearchIndex) Search(ctx context.Context, terms string, limit int) ([]domain.Message, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.log.Debug("search reader close failed", "error", err)
		}
	}()

	query := bluge.NewMatchQuery(terms).SetField("content")
	request := bluge.NewTopNSearch(limit, query).SortBy([]string{"-at"})

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		message, err := storedFields(match)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func storedFields(match *search.DocumentMatch) (domain.Message, error) {
	var message domain.Message
	var visitErr error
	err := match.VisitStoredFields(func(field string, value []byte) bool {
		switch field {
		case "_id":
			parsed, err := uuid.Parse(string(value))
			if err != nil {
				visitErr = err
				return false
			}
			message.ID = parsed
		case "content":
			message.Content = string(value)
		case "sender":
			message.Sender = string(value)
		case "kind":
			message.Kind = domain.Kind(string(value))
		case "at":
			at, err := bluge.DecodeDateTime(value)
			if err != nil {
				visitErr = err
				return false
			}
			message.At = at.UTC()
		}
		return true
	})
	if err != nil {
		return domain.Message{}, err
	}
	if visitErr != nil {
		return domain.Message{}, visitErr
	}
	return message, nil
}
