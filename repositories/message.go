// Package repositories implements the durable side of the persistence
// gateway on BadgerDB, with a Bluge index for full-text history search.
package repositories

import (
	"chat-room/domain"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	Store(message domain.Message) error
	Recent(limit int) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// storedMessage is the on-disk shape. Timestamps are kept as UnixNano so
// the value round-trips without timezone surprises.
type storedMessage struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
	Kind    string `json:"kind"`
	At      int64  `json:"at"`
}

// messageKey formats "msg:{timestamp_padded}:{uuid}":
//  1. 19-digit zero padding keeps keys in chronological order under
//     Badger's lexicographic iteration.
//  2. The UUID acts as a collision disconnector if two messages land on
//     the same nanosecond.
func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%019d:%s", message.At.UnixNano(), message.ID))
}

const messagePrefix = "msg:"

func (m MessageRepository) Store(message domain.Message) error {
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), bytes)
	})
}

// Recent returns the last `limit` messages in chronological order. The
// scan walks newest-first from the end of the key space and the result
// is reversed, which is what a client replaying history wants to render.
func (m MessageRepository) Recent(limit int) ([]domain.Message, error) {
	var rawValues [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past every possible timestamp, then walk backwards
		seekKey := append([]byte(messagePrefix), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(rawValues) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				copied := append([]byte(nil), value...)
				rawValues = append(rawValues, copied)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(rawValues))
	for i := len(rawValues) - 1; i >= 0; i-- {
		var stored storedMessage
		if err := json.Unmarshal(rawValues[i], &stored); err != nil {
			return nil, err
		}
		message, err := toMessage(stored)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func fromMessage(message domain.Message) storedMessage {
	return storedMessage{
		ID:      message.ID.String(),
		Sender:  message.Sender,
		Content: message.Content,
		Kind:    string(message.Kind),
		At:      message.At.UnixNano(),
	}
}

func toMessage(stored storedMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:      parsedID,
		Sender:  stored.Sender,
		Content: stored.Content,
		Kind:    domain.Kind(stored.Kind),
		At:      time.Unix(0, stored.At).UTC(),
	}, nil
}
