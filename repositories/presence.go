package repositories

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IPresenceRepository interface {
	Upsert(username, connectionID string, online bool, lastSeen time.Time) error
	Online() ([]PresenceRecord, error)
	All() ([]PresenceRecord, error)
}

// PresenceRecord is the durable trace of a user, keyed by username.
// It lags behind the in-memory registry by design: after an unclean
// disconnect the record may claim "online" until the next upsert
// overwrites it.
type PresenceRecord struct {
	Username     string    `json:"username"`
	ConnectionID string    `json:"connection_id"`
	Online       bool      `json:"online"`
	LastSeen     time.Time `json:"last_seen"`
}

type PresenceRepository struct {
	db *badger.DB
}

func NewPresenceRepository(db *badger.DB) PresenceRepository {
	return PresenceRepository{db: db}
}

const userPrefix = "user:"

// Upsert creates or overwrites the record for the username. The last
// writer wins; two live sessions with the same name share one record.
func (p PresenceRepository) Upsert(username, connectionID string, online bool, lastSeen time.Time) error {
	record := PresenceRecord{
		Username:     username,
		ConnectionID: connectionID,
		Online:       online,
		LastSeen:     lastSeen,
	}
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(userPrefix+username), bytes)
	})
}

// Online lists the users whose durable record says online, sorted by
// username.
func (p PresenceRepository) Online() ([]PresenceRecord, error) {
	records, err := p.All()
	if err != nil {
		return nil, err
	}
	online := records[:0]
	for _, record := range records {
		if record.Online {
			online = append(online, record)
		}
	}
	sort.Slice(online, func(i, j int) bool { return online[i].Username < online[j].Username })
	return online, nil
}

// All lists every user ever seen, most recently seen first.
func (p PresenceRepository) All() ([]PresenceRecord, error) {
	var records []PresenceRecord
	err := p.db.View(func(txn *badger.Txn) error {
		prefix := []byte(userPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var record PresenceRecord
				if err := json.Unmarshal(value, &record); err != nil {
					return err
				}
				records = append(records, record)
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
	sort.Slice(records, func(i, j int) bool { return records[i].LastSeen.After(records[j].LastSeen) })
	return records, nil
}
