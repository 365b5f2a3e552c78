package repositories

import (
	"chat-room/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *badger.DB {
	t.Helper()
	options := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(options)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Store_And_Recent_Are_Chronological(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(testDB(t), slog.Default())
	at := time.Now().UTC().Truncate(time.Millisecond)

	messages := []domain.Message{
		{ID: uuid.New(), Sender: "alice", Content: "first", Kind: domain.KindUser, At: at},
		{ID: uuid.New(), Sender: "bob", Content: "second", Kind: domain.KindUser, At: at.Add(time.Minute)},
		{ID: uuid.New(), Sender: "System", Content: "clara joined the chat", Kind: domain.KindSystem, At: at.Add(2 * time.Minute)},
	}
	// Stored out of order on purpose: the key layout, not insertion
	// order, decides the scan order
	for _, i := range []int{1, 2, 0} {
		req.NoError(repository.Store(messages[i]))
	}

	fetched, err := repository.Recent(50)

	req.NoError(err)
	req.Equal(messages, fetched)
}

func Test_Recent_Keeps_The_Newest_When_Limited(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(testDB(t), slog.Default())
	at := time.Now().UTC()

	for i := 0; i < 10; i++ {
		req.NoError(repository.Store(domain.Message{
			ID:      uuid.New(),
			Sender:  "alice",
			Content: "message",
			Kind:    domain.KindUser,
			At:      at.Add(time.Duration(i) * time.Second),
		}))
	}

	fetched, err := repository.Recent(3)

	req.NoError(err)
	req.Len(fetched, 3)
	// Oldest of the kept window first, newest last
	req.True(fetched[0].At.Before(fetched[1].At))
	req.True(fetched[1].At.Before(fetched[2].At))
	req.Equal(at.Add(9*time.Second).UnixNano(), fetched[2].At.UnixNano())
}

func Test_Recent_On_Empty_Log(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(testDB(t), slog.Default())

	fetched, err := repository.Recent(50)

	req.NoError(err)
	req.Empty(fetched)
}
