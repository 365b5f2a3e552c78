package repositories

import (
	"chat-room/domain"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T) *SearchIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewSearchIndex(writer, slog.Default())
}

func Test_Search_Finds_Matching_Content(t *testing.T) {
	req := require.New(t)
	index := testIndex(t)
	at := time.Now().UTC().Truncate(time.Millisecond)

	deploy := domain.Message{
		ID:      uuid.New(),
		Sender:  "alice",
		Content: "the deploy finished without errors",
		Kind:    domain.KindUser,
		At:      at,
	}
	req.NoError(index.Index(deploy))
	req.NoError(index.Index(domain.Message{
		ID:      uuid.New(),
		Sender:  "bob",
		Content: "lunch anyone?",
		Kind:    domain.KindUser,
		At:      at.Add(time.Minute),
	}))

	found, err := index.Search(context.Background(), "deploy", 10)

	req.NoError(err)
	req.Len(found, 1)
	req.Equal(deploy.ID, found[0].ID)
	req.Equal("alice", found[0].Sender)
	req.Equal(deploy.Content, found[0].Content)
	req.Equal(domain.KindUser, found[0].Kind)
}

func Test_Search_Without_Hits(t *testing.T) {
	req := require.New(t)
	index := testIndex(t)

	found, err := index.Search(context.Background(), "nothing", 10)

	req.NoError(err)
	req.Empty(found)
}
