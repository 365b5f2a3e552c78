package runtime

import (
	"chat-room/domain/event"
	"chat-room/errors"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct{}

func (s Sink) Consume(ctx context.Context, e event.Event) error {
	return nil
}

func TestRegistry_Join_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()

	// Given a live connection that has not joined
	registry.Attach(connectionID, Sink{})
	req.Empty(registry.Snapshot())

	// When the connection joins
	err := registry.Join(connectionID, "alice")

	// Then the session exists and the snapshot contains the name
	req.NoError(err)
	req.Equal([]string{"alice"}, registry.Snapshot())

	username, ok := registry.Username(connectionID)
	req.True(ok)
	req.Equal("alice", username)
}

func TestRegistry_Join_Twice_Is_Rejected(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	registry.Attach(connectionID, Sink{})

	req.NoError(registry.Join(connectionID, "alice"))

	// A connection joins at most once per lifetime
	err := registry.Join(connectionID, "alice2")
	req.ErrorIs(err, errors.ErrAlreadyJoined)
	req.Equal([]string{"alice"}, registry.Snapshot())
}

func TestRegistry_Leave_Without_Join(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	registry.Attach(connectionID, Sink{})

	// When a connection disconnects before joining
	_, err := registry.Leave(connectionID)

	// Then the registry signals that no session existed
	req.ErrorIs(err, errors.ErrNotJoined)
}

func TestRegistry_Leave_Returns_The_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	registry.Attach(connectionID, Sink{})
	req.NoError(registry.Join(connectionID, "bob"))

	session, err := registry.Leave(connectionID)

	req.NoError(err)
	req.Equal("bob", session.Username)
	req.Equal(connectionID, session.ConnectionID)
	req.Empty(registry.Snapshot())
}

func TestRegistry_Duplicate_Usernames_Are_Permitted(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := uuid.NewString()
	second := uuid.NewString()
	registry.Attach(first, Sink{})
	registry.Attach(second, Sink{})

	// Two distinct connections pick the same name: both succeed, both
	// count. Intended behavior, not a bug.
	req.NoError(registry.Join(first, "alice"))
	req.NoError(registry.Join(second, "alice"))

	req.Equal([]string{"alice", "alice"}, registry.Snapshot())
}

func TestRegistry_Snapshot_Is_Sorted(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	for _, username := range []string{"zoe", "alice", "bob"} {
		connectionID := uuid.NewString()
		registry.Attach(connectionID, Sink{})
		req.NoError(registry.Join(connectionID, username))
	}

	req.Equal([]string{"alice", "bob", "zoe"}, registry.Snapshot())
}

func TestRegistry_SinksExcept_Excludes_The_Origin(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	origin := uuid.NewString()
	other := uuid.NewString()
	registry.Attach(origin, Sink{})
	registry.Attach(other, Sink{})

	req.Len(registry.Sinks(), 2)
	req.Len(registry.SinksExcept(origin), 1)
}

func TestRegistry_Detach_Forgets_The_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	registry.Attach(connectionID, Sink{})
	req.NoError(registry.Join(connectionID, "alice"))

	registry.Detach(connectionID)

	req.Empty(registry.Sinks())
	req.Empty(registry.Snapshot())
	_, ok := registry.Sink(connectionID)
	req.False(ok)
}
