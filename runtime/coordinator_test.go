package runtime

import (
	"chat-room/domain"
	"chat-room/domain/event"
	"chat-room/errors"
	"chat-room/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_Coordinator_Full_Session_Scenario(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	coordinator := NewCoordinator(slog.Default(), echoGateway(ctrl), nil)

	// Given connection A joins as "alice"
	a := &RecordingSink{}
	aID := uuid.NewString()
	coordinator.Connect(aID, a)
	req.NoError(coordinator.Join(ctx, aID, "alice"))

	// Then A is acknowledged before anything else
	ack, ok := a.events[0].(event.JoinSuccess)
	req.True(ok, "first event to the origin should be the join ack")
	req.Equal("alice", ack.Username)

	// And everyone observes the system message and the snapshot
	req.Len(a.Broadcasts(), 1)
	req.Equal("alice joined the chat", a.Broadcasts()[0].Message.Content)
	req.Equal(domain.KindSystem, a.Broadcasts()[0].Message.Kind)
	req.Equal([]string{"alice"}, a.Presence()[0].Usernames)

	// When connection B joins as "bob"
	b := &RecordingSink{}
	bID := uuid.NewString()
	coordinator.Connect(bID, b)
	req.NoError(coordinator.Join(ctx, bID, "bob"))

	req.Equal([]string{"alice", "bob"}, a.Presence()[1].Usernames)
	req.Equal([]string{"alice", "bob"}, b.Presence()[0].Usernames)

	// When A sends "hi", both receive the same user message
	req.NoError(coordinator.Send(ctx, aID, "hi"))
	last := a.Broadcasts()[len(a.Broadcasts())-1]
	req.Equal("alice", last.Message.Sender)
	req.Equal("hi", last.Message.Content)
	req.Equal(domain.KindUser, last.Message.Kind)
	req.Equal(last.Message, b.Broadcasts()[len(b.Broadcasts())-1].Message)

	// When B disconnects
	coordinator.Disconnect(ctx, bID)

	req.Equal([]string{"alice"}, a.Presence()[len(a.Presence())-1].Usernames)
	leave := a.Broadcasts()[len(a.Broadcasts())-1].Message
	req.Equal("bob left the chat", leave.Content)
	req.Equal(domain.KindSystem, leave.Kind)
}

func Test_Coordinator_Join_Rejects_Blank_Username(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	coordinator := NewCoordinator(slog.Default(), mocks.NewMockGateway(ctrl), nil)

	sink := &RecordingSink{}
	connectionID := uuid.NewString()
	coordinator.Connect(connectionID, sink)

	for _, username := range []string{"", "   ", "\t"} {
		err := coordinator.Join(ctx, connectionID, username)
		req.ErrorIs(err, errors.ErrInvalidUsername)
	}

	// The connection stays in state Connected: no ack, no announcement
	req.Empty(sink.events)
	req.Empty(coordinator.Registry().Snapshot())
}

func Test_Coordinator_Join_Trims_The_Username(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	coordinator := NewCoordinator(slog.Default(), echoGateway(ctrl), nil)

	sink := &RecordingSink{}
	connectionID := uuid.NewString()
	coordinator.Connect(connectionID, sink)

	req.NoError(coordinator.Join(ctx, connectionID, "  alice  "))

	req.Equal([]string{"alice"}, coordinator.Registry().Snapshot())
}

func Test_Coordinator_Disconnect_Before_Join_Is_Silent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	// Strict mock: any gateway call would fail the test
	coordinator := NewCoordinator(slog.Default(), mocks.NewMockGateway(ctrl), nil)

	witness := &RecordingSink{}
	witnessID := uuid.NewString()
	coordinator.Connect(witnessID, witness)

	ghostID := uuid.NewString()
	coordinator.Connect(ghostID, &RecordingSink{})

	// When the never-joined connection closes
	coordinator.Disconnect(ctx, ghostID)

	// Then no system message and no presence announcement is observed
	req.Empty(witness.events)
	req.Empty(coordinator.Registry().SinksExcept(witnessID))
}

func Test_Coordinator_Duplicate_Usernames_Both_Appear(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	coordinator := NewCoordinator(slog.Default(), echoGateway(ctrl), nil)

	firstID, secondID := uuid.NewString(), uuid.NewString()
	coordinator.Connect(firstID, &RecordingSink{})
	coordinator.Connect(secondID, &RecordingSink{})

	req.NoError(coordinator.Join(ctx, firstID, "alice"))
	req.NoError(coordinator.Join(ctx, secondID, "alice"))

	req.Equal([]string{"alice", "alice"}, coordinator.Registry().Snapshot())
}

func Test_Coordinator_Join_Announcement_Persistence_Failure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	gateway := mocks.NewMockGateway(ctrl)
	gateway.EXPECT().
		UpsertPresence("alice", gomock.Any(), true, gomock.Any()).
		Return(nil)
	gateway.EXPECT().
		SaveMessage(domain.SystemSender, "alice joined the chat", domain.KindSystem).
		Return(domain.Message{}, fmt.Errorf("store unreachable"))

	coordinator := NewCoordinator(slog.Default(), gateway, nil)
	sink := &RecordingSink{}
	connectionID := uuid.NewString()
	coordinator.Connect(connectionID, sink)

	err := coordinator.Join(ctx, connectionID, "alice")

	// The registry mutation is not rolled back: alice is online in
	// memory, only the announcement and the presence update are skipped.
	req.ErrorIs(err, errors.ErrPersistence)
	req.Equal([]string{"alice"}, coordinator.Registry().Snapshot())
	req.Empty(sink.Broadcasts())
	req.Empty(sink.Presence())
}

func Test_Coordinator_Second_Join_On_Same_Connection(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	coordinator := NewCoordinator(slog.Default(), echoGateway(ctrl), nil)

	sink := &RecordingSink{}
	connectionID := uuid.NewString()
	coordinator.Connect(connectionID, sink)
	req.NoError(coordinator.Join(ctx, connectionID, "alice"))

	// Renaming by re-joining is out of scope
	err := coordinator.Join(ctx, connectionID, "alice-renamed")

	req.ErrorIs(err, errors.ErrAlreadyJoined)
	req.Equal([]string{"alice"}, coordinator.Registry().Snapshot())
}
