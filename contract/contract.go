//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-room/domain"
	"chat-room/domain/event"
	"context"
	"reflect"
	"time"
)

// EventSink is one live connection's outbound side. Consume must not
// block the caller: transport sinks buffer and drop rather than stall
// the coordinator.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// Gateway is the durable storage boundary. SaveMessage assigns the
// message its identifier and timestamp; the coordinator never invents
// either. A timeout policy belongs to the implementation, not to the
// callers.
type Gateway interface {
	SaveMessage(sender, content string, kind domain.Kind) (domain.Message, error)
	UpsertPresence(username, connectionID string, online bool, lastSeen time.Time) error
	RecentMessages(limit int) ([]domain.Message, error)
}

// Worker doesn't protect itself: the supervisor recovers panics and
// restarts it.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// for logging and supervision without forcing a naming method on every
// implementation.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
