// Package runtime hosts the session coordinator and the components it
// owns: the connection registry, presence announcements, message
// broadcasting and the typing relay. It carries no storage logic and no
// transport logic.
package runtime

import (
	"chat-room/contract"
	"chat-room/domain"
	"chat-room/errors"
	"sort"
	"sync"
)

// Registry is the single source of truth for "who is online right now".
// It tracks every live connection's sink from transport accept to close,
// and the subset of connections that completed a join. Only the
// Coordinator mutates it; every other component reads snapshots.
//
// Usernames are deliberately not unique here: the registry is a pure
// connection-to-name table and two connections may join under the same
// name (kept as-is, see DESIGN.md).
type Registry struct {
	mu       sync.RWMutex
	sinks    map[string]contract.EventSink
	sessions map[string]string // connection ID -> joined username
}

func NewRegistry() *Registry {
	return &Registry{
		sinks:    make(map[string]contract.EventSink),
		sessions: make(map[string]string),
	}
}

// Attach registers a live connection's sink. Called at transport accept,
// before any join: un-joined connections already receive broadcasts.
func (r *Registry) Attach(connectionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[connectionID] = sink
}

// Detach forgets the connection entirely. Any remaining session must have
// been removed through Leave first.
func (r *Registry) Detach(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, connectionID)
	delete(r.sessions, connectionID)
}

// Join binds a username to a connection. A connection joins at most once
// per lifetime.
func (r *Registry) Join(connectionID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[connectionID]; ok {
		return errors.ErrAlreadyJoined
	}
	r.sessions[connectionID] = username
	return nil
}

// Leave removes and returns the session bound to the connection.
// Disconnecting before a successful join is not an error for callers that
// only need to know whether announcements are due; they branch on
// ErrNotJoined.
func (r *Registry) Leave(connectionID string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	username, ok := r.sessions[connectionID]
	if !ok {
		return domain.Session{}, errors.ErrNotJoined
	}
	delete(r.sessions, connectionID)
	return domain.Session{ConnectionID: connectionID, Username: username}, nil
}

// Username resolves the joined name for a connection. The sender identity
// of a message is always looked up here, never trusted from the client.
func (r *Registry) Username(connectionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	username, ok := r.sessions[connectionID]
	return username, ok
}

// Snapshot returns the usernames of all joined sessions, computed from
// live state at call time. Sorted so every announced payload is
// reproducible; duplicates stay when two sessions share a name.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	usernames := make([]string, 0, len(r.sessions))
	for _, username := range r.sessions {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	return usernames
}

// Sinks returns the outbound side of every live connection, joined or not.
func (r *Registry) Sinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sinks := make([]contract.EventSink, 0, len(r.sinks))
	for _, sink := range r.sinks {
		sinks = append(sinks, sink)
	}
	return sinks
}

// SinksExcept returns every live sink but the origin's. Used by the
// typing relay, which never echoes back to the typer.
func (r *Registry) SinksExcept(connectionID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sinks := make([]contract.EventSink, 0, len(r.sinks))
	for id, sink := range r.sinks {
		if id == connectionID {
			continue
		}
		sinks = append(sinks, sink)
	}
	return sinks
}

// Sink resolves a single connection's sink, for events targeted at the
// origin only (acknowledgments, errors).
func (r *Registry) Sink(connectionID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sinks[connectionID]
	return sink, ok
}
