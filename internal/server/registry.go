package server

import (
	"errors"
	"sync"

	"github.com/rcliao/helios/internal/chat"
	"github.com/rcliao/helios/internal/store"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// LogFactory creates the conversation log for a new session.
type LogFactory func() (store.Log, error)

// MemoryLogs returns a factory of slice-backed logs bounded to limit turns.
func MemoryLogs(limit int) LogFactory {
	return func() (store.Log, error) { return store.NewMemoryLog(limit), nil }
}

// SQLiteLogs returns a factory of in-memory SQLite logs bounded to limit turns.
func SQLiteLogs(limit int) LogFactory {
	return func() (store.Log, error) { return store.NewSQLiteLog(limit) }
}

// entry serializes queries within one session.
type entry struct {
	mu   sync.Mutex
	sess *chat.Session
}

// Registry holds live sessions keyed by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	newLog   LogFactory
}

// NewRegistry creates an empty registry.
func NewRegistry(newLog LogFactory) *Registry {
	if newLog == nil {
		newLog = MemoryLogs(store.DefaultLimit)
	}
	return &Registry{sessions: make(map[string]*entry), newLog: newLog}
}

// Create starts a new session.
func (r *Registry) Create() (*chat.Session, error) {
	log, err := r.newLog()
	if err != nil {
		return nil, err
	}
	sess := chat.NewSession(log)

	r.mu.Lock()
	r.sessions[sess.ID] = &entry{sess: sess}
	r.mu.Unlock()
	return sess, nil
}

// With runs fn while holding the session's lock.
func (r *Registry) With(id string, fn func(*chat.Session) error) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Delete removes a session and closes its log.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Close()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close closes every session.
func (r *Registry) Close() error {
	r.mu.Lock()
	entries := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	var errs []error
	for _, e := range entries {
		e.mu.Lock()
		errs = append(errs, e.sess.Close())
		e.mu.Unlock()
	}
	return errors.Join(errs...)
}
