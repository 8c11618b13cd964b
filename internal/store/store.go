// Package store holds per-session conversation logs. Logs live only for
// the life of the process and keep at most Limit turns, evicting the
// oldest first.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rcliao/helios/internal/model"
)

// DefaultLimit is the number of turns a log keeps when none is configured.
const DefaultLimit = 50

// Log is an append-only, size-bounded sequence of conversation turns.
type Log interface {
	// Append stores a turn, assigning its ID and CreatedAt. Returns the stored turn.
	Append(ctx context.Context, t model.Turn) (model.Turn, error)

	// Turns returns the retained turns, oldest first.
	Turns(ctx context.Context) ([]model.Turn, error)

	// Len returns the number of retained turns.
	Len(ctx context.Context) (int, error)

	// Close releases resources held by the log.
	Close() error
}

// MemoryLog is a Log backed by a slice.
type MemoryLog struct {
	mu    sync.Mutex
	limit int
	ids   *idSource
	turns []model.Turn
}

// NewMemoryLog creates a slice-backed log. limit <= 0 disables eviction.
func NewMemoryLog(limit int) *MemoryLog {
	return &MemoryLog{limit: limit, ids: newIDSource()}
}

func (l *MemoryLog) Append(ctx context.Context, t model.Turn) (model.Turn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t.ID = l.ids.next()
	t.CreatedAt = time.Now().UTC()
	l.turns = append(l.turns, t)
	if l.limit > 0 && len(l.turns) > l.limit {
		drop := len(l.turns) - l.limit
		l.turns = append([]model.Turn(nil), l.turns[drop:]...)
	}
	return t, nil
}

func (l *MemoryLog) Turns(ctx context.Context) ([]model.Turn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Turn, len(l.turns))
	copy(out, l.turns)
	return out, nil
}

func (l *MemoryLog) Len(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns), nil
}

func (l *MemoryLog) Close() error { return nil }
