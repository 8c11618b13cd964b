package chat

import (
	"context"
	"time"

	"github.com/rcliao/helios/internal/model"
	"github.com/rcliao/helios/internal/store"
)

// Session is the per-caller conversation context. It is owned by the
// caller and is not safe for concurrent use.
type Session struct {
	ID        string
	Log       store.Log
	Current   *Result
	CreatedAt time.Time
}

// NewSession starts a session on log. A nil log gets a MemoryLog with
// store.DefaultLimit.
func NewSession(log store.Log) *Session {
	if log == nil {
		log = store.NewMemoryLog(store.DefaultLimit)
	}
	return &Session{
		ID:        store.NewID(),
		Log:       log,
		CreatedAt: time.Now().UTC(),
	}
}

// History returns the retained turns, oldest first.
func (s *Session) History(ctx context.Context) ([]model.Turn, error) {
	return s.Log.Turns(ctx)
}

// Close releases the session's log.
func (s *Session) Close() error {
	return s.Log.Close()
}
