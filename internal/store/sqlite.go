package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/helios/internal/model"
)

// SQLiteLog is a Log kept in a private in-memory SQLite database.
type SQLiteLog struct {
	db    *sql.DB
	limit int
	ids   *idSource
}

// NewSQLiteLog opens an in-memory database for one session's turns.
// limit <= 0 disables eviction.
func NewSQLiteLog(limit int) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Every pooled connection to ":memory:" would get its own database.
	db.SetMaxOpenConns(1)

	s := &SQLiteLog{db: db, limit: limit, ids: newIDSource()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteLog) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS turns (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		query       TEXT NOT NULL,
		project_key TEXT,
		response    TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);`)
	return err
}

func (s *SQLiteLog) Append(ctx context.Context, t model.Turn) (model.Turn, error) {
	t.ID = s.ids.next()
	t.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return t, err
	}
	defer tx.Rollback()

	var projectKey *string
	if t.ProjectKey != "" {
		projectKey = &t.ProjectKey
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns (id, query, project_key, response, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Query, projectKey, t.Response, t.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return t, fmt.Errorf("insert turn: %w", err)
	}

	if s.limit > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM turns WHERE seq NOT IN (SELECT seq FROM turns ORDER BY seq DESC LIMIT ?)`,
			s.limit)
		if err != nil {
			return t, fmt.Errorf("evict turns: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return t, err
	}
	return t, nil
}

func (s *SQLiteLog) Turns(ctx context.Context) ([]model.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, project_key, response, created_at FROM turns ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []model.Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *SQLiteLog) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns`).Scan(&n)
	return n, err
}

func (s *SQLiteLog) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTurn(row scanner) (model.Turn, error) {
	var t model.Turn
	var projectKey sql.NullString
	var createdAt string

	if err := row.Scan(&t.ID, &t.Query, &projectKey, &t.Response, &createdAt); err != nil {
		return t, err
	}
	if projectKey.Valid {
		t.ProjectKey = projectKey.String
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return t, nil
}
