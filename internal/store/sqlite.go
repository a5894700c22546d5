package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/ppiankov/conceptor/internal/concept"
)

// sortableTime keeps created_at lexically ordered.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteRepository stores each concept as a JSON snapshot plus the columns
// needed for lookups. Writes run in IMMEDIATE transactions so the idea id
// check and the write cannot interleave with another writer.
type SQLiteRepository struct {
	conn  *sql.DB
	clock concept.Clock
}

// NewSQLiteRepository opens (and creates if needed) the database at path.
// ":memory:" is accepted for tests.
func NewSQLiteRepository(path string, clock concept.Clock) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := initTables(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}
	return &SQLiteRepository{conn: conn, clock: clock}, nil
}

func initTables(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS concepts (
			id TEXT PRIMARY KEY,
			idea_id TEXT,
			state TEXT NOT NULL,
			created_at TEXT NOT NULL,
			data TEXT NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_concepts_idea_id
		ON concepts(idea_id) WHERE idea_id IS NOT NULL;

		CREATE INDEX IF NOT EXISTS idx_concepts_state_created
		ON concepts(state, created_at);
	`)
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.conn.Close()
}

func (r *SQLiteRepository) Add(ctx context.Context, c *concept.Concept) error {
	snap := c.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode concept %s: %w", snap.ID, err)
	}

	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO concepts (id, idea_id, state, created_at, data) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, nullable(snap.IdeaID), string(snap.State), snap.CreatedAt.UTC().Format(sortableTime), string(data),
	)
	return translate(err, snap)
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*concept.Concept, error) {
	var data string
	err := r.conn.QueryRowContext(ctx, `SELECT data FROM concepts WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load concept %s: %w", id, err)
	}
	return r.decode(data)
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, mutate Mutator) (*concept.Concept, error) {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx, `SELECT data FROM concepts WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load concept %s: %w", id, err)
	}

	c, err := r.decode(data)
	if err != nil {
		return nil, err
	}
	if err := mutate(c); err != nil {
		return nil, err
	}

	snap := c.Snapshot()
	if snap.IdeaID != "" {
		var owner string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM concepts WHERE idea_id = ? AND id <> ?`, snap.IdeaID, snap.ID,
		).Scan(&owner)
		if err == nil {
			return nil, &IdeaConflictError{IdeaID: snap.IdeaID}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("check idea id: %w", err)
		}
	}

	encoded, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode concept %s: %w", snap.ID, err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE concepts SET idea_id = ?, state = ?, data = ? WHERE id = ?`,
		nullable(snap.IdeaID), string(snap.State), string(encoded), snap.ID,
	)
	if err != nil {
		return nil, translate(err, snap)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]*concept.Concept, error) {
	query := `SELECT data FROM concepts`
	var args []any
	if len(filter.States) > 0 {
		marks := make([]string, len(filter.States))
		for i, s := range filter.States {
			marks[i] = "?"
			args = append(args, string(s))
		}
		query += ` WHERE state IN (` + strings.Join(marks, ", ") + `)`
	}
	query += ` ORDER BY created_at, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list concepts: %w", err)
	}
	defer rows.Close()

	var out []*concept.Concept
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}
		c, err := r.decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) decode(data string) (*concept.Concept, error) {
	var snap concept.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decode concept: %w", err)
	}
	return concept.Restore(snap, r.clock)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// translate maps sqlite constraint failures to repository errors.
func translate(err error, snap concept.Snapshot) error {
	if err == nil {
		return nil
	}
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey:
			return ErrDuplicateID
		case sqlite3.ErrConstraintUnique:
			if strings.Contains(sqlErr.Error(), "idea_id") {
				return &IdeaConflictError{IdeaID: snap.IdeaID}
			}
			return ErrDuplicateID
		}
	}
	return fmt.Errorf("write concept %s: %w", snap.ID, err)
}
