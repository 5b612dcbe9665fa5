package logstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the correction_log table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS correction_log (
    id           BIGSERIAL PRIMARY KEY,
    logged_at    TIMESTAMPTZ NOT NULL,
    input        TEXT NOT NULL,
    raw_response TEXT NOT NULL DEFAULT '',
    corrections  JSONB NOT NULL DEFAULT '[]',
    success      BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_correction_log_logged_at ON correction_log(logged_at);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database.
type PostgresStore struct {
	db  DB
	max int
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a [PostgresStore] using the given connection or
// pool, retaining at most max entries. The caller is responsible for calling
// [PostgresStore.Migrate] before issuing queries. A max of zero or less
// falls back to [DefaultMaxEntries].
func NewPostgresStore(db DB, max int) *PostgresStore {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &PostgresStore{db: db, max: max}
}

// Migrate executes the [Schema] DDL against the database.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("logstore: migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, e Entry) error {
	corrJSON, err := json.Marshal(emptyTriples(e.Corrections))
	if err != nil {
		return fmt.Errorf("logstore: marshal corrections: %w", err)
	}

	const insert = `
		INSERT INTO correction_log (logged_at, input, raw_response, corrections, success)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.Exec(ctx, insert,
		e.Timestamp.UTC(), e.Input, e.RawResponse, corrJSON, e.Success,
	); err != nil {
		return fmt.Errorf("logstore: append: %w", err)
	}

	const trim = `
		DELETE FROM correction_log
		WHERE id NOT IN (SELECT id FROM correction_log ORDER BY id DESC LIMIT $1)`
	if _, err := s.db.Exec(ctx, trim, s.max); err != nil {
		return fmt.Errorf("logstore: trim: %w", err)
	}
	return nil
}

func (s *PostgresStore) All(ctx context.Context) ([]Entry, error) {
	const query = `
		SELECT logged_at, input, raw_response, corrections, success
		FROM correction_log
		ORDER BY id`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("logstore: all: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			ts       time.Time
			corrJSON []byte
		)
		if err := rows.Scan(&ts, &e.Input, &e.RawResponse, &corrJSON, &e.Success); err != nil {
			return nil, fmt.Errorf("logstore: all scan: %w", err)
		}
		e.Timestamp = ts
		if err := json.Unmarshal(corrJSON, &e.Corrections); err != nil {
			return nil, fmt.Errorf("logstore: unmarshal corrections: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("logstore: all: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM correction_log`); err != nil {
		return fmt.Errorf("logstore: clear: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return nil
}

// emptyTriples returns t if non-nil, otherwise an empty non-nil slice. This
// ensures JSON marshalling produces "[]" instead of "null".
func emptyTriples(t []Triple) []Triple {
	if t == nil {
		return []Triple{}
	}
	return t
}
