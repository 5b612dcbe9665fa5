package logstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mockDB records executed SQL and serves canned rows.
type mockDB struct {
	execSQL []string
	rows    *mockRows
}

func (m *mockDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (m *mockDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	return m.rows, nil
}

func (m *mockDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	m.execSQL = append(m.execSQL, sql)
	return pgconn.CommandTag{}, nil
}

// mockRows implements pgx.Rows over canned row data.
type mockRows struct {
	data [][]any
	idx  int
}

func (r *mockRows) Close()                                       {}
func (r *mockRows) Err() error                                   { return nil }
func (r *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *mockRows) Values() ([]any, error)                       { return nil, nil }
func (r *mockRows) RawValues() [][]byte                          { return nil }
func (r *mockRows) Conn() *pgx.Conn                              { return nil }

func (r *mockRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *mockRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	for i, v := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *bool:
			*d = v.(bool)
		case *time.Time:
			*d = v.(time.Time)
		case *[]byte:
			*d = v.([]byte)
		}
	}
	return nil
}

func TestPostgresStore_AppendTrimsHistory(t *testing.T) {
	t.Parallel()
	db := &mockDB{}
	s := NewPostgresStore(db, 5)

	err := s.Append(context.Background(), Entry{
		Timestamp: time.Now(),
		Input:     "i want fud",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	if len(db.execSQL) != 2 {
		t.Fatalf("Append() issued %d statements, want insert + trim", len(db.execSQL))
	}
	if !strings.Contains(db.execSQL[0], "INSERT INTO correction_log") {
		t.Errorf("first statement = %q, want insert", db.execSQL[0])
	}
	if !strings.Contains(db.execSQL[1], "DELETE FROM correction_log") {
		t.Errorf("second statement = %q, want trim", db.execSQL[1])
	}
}

func TestPostgresStore_All(t *testing.T) {
	t.Parallel()
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	db := &mockDB{rows: &mockRows{data: [][]any{
		{ts, "i want fud", "CHANGES: fud->food", []byte(`[{"original":"fud","corrected":"food","source":"context"}]`), true},
	}}}
	s := NewPostgresStore(db, 5)

	entries, err := s.All(context.Background())
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("All() returned %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Input != "i want fud" || !e.Success || !e.Timestamp.Equal(ts) {
		t.Errorf("All()[0] = %+v, want logged check", e)
	}
	if len(e.Corrections) != 1 || e.Corrections[0].Original != "fud" {
		t.Errorf("Corrections = %v, want fud->food", e.Corrections)
	}
}

func TestPostgresStore_Migrate(t *testing.T) {
	t.Parallel()
	db := &mockDB{}
	s := NewPostgresStore(db, 0)

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if len(db.execSQL) != 1 || !strings.Contains(db.execSQL[0], "CREATE TABLE IF NOT EXISTS correction_log") {
		t.Errorf("Migrate() executed %v, want schema DDL", db.execSQL)
	}
}
