package logstore_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrWong99/orthograph/internal/logstore"
)

func entry(input string, success bool, triples ...logstore.Triple) logstore.Entry {
	return logstore.Entry{
		Timestamp:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Input:       input,
		Corrections: triples,
		Success:     success,
	}
}

func testStore(t *testing.T, s logstore.Store) {
	t.Helper()
	ctx := context.Background()

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() on empty store error: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("All() on empty store = %v, want empty", all)
	}

	e := entry("i want fud", true, logstore.Triple{Original: "fud", Corrected: "food", Source: "context"})
	if err := s.Append(ctx, e); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	all, err = s.All(ctx)
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("All() returned %d entries, want 1", len(all))
	}
	if all[0].Input != "i want fud" || !all[0].Success {
		t.Errorf("All()[0] = %+v, want input %q success=true", all[0], "i want fud")
	}
	if len(all[0].Corrections) != 1 || all[0].Corrections[0].Corrected != "food" {
		t.Errorf("All()[0].Corrections = %v, want single fud->food", all[0].Corrections)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	all, err = s.All(ctx)
	if err != nil {
		t.Fatalf("All() after Clear error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("All() after Clear = %v, want empty", all)
	}
}

func testStoreCap(t *testing.T, s logstore.Store) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		in := strings.Repeat("x", i+1)
		if err := s.Append(ctx, entry(in, true)); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("All() returned %d entries, want 3 (capped)", len(all))
	}
	// Oldest entries must be the ones evicted.
	if all[0].Input != "xxx" || all[2].Input != "xxxxx" {
		t.Errorf("retained entries = %q..%q, want xxx..xxxxx", all[0].Input, all[2].Input)
	}
}

func TestMemStore(t *testing.T) {
	t.Parallel()
	testStore(t, logstore.NewMemStore(0))
}

func TestMemStore_Cap(t *testing.T) {
	t.Parallel()
	testStoreCap(t, logstore.NewMemStore(3))
}

func TestFileStore(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "log.jsonl")
	testStore(t, logstore.NewFileStore(path, 0))
}

func TestFileStore_Cap(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "log.jsonl")
	testStoreCap(t, logstore.NewFileStore(path, 3))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "log.jsonl")

	s := logstore.NewFileStore(path, 10)
	if err := s.Append(ctx, entry("i am hungrey", false)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	reopened := logstore.NewFileStore(path, 10)
	all, err := reopened.All(ctx)
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(all) != 1 || all[0].Input != "i am hungrey" {
		t.Errorf("All() = %v, want single entry for %q", all, "i am hungrey")
	}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()
	entries := []logstore.Entry{
		entry("a", true,
			logstore.Triple{Original: "enuff", Corrected: "enough", Source: "phonetic"},
			logstore.Triple{Original: "fud", Corrected: "food", Source: "context"},
		),
		entry("b", false),
		entry("c", true, logstore.Triple{Original: "enuff", Corrected: "enough", Source: "cache"}),
	}

	st := logstore.ComputeStats(entries)
	if st.Entries != 3 || st.Successes != 2 || st.Failures != 1 {
		t.Errorf("ComputeStats() = %+v, want 3 entries, 2 successes, 1 failure", st)
	}
	if st.Corrections != 3 {
		t.Errorf("Corrections = %d, want 3", st.Corrections)
	}
	if st.BySource["phonetic"] != 1 || st.BySource["context"] != 1 || st.BySource["cache"] != 1 {
		t.Errorf("BySource = %v, want one of each", st.BySource)
	}
}

func TestExport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := logstore.NewMemStore(10)
	if err := s.Append(ctx, entry("i want fud", true, logstore.Triple{Original: "fud", Corrected: "food", Source: "context"})); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	var sb strings.Builder
	if err := logstore.Export(ctx, s, &sb); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	out := sb.String()
	for _, want := range []string{`"i want fud"`, `"fud"`, `"food"`, `"context"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Export() output missing %s:\n%s", want, out)
		}
	}
}

func TestExport_EmptyLogIsJSONArray(t *testing.T) {
	t.Parallel()
	var sb strings.Builder
	if err := logstore.Export(context.Background(), logstore.NewMemStore(10), &sb); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if got := strings.TrimSpace(sb.String()); got != "[]" {
		t.Errorf("Export() of empty log = %q, want []", got)
	}
}
