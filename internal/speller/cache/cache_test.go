package cache_test

import (
	"testing"

	"github.com/MrWong99/orthograph/internal/speller/cache"
)

func testStore(t *testing.T, s cache.Store) {
	t.Helper()

	if _, ok, err := s.Get("enuff"); err != nil || ok {
		t.Fatalf("Get() on empty store = ok=%v err=%v, want miss", ok, err)
	}

	if err := s.Set("Enuff", "Enough"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	// Lookups and stored values are case-insensitive.
	got, ok, err := s.Get("ENUFF")
	if err != nil || !ok {
		t.Fatalf("Get() after Set = ok=%v err=%v, want hit", ok, err)
	}
	if got != "enough" {
		t.Errorf("Get() = %q, want %q", got, "enough")
	}

	// Identity and empty mappings are silently dropped.
	if err := s.Set("phone", "phone"); err != nil {
		t.Fatalf("Set() identity error: %v", err)
	}
	if err := s.Set("", "word"); err != nil {
		t.Fatalf("Set() empty error: %v", err)
	}
	if n, err := s.Len(); err != nil || n != 1 {
		t.Errorf("Len() = %d err=%v, want 1", n, err)
	}

	if err := s.Set("fone", "phone"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if n, err := s.Len(); err != nil || n != 2 {
		t.Errorf("Len() = %d err=%v, want 2", n, err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n, err := s.Len(); err != nil || n != 0 {
		t.Errorf("Len() after Clear = %d err=%v, want 0", n, err)
	}
	if _, ok, err := s.Get("enuff"); err != nil || ok {
		t.Errorf("Get() after Clear = ok=%v err=%v, want miss", ok, err)
	}
}

func TestMemStore(t *testing.T) {
	t.Parallel()
	testStore(t, cache.NewMemStore())
}

func TestBadgerStore(t *testing.T) {
	s, err := cache.OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadger() error: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	testStore(t, s)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := cache.OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger() error: %v", err)
	}
	if err := s.Set("becuase", "because"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	s, err = cache.OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger() reopen error: %v", err)
	}
	defer s.Close()

	got, ok, err := s.Get("becuase")
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = ok=%v err=%v, want hit", ok, err)
	}
	if got != "because" {
		t.Errorf("Get() = %q, want %q", got, "because")
	}
}
