package logstore

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the log as append-only JSON lines in a local file.
// When the file grows past the configured cap it is compacted in place,
// keeping only the newest entries.
type FileStore struct {
	mu   sync.Mutex
	path string
	max  int
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore writing to path, retaining at most max
// entries. The file is created on first append. A max of zero or less falls
// back to [DefaultMaxEntries].
func NewFileStore(path string, max int) *FileStore {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &FileStore{path: path, max: max}
}

func (s *FileStore) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("logstore: marshal: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("logstore: open file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("logstore: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("logstore: close: %w", err)
	}

	entries, err := s.read()
	if err != nil {
		return err
	}
	if len(entries) > s.max {
		return s.rewrite(entries[len(entries)-s.max:])
	}
	return nil
}

func (s *FileStore) All(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("logstore: clear: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// read parses the JSONL file. A missing file is an empty log. Unparseable
// lines are skipped rather than failing the whole read.
func (s *FileStore) read() ([]Entry, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("logstore: open file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("logstore: read: %w", err)
	}
	return entries, nil
}

// rewrite atomically replaces the file with the given entries.
func (s *FileStore) rewrite(entries []Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".log-*")
	if err != nil {
		return fmt.Errorf("logstore: compact: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			tmp.Close()
			return fmt.Errorf("logstore: compact encode: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("logstore: compact flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("logstore: compact close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("logstore: compact rename: %w", err)
	}
	return nil
}
