package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/wordbank/pkg/errors"
)

// FileStore keeps one JSON file per session in a directory.
type FileStore struct {
	mu      sync.Mutex
	baseDir string
}

// NewFileStore creates a file store. If baseDir is empty it defaults to
// $XDG_STATE_HOME/wordbank/sessions (~/.local/state/wordbank/sessions).
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the default session directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "wordbank", "sessions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "wordbank", "sessions"), nil
}

// Path returns the base directory for session files.
func (f *FileStore) Path() string { return f.baseDir }

func (f *FileStore) sessionPath(id string) (string, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return "", err
	}
	return filepath.Join(f.baseDir, id+".json"), nil
}

func (f *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(id)
}

func (f *FileStore) Set(ctx context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store(s)
}

func (f *FileStore) Update(ctx context.Context, id string, fn UpdateFunc) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.load(id)
	if err != nil {
		return nil, err
	}
	next, err := apply(s, fn)
	if err != nil {
		return nil, err
	}
	if err := f.store(next); err != nil {
		return nil, err
	}
	return next, nil
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.sessionPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (f *FileStore) Cleanup(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(f.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		if now.After(s.ExpiresAt) {
			os.Remove(path)
		}
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

// load must be called with mu held.
func (f *FileStore) load(id string) (*Session, error) {
	path, err := f.sessionPath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse session %s", id)
	}
	if s.IsExpired() {
		os.Remove(path)
		return nil, expired(id)
	}
	return &s, nil
}

// store must be called with mu held.
func (f *FileStore) store(s *Session) error {
	path, err := f.sessionPath(s.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, path)
}

var _ Store = (*FileStore)(nil)
