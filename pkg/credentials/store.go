package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// File is the on-disk layout of the credential file.
type File struct {
	APIKey      string    `json:"api_key,omitempty"`
	Tokens      *Tokens   `json:"tokens,omitempty"`
	LastRefresh time.Time `json:"last_refresh,omitzero"`
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// Path is the credential file. A missing file is not an error; the store
	// is simply empty until the file appears.
	Path string

	// Watch reloads the file whenever it changes on disk.
	Watch bool

	// PreferredMode picks the credential when the file holds both an API key
	// and a managed login. Empty prefers the managed login.
	PreferredMode AuthMode

	// Refresh configures managed login refresh. Refreshed tokens are written
	// back to Path.
	Refresh RefreshConfig

	Logger *slog.Logger
}

// Store loads the stored credential from a JSON credential file.
//
// The file must be a regular file with 0600 or 0400 permissions. When
// watching is enabled the parent directory is watched so that atomic
// replacements of the file are noticed too. A reload that fails keeps the
// previous credential.
type Store struct {
	opts   StoreOptions
	logger *slog.Logger

	mu      sync.RWMutex
	file    File
	current Credential

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	done    chan struct{}
}

// OpenStore opens the credential store described by opts.
func OpenStore(opts StoreOptions) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("credential file path is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		opts:   opts,
		logger: logger.With("component", "credentials", "path", opts.Path),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	if err := s.reload(); err != nil {
		return nil, err
	}

	if !opts.Watch {
		close(s.done)
		return s, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(opts.Path)); err != nil {
		_ = watcher.Close() // Best effort close on error path
		return nil, fmt.Errorf("failed to watch credential directory: %w", err)
	}

	s.watcher = watcher
	go s.watchLoop()

	s.logger.Info("credential store started with watching")
	return s, nil
}

// Current returns the stored credential, or nil when the store is empty.
func (s *Store) Current() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// File returns a copy of the loaded credential file.
func (s *Store) File() File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.file
	if f.Tokens != nil {
		tokens := *f.Tokens
		f.Tokens = &tokens
	}
	return f
}

// Save writes f to the credential file with 0600 permissions and makes it
// the current credential.
func (s *Store) Save(f File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.opts.Path, f); err != nil {
		return err
	}
	s.setLocked(f)
	return nil
}

// Close stops the file watcher.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.stopCh)
	err := s.watcher.Close()
	<-s.done
	return err
}

func (s *Store) reload() error {
	f, err := readFile(s.opts.Path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.setLocked(f)
	s.mu.Unlock()
	return nil
}

func (s *Store) setLocked(f File) {
	s.file = f
	s.current = s.selectCredential(f)
}

func (s *Store) selectCredential(f File) Credential {
	hasKey := strings.TrimSpace(f.APIKey) != ""
	hasLogin := f.Tokens != nil && (f.Tokens.AccessToken != "" || f.Tokens.RefreshToken != "")

	switch {
	case hasKey && s.opts.PreferredMode == ModeAPIKey:
		return FromAPIKey(f.APIKey)
	case hasLogin:
		return NewManagedLogin(*f.Tokens, s.opts.Refresh, s.persistRefresh)
	case hasKey:
		return FromAPIKey(f.APIKey)
	default:
		return nil
	}
}

// persistRefresh writes refreshed tokens back to disk. It does not replace
// the current credential, which already holds the new tokens.
func (s *Store) persistRefresh(tokens Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.file
	f.Tokens = &tokens
	f.LastRefresh = time.Now().UTC()
	if err := writeFileAtomic(s.opts.Path, f); err != nil {
		s.logger.Error("failed to persist refreshed tokens", "error", err)
		return
	}
	s.file = f
	s.logger.Info("managed login refreshed", "expiry", tokens.Expiry)
}

func (s *Store) watchLoop() {
	defer close(s.done)

	name := filepath.Clean(s.opts.Path)
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			s.logger.Debug("credential file change detected", "op", event.Op.String())
			if err := s.reload(); err != nil {
				s.logger.Error("failed to reload credential file", "error", err)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("credential file watcher error", "error", err)

		case <-s.stopCh:
			return
		}
	}
}

func readFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("failed to stat credential file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return File{}, fmt.Errorf("credential path is not a regular file: %s", path)
	}

	mode := info.Mode().Perm()
	if mode != 0600 && mode != 0400 {
		return File{}, fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - path comes from trusted configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read credential file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return File{}, nil
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse credential file %s: %w", path, err)
	}
	return f, nil
}

func writeFileAtomic(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".auth-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp credential file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set credential file permissions: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
