// Package catalog keeps the live set of provider descriptors.
//
// A Catalog merges the built-in providers with those declared in a
// configuration file. Reload and Watch replace the whole registry at once,
// so readers always see a consistent snapshot without locking.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/environment"
	"mercator-hq/switchboard/pkg/providers"
)

// ErrNoConfigFile is returned by Watch when the catalog was built without a
// configuration file.
var ErrNoConfigFile = errors.New("catalog has no configuration file")

// Snapshot is one immutable view of the catalog.
type Snapshot struct {
	// Registry holds the built-in and configured providers.
	Registry *providers.Registry

	// Config is the configuration the registry was built from.
	Config *config.Config

	// Rejected lists provider definitions that were left out.
	Rejected []*providers.ConfigError

	// LoadedAt is when the snapshot was built.
	LoadedAt time.Time
}

// ReloadRecorder observes reload outcomes.
type ReloadRecorder interface {
	RecordReload(success bool, rejected int)
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithVersion sets the client version advertised by the built-in OpenAI
// provider.
func WithVersion(version string) Option {
	return func(c *Catalog) {
		c.version = version
	}
}

// WithRecorder sets the reload recorder.
func WithRecorder(r ReloadRecorder) Option {
	return func(c *Catalog) {
		c.recorder = r
	}
}

// WithOnReload registers a callback invoked after every successful reload.
func WithOnReload(fn func(*Snapshot)) Option {
	return func(c *Catalog) {
		c.onReload = fn
	}
}

// Catalog is a reloadable provider registry.
//
// Catalog is safe for concurrent use.
type Catalog struct {
	path     string
	env      environment.Env
	version  string
	logger   *slog.Logger
	recorder ReloadRecorder
	onReload func(*Snapshot)

	current  atomic.Pointer[Snapshot]
	reloadMu sync.Mutex
	lastErr  atomic.Pointer[error]
}

// New builds a catalog from the configuration file at path. An empty path
// uses the defaults. Environment overrides and built-in provider settings are
// read from env.
//
// Rejected provider definitions are logged and recorded in the snapshot; they
// do not make New fail.
func New(path string, env environment.Env, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		path:   path,
		env:    env,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.env == nil {
		c.env = environment.Map{}
	}

	snap, err := c.load()
	if err != nil {
		return nil, err
	}
	c.current.Store(snap)

	c.logger.Info("provider catalog loaded",
		"path", path,
		"providers", snap.Registry.Len(),
		"rejected", len(snap.Rejected),
	)
	return c, nil
}

// Snapshot returns the current snapshot.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Registry returns the current registry.
func (c *Catalog) Registry() *providers.Registry {
	return c.current.Load().Registry
}

// Config returns the configuration of the current snapshot.
func (c *Catalog) Config() *config.Config {
	return c.current.Load().Config
}

// Lookup returns the descriptor registered under id.
func (c *Catalog) Lookup(id string) (providers.Info, error) {
	return c.Registry().Lookup(id)
}

// Default returns the descriptor named by model_provider.
func (c *Catalog) Default() (string, providers.Info, error) {
	snap := c.current.Load()
	id := snap.Config.ModelProvider
	info, err := snap.Registry.Lookup(id)
	return id, info, err
}

// Reload rebuilds the catalog from its configuration file. When loading
// fails the previous snapshot stays in place.
func (c *Catalog) Reload() error {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	snap, err := c.load()
	if err != nil {
		c.lastErr.Store(&err)
		c.record(false, 0)
		return err
	}

	c.current.Store(snap)
	c.lastErr.Store(nil)
	c.record(true, len(snap.Rejected))

	c.logger.Info("provider catalog reloaded",
		"path", c.path,
		"providers", snap.Registry.Len(),
		"rejected", len(snap.Rejected),
	)
	if c.onReload != nil {
		c.onReload(snap)
	}
	return nil
}

// Check reports whether the catalog is serviceable: the last reload
// succeeded and the default model provider resolves. It has the shape of a
// health check function.
func (c *Catalog) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if last := c.lastErr.Load(); last != nil {
		return fmt.Errorf("last reload failed: %w", *last)
	}
	_, _, err := c.Default()
	return err
}

// Watch reloads the catalog whenever its configuration file changes. It
// blocks until ctx is done and then returns nil.
//
// The parent directory is watched so that editors which replace the file
// atomically are noticed. Reload failures are logged and keep the previous
// snapshot.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return ErrNoConfigFile
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		return fmt.Errorf("failed to watch configuration directory: %w", err)
	}

	c.logger.Info("watching provider configuration", "path", c.path)

	name := filepath.Clean(c.path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			c.logger.Debug("configuration change detected", "op", event.Op.String())
			if err := c.Reload(); err != nil {
				c.logger.Error("failed to reload provider configuration", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("configuration watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Catalog) load() (*Snapshot, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(c.path, c.env)
	if cfg == nil {
		return nil, err
	}

	rejected := config.ProviderErrors(err)
	for _, r := range rejected {
		c.logger.Warn("skipping invalid provider definition",
			"provider", r.Provider,
			"field", r.Field,
			"error", r.Error(),
		)
	}

	registry := providers.NewRegistry(providers.BuiltInProviders(c.env, c.version), cfg.ModelProviders)
	if _, ok := registry.Get(cfg.ModelProvider); !ok {
		c.logger.Warn("default model provider is not defined", "model_provider", cfg.ModelProvider)
	}

	return &Snapshot{
		Registry: registry,
		Config:   cfg,
		Rejected: rejected,
		LoadedAt: time.Now(),
	}, nil
}

func (c *Catalog) record(success bool, rejected int) {
	if c.recorder != nil {
		c.recorder.RecordReload(success, rejected)
	}
}
