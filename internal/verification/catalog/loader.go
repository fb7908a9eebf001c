// Package catalog loads recommendation wording from a YAML file and keeps it
// current while the process runs.
//
// The file overrides the compiled-in wording per domain and tier:
//
//	escrow:
//	  elevated: ["...", "..."]
//	  medium: ["..."]
//	  baseline: ["..."]
//	  multisig: "..."
//	voting:
//	  baseline: ["..."]
//
// Omitted domains and tiers keep their defaults.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"txguard/internal/verification"
	"txguard/internal/verification/models"
)

// Loader reads the catalog file and hot-reloads it on change. It satisfies
// verification.CatalogSource.
type Loader struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[verification.Catalog]

	mu       sync.Mutex
	onChange []func(verification.Catalog)
}

type Option func(*Loader)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader performs the initial load. An invalid file is an error.
func NewLoader(path string, opts ...Option) (*Loader, error) {
	l := &Loader{path: filepath.Clean(path), logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	cat, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	l.current.Store(&cat)
	return l, nil
}

// Current returns the active catalog.
func (l *Loader) Current() verification.Catalog {
	return *l.current.Load()
}

// OnChange registers a callback invoked after each successful reload.
func (l *Loader) OnChange(fn func(verification.Catalog)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Reload re-reads the file. On error the previous catalog stays active.
func (l *Loader) Reload() (verification.Catalog, error) {
	cat, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	l.current.Store(&cat)

	l.mu.Lock()
	callbacks := make([]func(verification.Catalog), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(cat)
	}
	return cat, nil
}

// Watch reloads the catalog whenever the file is written or replaced. The
// parent directory is watched so editors that save by rename are seen.
// Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(l.path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("catalog watcher add %s: %w", l.path, err)
	}

	done := make(chan struct{})
	var once sync.Once
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != l.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if _, err := l.Reload(); err != nil {
					l.logger.Warn("catalog reload rejected, keeping previous wording", "path", l.path, "error", err)
					continue
				}
				l.logger.Info("catalog reloaded", "path", l.path)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn("catalog watcher error", "error", err)
			case <-done:
				return
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }, nil
}

// Load reads a catalog file and merges it over the defaults.
func Load(path string) (verification.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes YAML overrides and merges them over the defaults. Unknown
// domains or tier keys are rejected.
func Parse(data []byte) (verification.Catalog, error) {
	var overrides map[models.Domain]verification.TierRecommendations

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}

	cat := verification.DefaultCatalog()
	for domain, o := range overrides {
		base, ok := cat[domain]
		if !ok {
			return nil, fmt.Errorf("unknown domain %q", domain)
		}
		if o.Elevated != nil {
			base.Elevated = o.Elevated
		}
		if o.Medium != nil {
			base.Medium = o.Medium
		}
		if o.Baseline != nil {
			base.Baseline = o.Baseline
		}
		if o.Multisig != "" {
			base.Multisig = o.Multisig
		}
		cat[domain] = base
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}
