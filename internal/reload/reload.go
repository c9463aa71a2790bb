// Package reload rebuilds the recommendation engine when the catalog file changes.
package reload

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hyperjump/movierec/internal/metrics"
	"github.com/hyperjump/movierec/internal/recommend"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// BuildFunc loads the catalog and builds a new engine.
type BuildFunc func(ctx context.Context) (*recommend.Engine, error)

// EngineSetter receives each successfully rebuilt engine.
type EngineSetter interface {
	SetEngine(e *recommend.Engine)
}

// Reloader watches one catalog file and swaps in a rebuilt engine after it settles.
// A failed rebuild is logged and the previous engine stays in place.
type Reloader struct {
	path     string
	build    BuildFunc
	target   EngineSetter
	debounce time.Duration
	logger   *zap.Logger

	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	ctx      context.Context
	started  bool
	done     chan struct{}
	stopOnce sync.Once
	buildMu  sync.Mutex
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reloader) { r.logger = l }
}

// WithDebounce overrides the quiet period between the last change and the rebuild.
func WithDebounce(d time.Duration) Option {
	return func(r *Reloader) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// New creates a Reloader for the catalog at path.
func New(path string, build BuildFunc, target EngineSetter, opts ...Option) *Reloader {
	r := &Reloader{
		path:     filepath.Clean(path),
		build:    build,
		target:   target,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins watching. The catalog's directory is watched rather than the file so
// editors that replace the file by rename are still seen. Runs until ctx is cancelled
// or Stop is called.
func (r *Reloader) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		_ = watcher.Close()
		return err
	}
	r.watcher = watcher
	r.ctx = ctx
	r.started = true
	r.logger.Info("watching catalog for changes", zap.String("path", r.path))
	go r.run(ctx)
	return nil
}

func (r *Reloader) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.Stop()
			return
		case <-r.done:
			return
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.handleEvent(ev)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				r.logger.Debug("catalog watcher error", zap.Error(err))
			}
		}
	}
}

func (r *Reloader) handleEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != r.path {
		return
	}
	r.logger.Debug("catalog event", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))
	if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
		r.schedule()
	}
}

func (r *Reloader) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	ctx := r.ctx
	r.timer = time.AfterFunc(r.debounce, func() {
		_ = r.Reload(ctx)
	})
}

// Reload rebuilds the engine now. On success the target receives the new engine; on
// failure the error is logged and returned and the target is left untouched.
func (r *Reloader) Reload(ctx context.Context) error {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()
	start := time.Now()
	e, err := r.build(ctx)
	if err == nil && e == nil {
		err = errors.New("build returned no engine")
	}
	if err != nil {
		metrics.CatalogReloads.WithLabelValues(metrics.OutcomeFailure).Inc()
		r.logger.Warn("catalog reload failed, keeping previous engine", zap.String("path", r.path), zap.Error(err))
		return err
	}
	r.target.SetEngine(e)
	metrics.CatalogReloads.WithLabelValues(metrics.OutcomeSuccess).Inc()
	r.logger.Info("catalog reloaded",
		zap.String("path", r.path),
		zap.Int("movies", e.Size()),
		zap.Int("vocabulary", e.VocabularySize()),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Stop stops watching and cancels any pending rebuild. Safe to call more than once.
func (r *Reloader) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		close(r.done)
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
		if r.watcher != nil {
			_ = r.watcher.Close()
		}
		r.started = false
	})
}
