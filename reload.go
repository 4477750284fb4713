package scriptbridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robbyt/go-scriptbridge/platform/script/loader"
)

// Reloader keeps an Engine built from a script file, replacing it with a
// freshly loaded one whenever the file or its directory changes. A reload
// that fails keeps the previous engine.
type Reloader struct {
	path string
	opts []Option

	mu      sync.RWMutex
	engine  *Engine
	lastErr error
}

// NewReloader loads path once. The initial load must succeed.
func NewReloader(ctx context.Context, path string, opts ...Option) (*Reloader, error) {
	e, err := FromFile(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return &Reloader{path: path, opts: opts, engine: e}, nil
}

func (r *Reloader) String() string {
	return fmt.Sprintf("scriptbridge.Reloader{Path: %s}", r.path)
}

// Engine returns the most recently loaded engine. Each reload produces a new
// Engine, so a returned engine is never modified by the Reloader.
func (r *Reloader) Engine() *Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine
}

// Err returns the error of the last reload attempt, nil if it succeeded.
func (r *Reloader) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Reload loads the script again now.
func (r *Reloader) Reload(ctx context.Context) error {
	e, err := FromFile(ctx, r.path, r.opts...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
	if err != nil {
		r.engine.logger.WarnContext(ctx, "reload failed, keeping previous engine", "path", r.path, "error", err)
		return err
	}
	r.engine = e
	e.logger.DebugContext(ctx, "script reloaded", "path", r.path)
	return nil
}

// Watch reloads on every change until ctx is done. onReload, when not nil,
// is told the outcome of each attempt.
func (r *Reloader) Watch(ctx context.Context, onReload func(*Engine, error)) error {
	target := r.path
	if wd := r.Engine().Environment().WorkingDir(); wd != "" {
		target = wd
	}
	w, err := loader.NewWatcher(r.logHandler(), target)
	if err != nil {
		return err
	}
	return w.Run(ctx, func() {
		err := r.Reload(ctx)
		if onReload != nil {
			onReload(r.Engine(), err)
		}
	})
}

func (r *Reloader) logHandler() slog.Handler {
	return r.Engine().logger.Handler()
}
