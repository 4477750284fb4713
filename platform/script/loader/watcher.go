package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/robbyt/go-scriptbridge/internal/helpers"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reports changes to script files and directories on disk. A burst of
// events is collapsed into one notification.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]struct{}
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches each path, which may be a file or a directory.
// Files are tracked through their parent directory so editors that replace
// the file on save are still noticed.
func NewWatcher(handler slog.Handler, paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: nothing to watch", ErrScriptNotAvailable)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	_, logger := helpers.SetupLogger(handler, "loader", "Watcher")
	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		debounce: defaultDebounce,
		logger:   logger,
	}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrScriptNotAvailable, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrScriptNotAvailable, abs, err)
	}

	dir := abs
	if info.IsDir() {
		w.dirs[abs] = struct{}{}
	} else {
		w.files[abs] = struct{}{}
		dir = filepath.Dir(abs)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return nil
}

// SetDebounce changes how long the watcher waits for events to settle.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Run delivers change notifications to onChange until ctx is done, then
// releases the watcher. onChange runs on its own goroutine, never twice at
// the same time.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer func() { _ = w.watcher.Close() }()

	var (
		timer    *time.Timer
		callback sync.Mutex
	)
	fire := func() {
		callback.Lock()
		defer callback.Unlock()
		if ctx.Err() != nil {
			return
		}
		onChange()
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("script change detected", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, fire)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	if _, ok := w.files[name]; ok {
		return true
	}
	_, ok := w.dirs[filepath.Dir(name)]
	return ok
}
