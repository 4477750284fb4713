// Package goja runs JavaScript through github.com/dop251/goja: a shared
// Runtime compiles programs, and each Environment is an isolated VM with its
// own globals and captured output.
package goja

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	gojaLib "github.com/dop251/goja"

	"github.com/robbyt/go-scriptbridge/internal/helpers"
	"github.com/robbyt/go-scriptbridge/platform"
	"github.com/robbyt/go-scriptbridge/platform/script/loader"
)

// Runtime compiles scripts and creates the VMs that environments run them
// in. A Runtime holds no script state, so one instance can back any number of
// environments. It is safe for concurrent use.
type Runtime struct {
	logHandler slog.Handler
	logger     *slog.Logger

	strict        bool
	fieldMapper   gojaLib.FieldNameMapper
	cacheLimit    int
	cacheLimitSet bool

	mu       sync.Mutex
	programs map[string]*Program
}

var defaultRuntime = sync.OnceValues(func() (*Runtime, error) {
	return NewRuntime()
})

// DefaultRuntime returns the process-wide Runtime, building it on first use.
func DefaultRuntime() (*Runtime, error) {
	return defaultRuntime()
}

// NewRuntime creates a Runtime with the given options.
func NewRuntime(opts ...Option) (*Runtime, error) {
	r := &Runtime{}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	r.applyDefaults()
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.setupLogger()
	r.programs = make(map[string]*Program)
	return r, nil
}

func (r *Runtime) String() string {
	return "goja.Runtime"
}

// Compile parses src into a Program. Programs are cached by name and source,
// so compiling the same snippet twice returns the same *Program.
func (r *Runtime) Compile(name, src string) (*Program, error) {
	logger := r.logger.With("name", name)
	key := helpers.ContentKey(name, src)

	if p := r.cached(key); p != nil {
		logger.Debug("program cache hit")
		return p, nil
	}

	compiled, err := gojaLib.Compile(name, src, r.strict)
	if err != nil {
		logger.Warn("compilation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", platform.ErrScriptLoad, err)
	}

	p := &Program{name: name, source: src, program: compiled}
	r.store(key, p)
	logger.Debug("compiled program", "size", len(src))
	return p, nil
}

// CompileLoader reads the script behind ldr and compiles it.
func (r *Runtime) CompileLoader(ldr loader.Loader) (*Program, error) {
	if ldr == nil {
		return nil, fmt.Errorf("%w: loader is nil", platform.ErrSourceNotFound)
	}

	reader, err := ldr.GetReader()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open script: %w", platform.ErrScriptLoad, err)
	}
	content, err := io.ReadAll(reader)
	closeErr := reader.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read script: %w", platform.ErrScriptLoad, err)
	}
	if closeErr != nil {
		r.logger.Warn("failed to close script reader", "error", closeErr)
	}

	return r.Compile(programName(ldr), string(content))
}

// CacheLen reports how many compiled programs are currently cached.
func (r *Runtime) CacheLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.programs)
}

func (r *Runtime) cached(key string) *Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.programs[key]
}

func (r *Runtime) store(key string, p *Program) {
	if r.cacheLimit == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.programs) >= r.cacheLimit {
		clear(r.programs)
	}
	r.programs[key] = p
}

// newVM returns a fresh VM configured the way this Runtime's scripts expect.
func (r *Runtime) newVM() *gojaLib.Runtime {
	vm := gojaLib.New()
	if r.fieldMapper != nil {
		vm.SetFieldNameMapper(r.fieldMapper)
	}
	return vm
}

func programName(ldr loader.Loader) string {
	if d, ok := ldr.(*loader.FromDisk); ok {
		return d.GetPath()
	}
	if u := ldr.GetSourceURL(); u != nil {
		return u.String()
	}
	return "script"
}
