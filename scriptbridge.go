// Package scriptbridge embeds JavaScript in Go programs. An Engine loads a
// script, lets the host define and read globals, call script functions,
// construct script classes and collect whatever the script printed.
//
// Engines are cheap: they all share one compiled-program Runtime, and each
// owns a private environment that is created on first use.
package scriptbridge

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/robbyt/go-scriptbridge/engines/goja"
	"github.com/robbyt/go-scriptbridge/internal/helpers"
	"github.com/robbyt/go-scriptbridge/options"
	"github.com/robbyt/go-scriptbridge/platform"
	"github.com/robbyt/go-scriptbridge/platform/data"
	"github.com/robbyt/go-scriptbridge/platform/script/loader"
)

// Engine is the host-facing handle on one script environment.
//
// An Engine is not safe for concurrent use; give each goroutine its own.
type Engine struct {
	runtime *goja.Runtime
	env     *goja.Environment
	resolve *loader.ResolveOptions
	data    data.Provider
	logger  *slog.Logger
}

// New creates an empty Engine. Nothing runs until the first operation.
func New(opts ...Option) (*Engine, error) {
	cfg := options.DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if err := options.WithDefaults()(cfg); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	env, err := goja.NewEnvironment(cfg.GetRuntime(), cfg.EnvironmentOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create environment: %w", err)
	}

	logger := cfg.GetLogger()
	if logger == nil {
		_, logger = helpers.SetupLogger(cfg.GetHandler(), "scriptbridge", "Engine")
	}
	return &Engine{
		runtime: cfg.GetRuntime(),
		env:     env,
		resolve: cfg.GetResolveOptions(),
		data:    cfg.GetDataProvider(),
		logger:  logger,
	}, nil
}

// FromReference creates an Engine from a script reference:
//
//   - classpath:/name resolves against WithResourceDir or WithResourceFS
//   - http:// and https:// URLs are fetched
//   - anything else is a local file or directory path
//
// Script files run their top level immediately. A directory yields an empty
// engine whose relative includes resolve inside that directory.
func FromReference(ctx context.Context, ref string, opts ...Option) (*Engine, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	ldr, err := loader.Resolve(ctx, ref, e.resolve)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", platform.ErrSourceNotFound, ref, err)
	}
	if err := e.load(ctx, ldr); err != nil {
		return nil, err
	}
	return e, nil
}

// FromFile creates an Engine from a script file or directory on disk.
func FromFile(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", platform.ErrSourceNotFound, path, err)
	}

	var ldr loader.Loader
	ldr, err = loader.NewFromDisk(abs)
	if err != nil {
		dir, dirErr := loader.NewFromDirectory(abs)
		if dirErr != nil {
			return nil, fmt.Errorf("%w: %q: %w", platform.ErrSourceNotFound, path, err)
		}
		ldr = dir
	}
	if err := e.load(ctx, ldr); err != nil {
		return nil, err
	}
	return e, nil
}

// FromLoader creates an Engine from any loader.Loader.
func FromLoader(ctx context.Context, ldr loader.Loader, opts ...Option) (*Engine, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := e.load(ctx, ldr); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) load(ctx context.Context, ldr loader.Loader) error {
	if ldr == nil {
		return fmt.Errorf("%w: loader is nil", platform.ErrSourceNotFound)
	}
	wd := loader.WorkingDir(ldr)
	if _, ok := ldr.(*loader.FromDirectory); ok {
		e.logger.DebugContext(ctx, "activating empty environment", "dir", wd)
		return e.env.EnsureInitialized(wd)
	}

	prog, err := e.runtime.CompileLoader(ldr)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to compile script", "source", ldr.GetSourceURL(), "error", err)
		return err
	}
	if err := e.env.EnsureInitialized(wd); err != nil {
		return err
	}
	if err := e.applyData(ctx); err != nil {
		return err
	}
	return e.env.ExecuteProgram(ctx, prog, wd)
}

func (e *Engine) activate(ctx context.Context) error {
	if err := e.env.EnsureInitialized(""); err != nil {
		return err
	}
	return e.applyData(ctx)
}

// applyData defines the data provider's globals for this call.
func (e *Engine) applyData(ctx context.Context) error {
	if e.data == nil {
		return nil
	}
	input, err := e.data.GetData(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", platform.ErrInputData, err)
	}
	if len(input) == 0 {
		return nil
	}
	if err := e.env.EnsureInitialized(""); err != nil {
		return err
	}
	for name, value := range input {
		if err := e.env.SetGlobal(name, value); err != nil {
			return fmt.Errorf("%w: %w", platform.ErrInputData, err)
		}
	}
	return nil
}

// AddDataToContext stores per-call globals in ctx through the engine's data
// provider. It fails when no provider was configured.
func (e *Engine) AddDataToContext(ctx context.Context, input ...map[string]any) (context.Context, error) {
	if e.data == nil {
		return ctx, fmt.Errorf("%w: no data provider configured", platform.ErrInputData)
	}
	return e.data.AddDataToContext(ctx, input...)
}

func (e *Engine) String() string {
	out, err := e.env.Output()
	if err != nil {
		return ""
	}
	return out
}

// Snippet runs src in the engine's environment. Definitions and output
// accumulate across calls. The engine is returned even on failure since
// whatever ran before the error stays in effect.
func (e *Engine) Snippet(ctx context.Context, src string) (*Engine, error) {
	if err := e.applyData(ctx); err != nil {
		return e, err
	}
	return e, e.env.ExecuteSnippet(ctx, src)
}

// Set defines or overwrites a global. Values are converted as described for
// goja.Environment.ToScriptValue; a *Handle passes its script value through,
// but object handles from another Engine are rejected. Set takes no context,
// so the data provider's globals are not refreshed.
func (e *Engine) Set(name string, value any) (*Engine, error) {
	if err := e.env.EnsureInitialized(""); err != nil {
		return e, err
	}
	return e, e.env.SetGlobal(name, value)
}

// Get reads a global. Undefined names return an empty handle, not an error.
// Like Set it takes no context and does not install the data provider's
// globals; a provider value shows up here once a Snippet, Fx or NewInstance
// call has installed it.
func (e *Engine) Get(name string) (*Handle, error) {
	if err := e.env.EnsureInitialized(""); err != nil {
		return nil, err
	}
	return e.env.GetGlobal(name)
}

// Fx calls the global function name with args.
func (e *Engine) Fx(ctx context.Context, name string, args ...any) (*Handle, error) {
	if err := e.activate(ctx); err != nil {
		return nil, err
	}
	return e.env.Call(ctx, name, args...)
}

// NewInstance constructs the script class className with args.
func (e *Engine) NewInstance(ctx context.Context, className string, args ...any) (*Handle, error) {
	if err := e.activate(ctx); err != nil {
		return nil, err
	}
	return e.env.New(ctx, className, args...)
}

// Output returns everything the scripts printed since the last Clear.
// Before anything has run it returns ErrNotInitialized.
func (e *Engine) Output() (string, error) {
	return e.env.Output()
}

// Clear discards captured output. Globals and definitions are kept.
func (e *Engine) Clear() *Engine {
	e.env.ResetOutput()
	return e
}

// Environment returns the engine's environment.
func (e *Engine) Environment() *goja.Environment {
	return e.env
}

// Runtime returns the runtime the engine compiles with.
func (e *Engine) Runtime() *Runtime {
	return e.runtime
}
