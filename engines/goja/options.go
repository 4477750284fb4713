package goja

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"

	gojaLib "github.com/dop251/goja"

	"github.com/robbyt/go-scriptbridge/internal/helpers"
)

const defaultCacheLimit = 256

// Option configures a Runtime.
type Option func(*Runtime) error

// WithLogHandler sets the log handler for the Runtime.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runtime) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		r.logHandler = handler
		r.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the Runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		r.logger = logger
		r.logHandler = nil
		return nil
	}
}

// WithStrict compiles every script and snippet in strict mode.
func WithStrict(strict bool) Option {
	return func(r *Runtime) error {
		r.strict = strict
		return nil
	}
}

// WithFieldNameMapper controls how Go struct fields and methods of host
// values appear to scripts, e.g. gojaLib.UncapFieldNameMapper() or
// gojaLib.TagFieldNameMapper("json", true).
func WithFieldNameMapper(mapper gojaLib.FieldNameMapper) Option {
	return func(r *Runtime) error {
		if mapper == nil {
			return fmt.Errorf("field name mapper cannot be nil")
		}
		r.fieldMapper = mapper
		return nil
	}
}

// WithCacheLimit bounds the number of compiled programs kept for reuse. Zero
// disables the cache.
func WithCacheLimit(limit int) Option {
	return func(r *Runtime) error {
		if limit < 0 {
			return fmt.Errorf("cache limit cannot be negative: %d", limit)
		}
		r.cacheLimit = limit
		r.cacheLimitSet = true
		return nil
	}
}

func (r *Runtime) applyDefaults() {
	if r.logHandler == nil && r.logger == nil {
		r.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	if !r.cacheLimitSet {
		r.cacheLimit = defaultCacheLimit
	}
}

func (r *Runtime) validate() error {
	if r.logHandler == nil && r.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	return nil
}

func (r *Runtime) setupLogger() {
	if r.logger != nil {
		r.logHandler = r.logger.Handler()
		return
	}
	r.logHandler, r.logger = helpers.SetupLogger(r.logHandler, "goja", "Runtime")
}

// EnvOption configures an Environment.
type EnvOption func(*Environment) error

// WithEnvLogHandler sets the log handler for the Environment. By default the
// Runtime's handler is used.
func WithEnvLogHandler(handler slog.Handler) EnvOption {
	return func(e *Environment) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		e.logHandler = handler
		return nil
	}
}

// WithGlobals defines globals as soon as the environment becomes active.
func WithGlobals(globals map[string]any) EnvOption {
	return func(e *Environment) error {
		for name := range globals {
			if name == "" {
				return fmt.Errorf("global names cannot be empty")
			}
		}
		if e.initialGlobals == nil {
			e.initialGlobals = make(map[string]any, len(globals))
		}
		maps.Copy(e.initialGlobals, globals)
		return nil
	}
}

// WithRequest exposes req to scripts as the request global, flattened with
// helpers.RequestToMap.
func WithRequest(req *http.Request) EnvOption {
	return func(e *Environment) error {
		m, err := helpers.RequestToMap(req)
		if err != nil {
			return err
		}
		e.request = m
		return nil
	}
}

// WithOutputWriter copies everything scripts write to w, in addition to the
// captured output. Data reaches w when the output is flushed.
func WithOutputWriter(w io.Writer) EnvOption {
	return func(e *Environment) error {
		if w == nil {
			return fmt.Errorf("output writer cannot be nil")
		}
		e.outputWriter = w
		return nil
	}
}
