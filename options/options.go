// Package options configures a scriptbridge Engine.
package options

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"

	"github.com/robbyt/go-scriptbridge/engines/goja"
	"github.com/robbyt/go-scriptbridge/platform/data"
	"github.com/robbyt/go-scriptbridge/platform/script/loader"
)

// Config holds all configuration for creating an Engine
type Config struct {
	// Shared runtime, DefaultRuntime when unset
	runtime *goja.Runtime
	// Logger for the engine
	handler slog.Handler
	logger  *slog.Logger
	// Globals defined when the environment activates
	globals map[string]any
	// Simulated request exposed as the request global
	request *http.Request
	// Copy of all script output
	outputWriter io.Writer
	// How classpath:/ and http(s):// references are resolved
	resolve loader.ResolveOptions
	// Per-call globals
	dataProvider data.Provider
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithRuntime shares rt instead of the process-wide default runtime
func WithRuntime(rt *goja.Runtime) Option {
	return func(c *Config) error {
		if rt == nil {
			return fmt.Errorf("runtime cannot be nil")
		}
		c.runtime = rt
		return nil
	}
}

// WithLogHandler sets the log handler for the engine
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.handler = handler
		c.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the engine
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		c.handler = logger.Handler()
		return nil
	}
}

// WithGlobals defines globals before any script runs. Repeated use merges.
func WithGlobals(globals map[string]any) Option {
	return func(c *Config) error {
		if c.globals == nil {
			c.globals = make(map[string]any, len(globals))
		}
		maps.Copy(c.globals, globals)
		return nil
	}
}

// WithRequest exposes req to scripts as the request global
func WithRequest(req *http.Request) Option {
	return func(c *Config) error {
		if req == nil {
			return fmt.Errorf("request cannot be nil")
		}
		c.request = req
		return nil
	}
}

// WithOutputWriter copies all script output to w
func WithOutputWriter(w io.Writer) Option {
	return func(c *Config) error {
		if w == nil {
			return fmt.Errorf("output writer cannot be nil")
		}
		c.outputWriter = w
		return nil
	}
}

// WithResourceDir resolves classpath:/ references against a directory
func WithResourceDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return fmt.Errorf("resource directory cannot be empty")
		}
		c.resolve.ResourceDir = dir
		return nil
	}
}

// WithResourceFS resolves classpath:/ references against fsys, such as an
// embed.FS. WithResourceDir takes precedence when both are set.
func WithResourceFS(fsys fs.FS) Option {
	return func(c *Config) error {
		if fsys == nil {
			return fmt.Errorf("resource filesystem cannot be nil")
		}
		c.resolve.ResourceFS = fsys
		return nil
	}
}

// WithHTTPOptions configures fetching of http:// and https:// references
func WithHTTPOptions(opts *loader.HTTPOptions) Option {
	return func(c *Config) error {
		if opts == nil {
			return fmt.Errorf("HTTP options cannot be nil")
		}
		c.resolve.HTTP = opts
		return nil
	}
}

// WithDataProvider supplies globals for every call that takes a context
func WithDataProvider(provider data.Provider) Option {
	return func(c *Config) error {
		if provider == nil {
			return fmt.Errorf("data provider cannot be nil")
		}
		c.dataProvider = provider
		return nil
	}
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.runtime == nil {
		return fmt.Errorf("no runtime specified")
	}
	if c.handler == nil {
		return fmt.Errorf("no log handler specified")
	}
	return nil
}

// GetRuntime returns the configured runtime
func (c *Config) GetRuntime() *goja.Runtime {
	return c.runtime
}

// GetHandler returns the configured log handler
func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

// GetLogger returns the logger given with WithLogger, if any
func (c *Config) GetLogger() *slog.Logger {
	return c.logger
}

// GetDataProvider returns the configured data provider, nil when unset
func (c *Config) GetDataProvider() data.Provider {
	return c.dataProvider
}

// GetResolveOptions returns how references are resolved
func (c *Config) GetResolveOptions() *loader.ResolveOptions {
	return &c.resolve
}

// EnvironmentOptions translates the config into options for a new
// goja.Environment.
func (c *Config) EnvironmentOptions() []goja.EnvOption {
	opts := []goja.EnvOption{goja.WithEnvLogHandler(c.handler)}
	if len(c.globals) > 0 {
		opts = append(opts, goja.WithGlobals(c.globals))
	}
	if c.request != nil {
		opts = append(opts, goja.WithRequest(c.request))
	}
	if c.outputWriter != nil {
		opts = append(opts, goja.WithOutputWriter(c.outputWriter))
	}
	return opts
}
