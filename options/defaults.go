package options

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robbyt/go-scriptbridge/engines/goja"
)

// DefaultConfig initializes a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{}
}

// DefaultHandler returns the default logging handler
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stdout, nil)
}

// WithDefaults fills in whatever the other options left unset
func WithDefaults() Option {
	return func(c *Config) error {
		if c.handler == nil {
			c.handler = DefaultHandler()
		}

		if c.runtime == nil {
			rt, err := goja.DefaultRuntime()
			if err != nil {
				return fmt.Errorf("failed to create default runtime: %w", err)
			}
			c.runtime = rt
		}

		return nil
	}
}
