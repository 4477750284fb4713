// Benchmarks for the engine:
//
//   - EngineLifecycle: a new engine per call against one reused engine
//   - ProgramCache: compiling through the shared cache against a disabled one
//   - DataProviders: static, context and composite input data
//
// Run with:
//
//	go test -run '^$' -bench . -benchmem
package scriptbridge_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/robbyt/go-scriptbridge"
	"github.com/robbyt/go-scriptbridge/engines/goja"
	"github.com/robbyt/go-scriptbridge/options"
	"github.com/robbyt/go-scriptbridge/platform/data"
)

// quietHandler is a slog.Handler that discards all logs
var quietHandler = slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})

const benchScript = `
	function greet(name) {
		const message = "Hello, " + name + "!";
		return { greeting: message, length: message.length };
	}
`

func BenchmarkEngineLifecycle(b *testing.B) {
	ctx := context.Background()

	b.Run("NewEnginePerCall", func(b *testing.B) {
		for b.Loop() {
			e, err := scriptbridge.New(options.WithLogHandler(quietHandler))
			if err != nil {
				b.Fatalf("Failed to create engine: %v", err)
			}
			if _, err := e.Snippet(ctx, benchScript); err != nil {
				b.Fatalf("Snippet failed: %v", err)
			}
			if _, err := e.Fx(ctx, "greet", "World"); err != nil {
				b.Fatalf("Fx failed: %v", err)
			}
		}
	})

	b.Run("ReusedEngine", func(b *testing.B) {
		e, err := scriptbridge.New(options.WithLogHandler(quietHandler))
		if err != nil {
			b.Fatalf("Failed to create engine: %v", err)
		}
		if _, err := e.Snippet(ctx, benchScript); err != nil {
			b.Fatalf("Snippet failed: %v", err)
		}
		for b.Loop() {
			if _, err := e.Fx(ctx, "greet", "World"); err != nil {
				b.Fatalf("Fx failed: %v", err)
			}
		}
	})
}

func BenchmarkProgramCache(b *testing.B) {
	for _, tc := range []struct {
		name  string
		limit int
	}{
		{"Cached", 256},
		{"Uncached", 0},
	} {
		b.Run(tc.name, func(b *testing.B) {
			rt, err := goja.NewRuntime(goja.WithLogHandler(quietHandler), goja.WithCacheLimit(tc.limit))
			if err != nil {
				b.Fatalf("Failed to create runtime: %v", err)
			}
			for b.Loop() {
				if _, err := rt.Compile("bench.js", benchScript); err != nil {
					b.Fatalf("Compile failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkDataProviders(b *testing.B) {
	ctx := context.Background()
	input := map[string]any{"name": "World"}

	providers := map[string]func() data.Provider{
		"StaticProvider": func() data.Provider { return data.NewStaticProvider(input) },
		"ContextProvider": func() data.Provider {
			return data.NewContextProvider("")
		},
		"CompositeProvider": func() data.Provider {
			return data.NewCompositeProvider(data.NewStaticProvider(input), data.NewContextProvider(""))
		},
	}

	for name, newProvider := range providers {
		b.Run(name, func(b *testing.B) {
			e, err := scriptbridge.New(
				options.WithLogHandler(quietHandler),
				options.WithDataProvider(newProvider()),
			)
			if err != nil {
				b.Fatalf("Failed to create engine: %v", err)
			}
			if _, err := e.Snippet(ctx, benchScript); err != nil {
				b.Fatalf("Snippet failed: %v", err)
			}

			callCtx := ctx
			if name != "StaticProvider" {
				callCtx, err = e.AddDataToContext(ctx, input)
				if err != nil {
					b.Fatalf("AddDataToContext failed: %v", err)
				}
			}
			for b.Loop() {
				if _, err := e.Fx(callCtx, "greet", "World"); err != nil {
					b.Fatalf("Fx failed: %v", err)
				}
			}
		})
	}
}
