package goja

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const repeaterScript = `
class Repeater {
	constructor(message) {
		this.message = message;
	}
	setMessage(message) {
		this.message = message;
	}
	repeat(times) {
		let out = "";
		for (let i = 0; i < times; i++) {
			out += this.message;
		}
		return out;
	}
}
`

func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	rt, err := NewRuntime(append([]Option{WithLogHandler(handler)}, opts...)...)
	require.NoError(t, err)
	return rt
}

// newActiveEnv returns an active environment rooted in a temp directory.
func newActiveEnv(t *testing.T, opts ...EnvOption) *Environment {
	t.Helper()
	env, err := NewEnvironment(newTestRuntime(t), opts...)
	require.NoError(t, err)
	require.NoError(t, env.EnsureInitialized(t.TempDir()))
	return env
}

func mustRun(t *testing.T, env *Environment, src string) {
	t.Helper()
	require.NoError(t, env.ExecuteSnippet(context.Background(), src))
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
