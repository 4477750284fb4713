package loader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	SimpleContent   = `echo("Hello, world!")`
	FunctionContent = `function repeat(message) { return message; }`
)

// verifyLoader checks that l reports expectedURL and serves expectedContent.
func verifyLoader(t *testing.T, l Loader, expectedURL string, expectedContent string) {
	t.Helper()

	require.NotNil(t, l.GetSourceURL())
	require.Equal(t, expectedURL, l.GetSourceURL().String())

	reader, err := l.GetReader()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, reader.Close()) })

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, expectedContent, string(content))
}

// writeScript writes content to name under dir and returns the full path.
func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
