package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/robbyt/go-scriptbridge/internal/helpers"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestNewFromBytes(t *testing.T) {
	t.Parallel()

	t.Run("valid content", func(t *testing.T) {
		l, err := NewFromBytes([]byte(SimpleContent))
		require.NoError(t, err)
		hash := helpers.ShortHash([]byte(SimpleContent))
		verifyLoader(t, l, "bytes://inline/"+hash, SimpleContent)
		require.Equal(t, "loader.FromBytes{Bytes: 21}", l.String())
	})

	for _, content := range []string{"", "   \n\t  "} {
		l, err := NewFromBytes([]byte(content))
		require.ErrorIs(t, err, ErrScriptNotAvailable)
		require.Nil(t, l)
	}
}

func TestNewFromString(t *testing.T) {
	t.Parallel()

	t.Run("content is kept verbatim", func(t *testing.T) {
		content := "  " + SimpleContent + "\n"
		l, err := NewFromString(content)
		require.NoError(t, err)
		hash := helpers.ShortHash([]byte(content))
		verifyLoader(t, l, "string://inline/"+hash, content)
	})

	t.Run("different content gives different urls", func(t *testing.T) {
		a, err := NewFromString("echo(1)")
		require.NoError(t, err)
		b, err := NewFromString("echo(2)")
		require.NoError(t, err)
		require.NotEqual(t, a.GetSourceURL().String(), b.GetSourceURL().String())
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := NewFromString(" \n ")
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})
}

func TestNewFromIoReader(t *testing.T) {
	t.Parallel()

	t.Run("named source", func(t *testing.T) {
		l, err := NewFromIoReader(strings.NewReader(FunctionContent), "stdin")
		require.NoError(t, err)
		hash := helpers.ShortHash([]byte(FunctionContent))
		verifyLoader(t, l, "reader://stdin/"+hash, FunctionContent)
		// content is buffered, so it can be read again
		verifyLoader(t, l, "reader://stdin/"+hash, FunctionContent)
	})

	t.Run("unnamed source", func(t *testing.T) {
		l, err := NewFromIoReader(strings.NewReader(SimpleContent), "")
		require.NoError(t, err)
		require.Equal(t, "unnamed", l.GetSourceURL().Host)
	})

	t.Run("nil reader", func(t *testing.T) {
		_, err := NewFromIoReader(nil, "x")
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})

	t.Run("read error", func(t *testing.T) {
		_, err := NewFromIoReader(failingReader{}, "x")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to read from reader")
	})

	t.Run("whitespace only", func(t *testing.T) {
		_, err := NewFromIoReader(strings.NewReader("\n\n"), "x")
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})
}

func TestNewFromFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"com/faux/hello.js": &fstest.MapFile{Data: []byte(SimpleContent)},
	}

	t.Run("resource file", func(t *testing.T) {
		l, err := NewFromFS(fsys, "/com/faux/hello.js")
		require.NoError(t, err)
		verifyLoader(t, l, "classpath:///com/faux/hello.js", SimpleContent)
		require.Equal(t, "loader.FromFS{Name: com/faux/hello.js}", l.String())
	})

	t.Run("directory", func(t *testing.T) {
		_, err := NewFromFS(fsys, "com/faux")
		require.ErrorIs(t, err, ErrIsDirectory)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := NewFromFS(fsys, "com/faux/missing.js")
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})

	t.Run("nil filesystem", func(t *testing.T) {
		_, err := NewFromFS(nil, "x.js")
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})

	t.Run("root is invalid", func(t *testing.T) {
		_, err := NewFromFS(fsys, "/")
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})
}

func TestMockLoader(t *testing.T) {
	var _ Loader = (*MockLoader)(nil)

	m := NewMockLoaderWithContent([]byte(SimpleContent))
	m.On("GetSourceURL").Return(nil)
	require.Nil(t, m.GetSourceURL())

	r, err := m.GetReader()
	require.NoError(t, err)
	require.NotNil(t, r)
	m.AssertExpectations(t)
}

func TestMockDirLoader(t *testing.T) {
	var _ WorkingDirer = (*MockDirLoader)(nil)

	m := NewMockDirLoader([]byte(SimpleContent), "/srv/scripts")
	require.Equal(t, "/srv/scripts", WorkingDir(m))
	verifyLoader(t, m, "mock:///srv/scripts/main.js", SimpleContent)
	m.AssertExpectations(t)
}
