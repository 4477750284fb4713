package loader

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	file := writeScript(t, dir, "com/faux/hello.js", SimpleContent)

	t.Run("local file", func(t *testing.T) {
		l, err := Resolve(ctx, file, nil)
		require.NoError(t, err)
		require.IsType(t, &FromDisk{}, l)
		require.Equal(t, filepath.Dir(file), WorkingDir(l))
	})

	t.Run("local directory", func(t *testing.T) {
		l, err := Resolve(ctx, dir, nil)
		require.NoError(t, err)
		require.IsType(t, &FromDirectory{}, l)
		require.Equal(t, dir, WorkingDir(l))
	})

	t.Run("file scheme", func(t *testing.T) {
		l, err := Resolve(ctx, "file://"+file, nil)
		require.NoError(t, err)
		require.IsType(t, &FromDisk{}, l)
	})

	t.Run("relative path", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		rel, err := filepath.Rel(wd, file)
		require.NoError(t, err)

		l, err := Resolve(ctx, rel, nil)
		require.NoError(t, err)
		require.Equal(t, file, l.(*FromDisk).GetPath())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Resolve(ctx, filepath.Join(dir, "missing.js"), nil)
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})

	t.Run("empty reference", func(t *testing.T) {
		_, err := Resolve(ctx, "  ", nil)
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})

	t.Run("classpath against resource dir", func(t *testing.T) {
		opts := &ResolveOptions{ResourceDir: dir}

		l, err := Resolve(ctx, "classpath:/com/faux/hello.js", opts)
		require.NoError(t, err)
		require.IsType(t, &FromDisk{}, l)

		l, err = Resolve(ctx, "classpath:/com/faux", opts)
		require.NoError(t, err)
		require.IsType(t, &FromDirectory{}, l)
	})

	t.Run("classpath against resource fs", func(t *testing.T) {
		opts := &ResolveOptions{ResourceFS: fstest.MapFS{
			"com/faux/hello.js": &fstest.MapFile{Data: []byte(SimpleContent)},
		}}

		l, err := Resolve(ctx, "classpath:/com/faux/hello.js", opts)
		require.NoError(t, err)
		verifyLoader(t, l, "classpath:///com/faux/hello.js", SimpleContent)

		_, err = Resolve(ctx, "classpath:/com/faux", opts)
		require.ErrorIs(t, err, ErrIsDirectory)
	})

	t.Run("classpath without a root", func(t *testing.T) {
		_, err := Resolve(ctx, "classpath:/com/faux/hello.js", nil)
		require.ErrorIs(t, err, ErrScriptNotAvailable)
		require.Contains(t, err.Error(), "no resource root")
	})

	t.Run("remote script is fetched eagerly", func(t *testing.T) {
		var calls atomic.Int32
		server := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(FunctionContent))
		})

		l, err := Resolve(ctx, server.URL+"/fx.js", nil)
		require.NoError(t, err)
		require.IsType(t, &FromBytes{}, l)
		require.Equal(t, int32(1), calls.Load())

		verifyLoader(t, l, server.URL+"/fx.js", FunctionContent)
		require.Equal(t, int32(1), calls.Load(), "reading the loader must not fetch again")
	})

	t.Run("remote failure", func(t *testing.T) {
		server := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := Resolve(ctx, server.URL+"/fx.js", nil)
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})
}
