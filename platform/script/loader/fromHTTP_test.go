package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/robbyt/go-scriptbridge/platform/script/loader/httpauth"
	"github.com/stretchr/testify/require"
)

func newScriptServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewFromHTTP(t *testing.T) {
	t.Parallel()

	t.Run("valid http url", func(t *testing.T) {
		server := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(FunctionContent))
		})

		testURL := server.URL + "/script.js"
		l, err := NewFromHTTP(testURL)
		require.NoError(t, err)
		require.Equal(t, testURL, l.url)
		verifyLoader(t, l, testURL, FunctionContent)
		require.Contains(t, l.String(), "SHA256: ")
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		l, err := NewFromHTTP("file:///path/to/script.js")
		require.ErrorIs(t, err, ErrSchemeUnsupported)
		require.Nil(t, l)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := NewFromHTTP("://invalid-url")
		require.Error(t, err)
		require.Contains(t, err.Error(), "unable to parse URL")
	})

	t.Run("non 2xx status", func(t *testing.T) {
		server := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		l, err := NewFromHTTP(server.URL + "/missing.js")
		require.NoError(t, err)
		_, err = l.GetReader()
		require.ErrorIs(t, err, ErrScriptNotAvailable)
		require.Contains(t, err.Error(), "HTTP 404")
		require.Equal(t, "loader.FromHTTP{URL: "+server.URL+"/missing.js}", l.String())
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(FunctionContent))
		})

		l, err := NewFromHTTP(server.URL)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = l.GetReaderWithContext(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestHTTPOptions(t *testing.T) {
	t.Parallel()

	t.Run("builders copy the options", func(t *testing.T) {
		base := DefaultHTTPOptions()
		custom := base.WithTimeout(time.Minute).WithHeader("X-Custom", "yes")

		require.Equal(t, 30*time.Second, base.Timeout)
		require.Empty(t, base.Headers)
		require.Equal(t, time.Minute, custom.Timeout)
		require.Equal(t, "yes", custom.Headers["X-Custom"])
	})

	t.Run("basic auth is sent", func(t *testing.T) {
		server := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != "user" || pass != "pass" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(SimpleContent))
		})

		options := DefaultHTTPOptions().WithBasicAuth("user", "pass")
		require.IsType(t, &httpauth.BasicAuth{}, options.Authenticator)

		l, err := NewFromHTTPWithOptions(server.URL, options)
		require.NoError(t, err)
		verifyLoader(t, l, server.URL, SimpleContent)
	})

	t.Run("bearer auth and custom headers are sent", func(t *testing.T) {
		server := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer token123", r.Header.Get("Authorization"))
			require.Equal(t, "TestValue", r.Header.Get("X-Custom"))
			require.Equal(t, "Test-Agent", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(SimpleContent))
		})

		options := DefaultHTTPOptions().
			WithBearerAuth("token123").
			WithHeader("X-Custom", "TestValue").
			WithHeader("User-Agent", "Test-Agent")

		l, err := NewFromHTTPWithOptions(server.URL, options)
		require.NoError(t, err)
		verifyLoader(t, l, server.URL, SimpleContent)
	})

	t.Run("tls with insecure skip verify", func(t *testing.T) {
		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(SimpleContent))
		}))
		t.Cleanup(server.Close)

		options := DefaultHTTPOptions()
		options.InsecureSkipVerify = true
		l, err := NewFromHTTPWithOptions(server.URL, options)
		require.NoError(t, err)
		verifyLoader(t, l, server.URL, SimpleContent)
	})

	t.Run("nil options use defaults", func(t *testing.T) {
		l, err := NewFromHTTPWithOptions("https://example.com/a.js", nil)
		require.NoError(t, err)
		require.Equal(t, 30*time.Second, l.options.Timeout)
	})
}
