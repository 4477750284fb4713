package helpers

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestToMap(t *testing.T) {
	t.Parallel()

	t.Run("with body and headers", func(t *testing.T) {
		body := "test body"
		req, err := http.NewRequest(
			http.MethodPost,
			"http://localhost:8080/test?query=1&query=2",
			bytes.NewBufferString(body),
		)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Add("Accept", "text/plain")
		req.Header.Add("Accept", "text/html")
		req.RemoteAddr = "127.0.0.1:12345"

		m, err := RequestToMap(req)
		require.NoError(t, err)
		require.Equal(t, http.MethodPost, m["method"])
		require.Equal(t, "http://localhost:8080/test?query=1&query=2", m["url"])
		require.Equal(t, "http", m["scheme"])
		require.Equal(t, "/test", m["path"])
		require.Equal(t, "localhost:8080", m["host"])
		require.Equal(t, "HTTP/1.1", m["proto"])
		require.Equal(t, "127.0.0.1:12345", m["remoteAddr"])
		require.Equal(t, int64(len(body)), m["contentLength"])
		require.Equal(t, body, m["body"])
		require.Equal(t, map[string]any{
			"Content-Type": "application/json",
			"Accept":       "text/plain, text/html",
		}, m["headers"])
		require.Equal(t, map[string]any{"query": "1"}, m["query"])

		// the body is restored for later readers
		rest, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.Equal(t, body, string(rest))
	})

	t.Run("no body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, "http://localhost:8080/", nil)
		require.NoError(t, err)

		m, err := RequestToMap(req)
		require.NoError(t, err)
		require.Equal(t, "", m["body"])
		require.Equal(t, map[string]any{}, m["headers"])
		require.Equal(t, map[string]any{}, m["query"])
	})

	t.Run("nil url", func(t *testing.T) {
		req := &http.Request{Method: http.MethodGet, Host: "example.com"}
		m, err := RequestToMap(req)
		require.NoError(t, err)
		require.Equal(t, "/", m["path"])
		require.Equal(t, "example.com", m["host"])
	})

	t.Run("nil request", func(t *testing.T) {
		m, err := RequestToMap(nil)
		require.Error(t, err)
		require.Nil(t, m)
	})
}
