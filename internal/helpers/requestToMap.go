package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RequestToMap flattens an http.Request into the plain map exposed to scripts
// as the request global. Header values are joined with ", " and query
// parameters keep only their first value, so scripts can read both with
// simple property access (request.headers["Content-Type"]).
//
// The request body is read fully and restored, so the caller can still
// consume it afterwards.
func RequestToMap(r *http.Request) (map[string]any, error) {
	if r == nil {
		return nil, errors.New("request is nil")
	}

	path, rawURL, host, scheme := "/", "", r.Host, ""
	if r.URL != nil {
		rawURL = r.URL.String()
		scheme = r.URL.Scheme
		if r.URL.Path != "" {
			path = r.URL.Path
		}
		if host == "" {
			host = r.URL.Host
		}
	}

	headers := make(map[string]any, len(r.Header))
	for k, v := range r.Header {
		headers[k] = strings.Join(v, ", ")
	}

	query := make(map[string]any)
	if r.URL != nil {
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				query[k] = v[0]
			}
		}
	}

	body := ""
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		r.Body = io.NopCloser(bytes.NewReader(b))
		body = string(b)
	}

	return map[string]any{
		"method":        r.Method,
		"url":           rawURL,
		"scheme":        scheme,
		"path":          path,
		"host":          host,
		"proto":         r.Proto,
		"remoteAddr":    r.RemoteAddr,
		"contentLength": r.ContentLength,
		"headers":       headers,
		"query":         query,
		"body":          body,
	}, nil
}
