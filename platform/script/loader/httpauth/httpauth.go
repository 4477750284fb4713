// Package httpauth applies credentials to requests that fetch remote scripts.
package httpauth

import (
	"context"
	"errors"
	"maps"
	"net/http"
)

// ErrConflictingCredentials is returned when more than one credential kind is
// configured for the same remote source.
var ErrConflictingCredentials = errors.New("bearer token and basic credentials are mutually exclusive")

// Authenticator applies credentials to an outgoing script request.
type Authenticator interface {
	// Authenticate modifies req in place to carry authentication details.
	Authenticate(req *http.Request) error

	// AuthenticateWithContext behaves like Authenticate but returns early if
	// ctx is already done.
	AuthenticateWithContext(ctx context.Context, req *http.Request) error

	// Name returns a short name for the strategy, used in logs.
	Name() string
}

// FromCredentials picks the strategy matching the credentials given: a
// bearer token, basic credentials (when username is set) or none.
func FromCredentials(bearerToken, username, password string) (Authenticator, error) {
	switch {
	case bearerToken != "" && username != "":
		return nil, ErrConflictingCredentials
	case bearerToken != "":
		return NewBearerAuth(bearerToken), nil
	case username != "":
		return NewBasicAuth(username, password), nil
	default:
		return NewNoAuth(), nil
	}
}

// authFunc adapts a plain header mutation into an Authenticator.
type authFunc struct {
	name  string
	apply func(*http.Request)
}

func (a authFunc) Authenticate(req *http.Request) error {
	if a.apply != nil {
		a.apply(req)
	}
	return nil
}

func (a authFunc) AuthenticateWithContext(ctx context.Context, req *http.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.Authenticate(req)
}

func (a authFunc) Name() string {
	return a.name
}

// NoAuth sends requests without credentials.
type NoAuth struct {
	authFunc
}

func NewNoAuth() *NoAuth {
	return &NoAuth{authFunc{name: "None", apply: func(*http.Request) {}}}
}

// BasicAuth sets an RFC 7617 Authorization header. An empty username turns
// it into a no-op.
type BasicAuth struct {
	authFunc
	Username string
	Password string
}

func NewBasicAuth(username, password string) *BasicAuth {
	b := &BasicAuth{Username: username, Password: password}
	b.authFunc = authFunc{name: "Basic", apply: func(req *http.Request) {
		if b.Username != "" {
			req.SetBasicAuth(b.Username, b.Password)
		}
	}}
	return b
}

// HeaderAuth sets fixed headers, covering bearer tokens and API keys.
type HeaderAuth struct {
	authFunc
	Headers map[string]string
}

// NewHeaderAuth creates a HeaderAuth from a copy of headers.
func NewHeaderAuth(headers map[string]string) *HeaderAuth {
	h := &HeaderAuth{Headers: maps.Clone(headers)}
	h.authFunc = authFunc{name: "Header", apply: func(req *http.Request) {
		for k, v := range h.Headers {
			req.Header.Set(k, v)
		}
	}}
	return h
}

// NewBearerAuth creates a HeaderAuth sending "Authorization: Bearer <token>".
func NewBearerAuth(token string) *HeaderAuth {
	return NewHeaderAuth(map[string]string{"Authorization": "Bearer " + token})
}
