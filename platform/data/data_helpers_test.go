package data

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/stretchr/testify/mock"
)

var (
	// greetingInput is the kind of flat input a script function receives.
	greetingInput = map[string]any{
		"name":  "Ada",
		"count": 3,
		"loud":  true,
	}

	// pageInput nests maps the way a rendered page's view data does.
	pageInput = map[string]any{
		"title": "Welcome",
		"user": map[string]any{
			"name":  "Ada",
			"prefs": map[string]any{"theme": "dark"},
		},
		"tags": []string{"intro", "docs"},
	}
)

func newPageRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test?param=value", nil)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// MockProvider is a testify mock of Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetData(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(map[string]any)
	return d, args.Error(1)
}

func (m *MockProvider) AddDataToContext(ctx context.Context, d ...map[string]any) (context.Context, error) {
	args := m.Called(ctx, d)
	newCtx, _ := args.Get(0).(context.Context)
	return newCtx, args.Error(1)
}
