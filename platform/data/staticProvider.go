package data

import (
	"context"
	"errors"
	"maps"
)

// ErrStaticProviderNoRuntimeUpdates is returned by StaticProvider.AddDataToContext.
var ErrStaticProviderNoRuntimeUpdates = errors.New("static provider does not accept runtime updates")

// StaticProvider returns the same globals for every call.
type StaticProvider struct {
	data map[string]any
}

// NewStaticProvider copies data; later changes to the map are not seen.
func NewStaticProvider(data map[string]any) *StaticProvider {
	if data == nil {
		data = make(map[string]any)
	}
	return &StaticProvider{data: maps.Clone(data)}
}

// GetData returns a copy of the static globals.
func (p *StaticProvider) GetData(_ context.Context) (map[string]any, error) {
	return maps.Clone(p.data), nil
}

// AddDataToContext always fails; use a ContextProvider for per-call data.
func (p *StaticProvider) AddDataToContext(
	ctx context.Context,
	_ ...map[string]any,
) (context.Context, error) {
	return ctx, ErrStaticProviderNoRuntimeUpdates
}
