package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/robbyt/go-scriptbridge/internal/helpers"
)

// ContextKey is the type of context keys used by ContextProvider.
type ContextKey string

// DefaultContextKey is where NewContextProvider("") keeps its data.
const DefaultContextKey ContextKey = "scriptbridge.input"

// ContextProvider keeps input in the context under one key.
type ContextProvider struct {
	contextKey ContextKey
}

// NewContextProvider stores data under contextKey, or DefaultContextKey when
// it is empty.
func NewContextProvider(contextKey ContextKey) *ContextProvider {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	return &ContextProvider{contextKey: contextKey}
}

// GetData returns the map stored in ctx, or an empty map.
func (p *ContextProvider) GetData(ctx context.Context) (map[string]any, error) {
	value := ctx.Value(p.contextKey)
	if value == nil {
		return make(map[string]any), nil
	}
	d, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid input data type: expected map[string]any, got %T", value)
	}
	return d, nil
}

// AddDataToContext merges the maps into whatever ctx already holds. Nested
// maps merge recursively, later keys win, and *http.Request values are
// flattened with helpers.RequestToMap. Entries that fail are skipped and
// reported together.
func (p *ContextProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	toStore := make(map[string]any)
	if existing, ok := ctx.Value(p.contextKey).(map[string]any); ok {
		maps.Copy(toStore, existing)
	}

	var errz []error
	for _, m := range data {
		for key, value := range m {
			if key == "" {
				errz = append(errz, errors.New("empty keys are not allowed"))
				continue
			}
			processed, err := convertValue(value)
			if err != nil {
				errz = append(errz, fmt.Errorf("processing value for key %q: %w", key, err))
				continue
			}
			mergeInto(toStore, key, processed)
		}
	}

	return context.WithValue(ctx, p.contextKey, toStore), errors.Join(errz...)
}

func convertValue(value any) (any, error) {
	switch v := value.(type) {
	case *http.Request:
		if v == nil {
			return nil, nil
		}
		return helpers.RequestToMap(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			if k == "" {
				return nil, errors.New("empty keys are not allowed in nested maps")
			}
			converted, err := convertValue(inner)
			if err != nil {
				return nil, fmt.Errorf("nested key %q: %w", k, err)
			}
			out[k] = converted
		}
		return out, nil
	default:
		return v, nil
	}
}

func mergeInto(target map[string]any, key string, value any) {
	if incoming, ok := value.(map[string]any); ok {
		if existing, ok := target[key].(map[string]any); ok {
			merged := maps.Clone(existing)
			for k, v := range incoming {
				mergeInto(merged, k, v)
			}
			target[key] = merged
			return
		}
	}
	target[key] = value
}
