package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// CompositeProvider merges several providers; later ones override earlier
// ones, nested maps merge deeply.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider queries providers in the given order. Nil entries are
// skipped.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{providers: providers}
}

// GetData merges the data of every provider. The first failure aborts.
func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)
	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		d, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}
		result = deepMerge(result, d)
	}
	return result, nil
}

// AddDataToContext offers the data to every provider. Static providers are
// not expected to accept it; the call fails only when no other provider did.
func (p *CompositeProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	out := ctx
	var errs []error
	accepted, candidates := 0, 0

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		next, err := provider.AddDataToContext(out, data...)
		if errors.Is(err, ErrStaticProviderNoRuntimeUpdates) {
			continue
		}
		candidates++
		if err != nil {
			errs = append(errs, fmt.Errorf("error from provider %d: %w", i, err))
			continue
		}
		out = next
		accepted++
	}

	if candidates == 0 {
		return ctx, ErrStaticProviderNoRuntimeUpdates
	}
	if accepted == 0 {
		return ctx, errors.Join(errs...)
	}
	return out, nil
}

func deepMerge(base, overlay map[string]any) map[string]any {
	result := maps.Clone(base)
	for k, v := range overlay {
		baseMap, baseIsMap := result[k].(map[string]any)
		overlayMap, overlayIsMap := v.(map[string]any)
		if baseIsMap && overlayIsMap {
			result[k] = deepMerge(baseMap, overlayMap)
			continue
		}
		result[k] = v
	}
	return result
}
