// Package data supplies per-call input to scripts. A Provider resolves a set
// of globals from a context; the engine defines them before each operation
// that takes a context.
package data

import (
	"context"
)

// Getter retrieves the globals for one call.
type Getter interface {
	GetData(ctx context.Context) (map[string]any, error)
}

// Setter stores input in a context for a later GetData.
//
// Example:
//
//	ctx, err := provider.AddDataToContext(ctx, map[string]any{"user": user})
//	if err != nil {
//	    return err
//	}
//	_, err = engine.Fx(ctx, "render")
type Setter interface {
	AddDataToContext(ctx context.Context, data ...map[string]any) (context.Context, error)
}

// Provider is both a Getter and a Setter.
type Provider interface {
	Getter
	Setter
}
