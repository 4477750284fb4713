package scriptbridge

import (
	"context"
	"fmt"
)

// Op names one Engine operation for callers that select operations by name,
// such as a templating layer or an RPC front end.
type Op int

const (
	OpUnknown Op = iota
	OpSnippet
	OpSet
	OpGet
	OpFx
	OpNewInstance
	OpOutput
	OpClear
)

var opNames = map[Op]string{
	OpSnippet:     "snippet",
	OpSet:         "set",
	OpGet:         "get",
	OpFx:          "fx",
	OpNewInstance: "newInstance",
	OpOutput:      "output",
	OpClear:       "clear",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOp maps an operation name to its Op. "toString" is accepted for
// OpOutput. Unrecognized names give OpUnknown.
func ParseOp(name string) Op {
	if name == "toString" {
		return OpOutput
	}
	for op, n := range opNames {
		if n == name {
			return op
		}
	}
	return OpUnknown
}

type dispatchFunc func(ctx context.Context, e *Engine, args []any) (any, error)

var dispatchTable = map[Op]dispatchFunc{
	OpSnippet: func(ctx context.Context, e *Engine, args []any) (any, error) {
		if err := wantArgs(OpSnippet, args, 1); err != nil {
			return nil, err
		}
		src, err := stringArg(OpSnippet, args, 0)
		if err != nil {
			return nil, err
		}
		return e.Snippet(ctx, src)
	},
	OpSet: func(_ context.Context, e *Engine, args []any) (any, error) {
		if err := wantArgs(OpSet, args, 2); err != nil {
			return nil, err
		}
		name, err := stringArg(OpSet, args, 0)
		if err != nil {
			return nil, err
		}
		return e.Set(name, args[1])
	},
	OpGet: func(_ context.Context, e *Engine, args []any) (any, error) {
		if err := wantArgs(OpGet, args, 1); err != nil {
			return nil, err
		}
		name, err := stringArg(OpGet, args, 0)
		if err != nil {
			return nil, err
		}
		return e.Get(name)
	},
	OpFx: func(ctx context.Context, e *Engine, args []any) (any, error) {
		name, err := stringArg(OpFx, args, 0)
		if err != nil {
			return nil, err
		}
		return e.Fx(ctx, name, args[1:]...)
	},
	OpNewInstance: func(ctx context.Context, e *Engine, args []any) (any, error) {
		name, err := stringArg(OpNewInstance, args, 0)
		if err != nil {
			return nil, err
		}
		return e.NewInstance(ctx, name, args[1:]...)
	},
	OpOutput: func(_ context.Context, e *Engine, args []any) (any, error) {
		if err := wantArgs(OpOutput, args, 0); err != nil {
			return nil, err
		}
		return e.Output()
	},
	OpClear: func(_ context.Context, e *Engine, args []any) (any, error) {
		if err := wantArgs(OpClear, args, 0); err != nil {
			return nil, err
		}
		return e.Clear(), nil
	},
}

// Dispatch runs op with positional args, checking their number and types.
// Results are what the matching method returns: *Engine for snippet, set and
// clear, *Handle for get, fx and newInstance, string for output.
func (e *Engine) Dispatch(ctx context.Context, op Op, args ...any) (any, error) {
	fn, ok := dispatchTable[op]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %s", ErrScriptInvocation, op)
	}
	return fn(ctx, e, args)
}

// DispatchName is Dispatch with the operation given by name.
func (e *Engine) DispatchName(ctx context.Context, name string, args ...any) (any, error) {
	op := ParseOp(name)
	if op == OpUnknown {
		return nil, fmt.Errorf("%w: unknown operation %q", ErrScriptInvocation, name)
	}
	return e.Dispatch(ctx, op, args...)
}

func wantArgs(op Op, args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrScriptInvocation, op, n, len(args))
	}
	return nil
}

func stringArg(op Op, args []any, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%w: %s is missing argument %d", ErrScriptInvocation, op, i+1)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s argument %d must be a string, got %T", ErrScriptInvocation, op, i+1, args[i])
	}
	return s, nil
}
