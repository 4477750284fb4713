package goja

import (
	"context"
	"fmt"

	gojaLib "github.com/dop251/goja"

	"github.com/robbyt/go-scriptbridge/platform"
)

// Handle wraps a script value together with the environment it lives in.
// Method calls and property reads return new handles; a handle never holds a
// nil value, absence is represented by undefined.
//
// Handles share their environment's thread confinement.
type Handle struct {
	env   *Environment
	value gojaLib.Value
}

func newHandle(env *Environment, v gojaLib.Value) *Handle {
	if v == nil {
		v = gojaLib.Undefined()
	}
	return &Handle{env: env, value: v}
}

// Value returns the wrapped script value.
func (h *Handle) Value() gojaLib.Value {
	return h.value
}

// Export returns the Go form of the value, see FromScriptValue.
func (h *Handle) Export() any {
	var out any
	if ex := h.env.vm.Try(func() {
		out = FromScriptValue(h.value)
	}); ex != nil {
		h.env.logger.Debug("export failed", "error", ex)
		return nil
	}
	return out
}

// IsNull reports whether the value is null or undefined.
func (h *Handle) IsNull() bool {
	return isEmpty(h.value)
}

// IsCallable reports whether the value is a function.
func (h *Handle) IsCallable() bool {
	_, ok := gojaLib.AssertFunction(h.value)
	return ok
}

// InvokeMethod calls the method name on the wrapped value with this bound to
// it. Primitive receivers are boxed, so string methods work on strings.
func (h *Handle) InvokeMethod(ctx context.Context, name string, args ...any) (*Handle, error) {
	obj, ok := h.object()
	if !ok {
		return nil, fmt.Errorf("%w: cannot call method %q on %s", platform.ErrScriptInvocation, name, h.describe())
	}

	var member gojaLib.Value
	if ex := h.env.vm.Try(func() {
		member = obj.Get(name)
	}); ex != nil {
		return nil, fmt.Errorf("%w: %q: %w", platform.ErrScriptInvocation, name, ex)
	}
	fn, ok := gojaLib.AssertFunction(member)
	if !ok {
		return nil, fmt.Errorf("%w: method %q is not defined", platform.ErrScriptInvocation, name)
	}

	jsArgs, err := h.env.toScriptValues(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s(): %w", platform.ErrScriptInvocation, name, err)
	}
	res, err := h.env.run(ctx, func() (gojaLib.Value, error) {
		return fn(obj, jsArgs...)
	})
	if err != nil {
		h.env.logger.ErrorContext(ctx, "method call failed", "method", name, "error", err)
		return nil, fmt.Errorf("%w: %s(): %w", platform.ErrScriptInvocation, name, err)
	}
	return newHandle(h.env, res), nil
}

// SetProperty writes a property and returns h, so writes can be chained.
func (h *Handle) SetProperty(name string, value any) (*Handle, error) {
	obj, ok := h.value.(*gojaLib.Object)
	if !ok {
		return nil, fmt.Errorf("%w: cannot set property %q on %s", platform.ErrScriptExecution, name, h.describe())
	}
	v, err := h.env.convert(value)
	if err != nil {
		return nil, fmt.Errorf("%w: property %q: %w", platform.ErrScriptExecution, name, err)
	}

	if ex := h.env.vm.Try(func() {
		err = obj.Set(name, v)
	}); ex != nil {
		err = ex
	}
	if err != nil {
		return nil, fmt.Errorf("%w: property %q: %w", platform.ErrScriptExecution, name, err)
	}
	return h, nil
}

// GetProperty reads a property. Missing properties, non-object receivers and
// throwing getters all yield an empty handle.
func (h *Handle) GetProperty(name string) *Handle {
	obj, ok := h.object()
	if !ok {
		return newHandle(h.env, nil)
	}
	var v gojaLib.Value
	if ex := h.env.vm.Try(func() {
		v = obj.Get(name)
	}); ex != nil {
		h.env.logger.Debug("property read failed", "property", name, "error", ex)
		return newHandle(h.env, nil)
	}
	return newHandle(h.env, v)
}

// AsString converts the value the way the script language does, calling the
// object's own toString where it has one.
func (h *Handle) AsString() (string, error) {
	var s string
	if ex := h.env.vm.Try(func() {
		s = h.value.String()
	}); ex != nil {
		return "", fmt.Errorf("%w: toString: %w", platform.ErrScriptInvocation, ex)
	}
	return s, nil
}

// String is AsString without the error; a throwing toString gives "".
func (h *Handle) String() string {
	s, err := h.AsString()
	if err != nil {
		h.env.logger.Debug("string conversion failed", "error", err)
		return ""
	}
	return s
}

func (h *Handle) object() (*gojaLib.Object, bool) {
	if h.IsNull() {
		return nil, false
	}
	if obj, ok := h.value.(*gojaLib.Object); ok {
		return obj, true
	}
	var obj *gojaLib.Object
	if ex := h.env.vm.Try(func() {
		obj = h.value.ToObject(h.env.vm)
	}); ex != nil {
		return nil, false
	}
	return obj, true
}

func (h *Handle) describe() string {
	switch {
	case h.value == nil || gojaLib.IsUndefined(h.value):
		return "undefined"
	case gojaLib.IsNull(h.value):
		return "null"
	default:
		return "a " + h.value.ExportType().String()
	}
}
