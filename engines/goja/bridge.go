package goja

import (
	"errors"
	"fmt"

	gojaLib "github.com/dop251/goja"
)

// errForeignHandle is returned when a handle to an object owned by another
// environment is passed in. Objects are bound to the VM that created them.
var errForeignHandle = errors.New("handle belongs to another environment")

// ToScriptValue converts a host value for use inside this environment.
//
//   - nil becomes null
//   - a *Handle yields the value it wraps; an object handle from another
//     environment becomes undefined (see convert)
//   - a gojaLib.Value passes through unchanged
//   - anything else goes through gojaLib.Runtime.ToValue: pointers, maps and
//     slices are wrapped by reference, so exporting gives back the same
//     instance; primitives are copied
//
// Only valid on an active environment. Before EnsureInitialized there is no
// VM to wrap host values in, and everything but nil, handles and script
// values maps to undefined.
func (e *Environment) ToScriptValue(v any) gojaLib.Value {
	val, err := e.convert(v)
	if err != nil {
		return gojaLib.Undefined()
	}
	return val
}

// convert is ToScriptValue that reports object handles from another
// environment instead of dropping them. Primitive handles carry no VM state
// and are accepted from anywhere.
func (e *Environment) convert(v any) (gojaLib.Value, error) {
	switch val := v.(type) {
	case nil:
		return gojaLib.Null(), nil
	case *Handle:
		if val == nil || val.value == nil {
			return gojaLib.Null(), nil
		}
		if _, isObj := val.value.(*gojaLib.Object); isObj && val.env != e {
			return nil, errForeignHandle
		}
		return val.value, nil
	case gojaLib.Value:
		return val, nil
	}
	if e.vm == nil {
		return gojaLib.Undefined(), nil
	}
	return e.vm.ToValue(v), nil
}

func (e *Environment) toScriptValues(args []any) ([]gojaLib.Value, error) {
	out := make([]gojaLib.Value, len(args))
	for i, arg := range args {
		v, err := e.convert(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// FromScriptValue exports a script value to its Go form. null and undefined
// become nil; host values come back as the original instance.
func FromScriptValue(v gojaLib.Value) any {
	if isEmpty(v) {
		return nil
	}
	return v.Export()
}
