package goja

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	gojaLib "github.com/dop251/goja"

	"github.com/robbyt/go-scriptbridge/internal/helpers"
	"github.com/robbyt/go-scriptbridge/platform"
)

// State is the lifecycle position of an Environment.
type State int

const (
	StateUninitialized State = iota
	StateActive
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Environment is one isolated script world: a VM with its own globals and
// its own captured output. It becomes active once, lazily, and stays active.
//
// An Environment is not safe for concurrent use.
type Environment struct {
	runtime *Runtime
	vm      *gojaLib.Runtime
	out     *outputBuffer
	state   State

	workingDir     string
	initialGlobals map[string]any
	request        map[string]any
	outputWriter   io.Writer
	getwd          func() (string, error)

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewEnvironment creates an uninitialized Environment backed by rt.
func NewEnvironment(rt *Runtime, opts ...EnvOption) (*Environment, error) {
	if rt == nil {
		return nil, fmt.Errorf("runtime cannot be nil")
	}
	e := &Environment{runtime: rt, getwd: os.Getwd}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if e.logHandler == nil {
		e.logHandler = rt.logHandler
	}
	e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "goja", "Environment")
	return e, nil
}

func (e *Environment) String() string {
	return "goja.Environment{State: " + e.state.String() + "}"
}

// State reports whether the environment has been activated.
func (e *Environment) State() State {
	return e.state
}

// WorkingDir is the directory relative includes resolve against. It is empty
// until the environment is active.
func (e *Environment) WorkingDir() string {
	return e.workingDir
}

// Runtime returns the Runtime this environment compiles with.
func (e *Environment) Runtime() *Runtime {
	return e.runtime
}

// EnsureInitialized activates the environment. The first call fixes the
// working directory; an empty workingDir means the process working
// directory. Later calls do nothing.
func (e *Environment) EnsureInitialized(workingDir string) error {
	if e.state == StateActive {
		return nil
	}
	if workingDir == "" {
		wd, err := e.getwd()
		if err != nil {
			return fmt.Errorf("%w: failed to determine working directory: %w", platform.ErrNotInitialized, err)
		}
		workingDir = wd
	}

	e.vm = e.runtime.newVM()
	e.out = newOutputBuffer(e.outputWriter)
	e.workingDir = workingDir

	if err := e.installBuiltins(); err != nil {
		e.vm, e.out, e.workingDir = nil, nil, ""
		return err
	}
	for name, value := range e.initialGlobals {
		v, err := e.convert(value)
		if err == nil {
			err = e.vm.Set(name, v)
		}
		if err != nil {
			e.vm, e.out, e.workingDir = nil, nil, ""
			return fmt.Errorf("%w: %q: %w", platform.ErrScriptExecution, name, err)
		}
	}

	e.state = StateActive
	e.logger.Debug("environment initialized", "workingDir", workingDir)
	return nil
}

// ExecuteSnippet compiles src and runs it at top level. A syntax error leaves
// the environment untouched; anything else the snippet did before failing
// stays in effect.
func (e *Environment) ExecuteSnippet(ctx context.Context, src string) error {
	prog, err := e.runtime.Compile(snippetName(src), src)
	if err != nil {
		e.logger.ErrorContext(ctx, "snippet failed to compile", "error", err)
		return err
	}
	return e.ExecuteProgram(ctx, prog, "")
}

// ExecuteProgram runs a compiled program at top level, activating the
// environment with workingDir first if needed.
func (e *Environment) ExecuteProgram(ctx context.Context, prog *Program, workingDir string) error {
	if prog == nil {
		return fmt.Errorf("%w: program is nil", platform.ErrScriptLoad)
	}
	if err := e.EnsureInitialized(workingDir); err != nil {
		return err
	}

	logger := e.logger.With("name", prog.GetName())
	logger.DebugContext(ctx, "executing program")
	if _, err := e.run(ctx, func() (gojaLib.Value, error) {
		return e.vm.RunProgram(prog.program)
	}); err != nil {
		logger.ErrorContext(ctx, "program execution failed", "error", err)
		return fmt.Errorf("%w: %s: %w", platform.ErrScriptExecution, prog.GetName(), err)
	}
	return nil
}

// Output returns everything written since the last reset.
func (e *Environment) Output() (string, error) {
	if e.state != StateActive {
		return "", platform.ErrNotInitialized
	}
	return e.out.String(), nil
}

// ResetOutput clears the captured output. Globals are kept.
func (e *Environment) ResetOutput() {
	if e.state != StateActive {
		return
	}
	e.out.Reset()
}

// SetGlobal defines or overwrites a global.
func (e *Environment) SetGlobal(name string, value any) error {
	if e.state != StateActive {
		return platform.ErrNotInitialized
	}
	v, err := e.convert(value)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", platform.ErrScriptExecution, name, err)
	}
	if err := e.vm.Set(name, v); err != nil {
		return fmt.Errorf("%w: %q: %w", platform.ErrScriptExecution, name, err)
	}
	return nil
}

// GetGlobal looks up a global. Absent names yield an empty handle.
func (e *Environment) GetGlobal(name string) (*Handle, error) {
	if e.state != StateActive {
		return nil, platform.ErrNotInitialized
	}
	v, err := e.lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", platform.ErrScriptExecution, name, err)
	}
	return newHandle(e, v), nil
}

// Call invokes the global function name.
func (e *Environment) Call(ctx context.Context, name string, args ...any) (*Handle, error) {
	if e.state != StateActive {
		return nil, platform.ErrNotInitialized
	}
	v, err := e.lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", platform.ErrScriptInvocation, name, err)
	}
	if isEmpty(v) {
		return nil, fmt.Errorf("%w: function %q is not defined", platform.ErrScriptInvocation, name)
	}
	fn, ok := gojaLib.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a function", platform.ErrScriptInvocation, name)
	}

	jsArgs, err := e.toScriptValues(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s(): %w", platform.ErrScriptInvocation, name, err)
	}
	res, err := e.run(ctx, func() (gojaLib.Value, error) {
		return fn(gojaLib.Undefined(), jsArgs...)
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "function call failed", "function", name, "error", err)
		return nil, fmt.Errorf("%w: %s(): %w", platform.ErrScriptInvocation, name, err)
	}
	return newHandle(e, res), nil
}

// New constructs an instance of the global class className.
func (e *Environment) New(ctx context.Context, className string, args ...any) (*Handle, error) {
	if e.state != StateActive {
		return nil, platform.ErrNotInitialized
	}
	v, err := e.lookup(className)
	if err != nil || isEmpty(v) {
		return nil, fmt.Errorf("%w: %q", platform.ErrClassNotFound, className)
	}
	if _, ok := gojaLib.AssertConstructor(v); !ok {
		return nil, fmt.Errorf("%w: %q is not a class", platform.ErrClassNotFound, className)
	}

	jsArgs, err := e.toScriptValues(args)
	if err != nil {
		return nil, fmt.Errorf("%w: new %s(): %w", platform.ErrScriptInvocation, className, err)
	}
	res, err := e.run(ctx, func() (gojaLib.Value, error) {
		obj, err := e.vm.New(v, jsArgs...)
		if err != nil {
			return nil, err
		}
		return obj, nil
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "constructor failed", "class", className, "error", err)
		return nil, fmt.Errorf("%w: new %s(): %w", platform.ErrScriptExecution, className, err)
	}
	return newHandle(e, res), nil
}

// run executes fn with ctx able to interrupt the VM. Afterwards the interrupt
// flag is cleared and output is flushed to the tee writer.
func (e *Environment) run(ctx context.Context, fn func() (gojaLib.Value, error)) (gojaLib.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		e.vm.Interrupt(ctx.Err())
		close(fired)
	})
	defer func() {
		if !stop() {
			<-fired
		}
		e.vm.ClearInterrupt()
		if err := e.out.Flush(); err != nil {
			e.logger.WarnContext(ctx, "failed to flush output", "error", err)
		}
	}()

	v, err := fn()
	if err != nil {
		var interrupted *gojaLib.InterruptedError
		if errors.As(err, &interrupted) {
			if cause, ok := interrupted.Value().(error); ok {
				return nil, fmt.Errorf("%w: %w", err, cause)
			}
		}
		return nil, err
	}
	return v, nil
}

// lookup reads a global, catching exceptions thrown while doing so (a let
// binding still in its temporal dead zone, for one).
func (e *Environment) lookup(name string) (gojaLib.Value, error) {
	var v gojaLib.Value
	if ex := e.vm.Try(func() {
		v = e.vm.Get(name)
	}); ex != nil {
		return nil, ex
	}
	return v, nil
}

func snippetName(src string) string {
	return "snippet-" + helpers.ShortHash([]byte(src))
}

func isEmpty(v gojaLib.Value) bool {
	return v == nil || gojaLib.IsUndefined(v) || gojaLib.IsNull(v)
}
