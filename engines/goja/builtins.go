package goja

import (
	"fmt"
	"path/filepath"
	"strings"

	gojaLib "github.com/dop251/goja"

	"github.com/robbyt/go-scriptbridge/platform"
	"github.com/robbyt/go-scriptbridge/platform/constants"
	"github.com/robbyt/go-scriptbridge/platform/script/loader"
)

var consoleMethods = []string{"log", "info", "warn", "error", "debug"}

func (e *Environment) installBuiltins() error {
	console := e.vm.NewObject()
	for _, name := range consoleMethods {
		if err := console.Set(name, e.print); err != nil {
			return fmt.Errorf("failed to install console.%s: %w", name, err)
		}
	}

	builtins := map[string]any{
		constants.Echo:    e.echo,
		constants.Print:   e.print,
		constants.Console: console,
		constants.Include: e.include,
		constants.Dirname: e.workingDir,
	}
	if e.request != nil {
		builtins[constants.Request] = e.request
	}
	for name, value := range builtins {
		if err := e.vm.Set(name, value); err != nil {
			return fmt.Errorf("failed to install %s: %w", name, err)
		}
	}
	return nil
}

// echo writes its arguments with nothing between or after them.
func (e *Environment) echo(call gojaLib.FunctionCall) gojaLib.Value {
	for _, arg := range call.Arguments {
		e.write(arg.String())
	}
	return gojaLib.Undefined()
}

// print writes its arguments separated by spaces, then a newline.
func (e *Environment) print(call gojaLib.FunctionCall) gojaLib.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	e.write(strings.Join(parts, " ") + "\n")
	return gojaLib.Undefined()
}

func (e *Environment) write(s string) {
	if _, err := e.out.WriteString(s); err != nil {
		panic(e.vm.NewGoError(err))
	}
}

// include runs another script file in this environment and returns its
// completion value. Relative paths resolve against the working directory.
func (e *Environment) include(call gojaLib.FunctionCall) gojaLib.Value {
	path := call.Argument(0).String()
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.workingDir, path)
	}

	ldr, err := loader.NewFromDisk(path)
	if err != nil {
		panic(e.vm.NewGoError(fmt.Errorf("%w: %w", platform.ErrSourceNotFound, err)))
	}
	prog, err := e.runtime.CompileLoader(ldr)
	if err != nil {
		panic(e.vm.NewGoError(err))
	}

	e.logger.Debug("including script", "path", path)
	v, err := e.vm.RunProgram(prog.program)
	if err != nil {
		if ex, ok := err.(*gojaLib.Exception); ok {
			panic(ex)
		}
		panic(e.vm.NewGoError(err))
	}
	return v
}
