package goja

import (
	gojaLib "github.com/dop251/goja"

	"github.com/robbyt/go-scriptbridge/platform/script"
)

// Program is compiled script source. It is not bound to any environment and
// can be run by several environments, concurrently if need be.
type Program struct {
	name    string
	source  string
	program *gojaLib.Program
}

var _ script.ExecutableContent = (*Program)(nil)

func (p *Program) String() string {
	return "goja.Program{Name: " + p.name + "}"
}

// GetSource returns the script text the program was compiled from.
func (p *Program) GetSource() string {
	return p.source
}

// GetName returns the name used in error positions and stack traces.
func (p *Program) GetName() string {
	return p.name
}

// GetByteCode returns the *gojaLib.Program.
func (p *Program) GetByteCode() any {
	return p.program
}
