package scriptbridge

import (
	"github.com/robbyt/go-scriptbridge/engines/goja"
	"github.com/robbyt/go-scriptbridge/options"
)

type (
	// Handle is a script value returned by an Engine.
	Handle = goja.Handle

	// Runtime compiles scripts for any number of engines.
	Runtime = goja.Runtime

	// Option configures an Engine.
	Option = options.Option
)
