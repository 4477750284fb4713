// Package constants holds the names of the globals the bridge installs into
// every execution environment.
package constants

const (
	// Request is the global holding the simulated HTTP request, when one was
	// supplied to the environment.
	Request = "request"

	// Echo writes its arguments to the output sink with no separator and no
	// trailing newline.
	Echo = "echo"

	// Print writes its arguments separated by spaces and followed by "\n".
	Print = "print"

	// Console is the console object; log, info, warn, error and debug all
	// behave like Print.
	Console = "console"

	// Include loads a script relative to the working directory and runs it in
	// the current environment.
	Include = "include"

	// Dirname holds the working directory of the environment.
	Dirname = "__dirname"
)

// Reserved lists every name installed by the bridge.
var Reserved = []string{Request, Echo, Print, Console, Include, Dirname}
