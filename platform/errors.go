package platform

import "errors"

// Failures surfaced by the bridge. Errors from locating, loading, running and
// calling scripts wrap one of these, together with the offending name,
// reference or parse position, so callers can branch with errors.Is.
// Invalid options and configuration are reported as plain errors by the
// constructors that receive them.
var (
	// ErrSourceNotFound is returned when a path, URL or resource reference
	// cannot be resolved to script content or a directory.
	ErrSourceNotFound = errors.New("script source not found")

	// ErrScriptLoad is returned when script source cannot be read or parsed.
	ErrScriptLoad = errors.New("script load error")

	// ErrScriptExecution is returned when a script throws during top-level
	// execution or object construction, when execution is interrupted, or
	// when a global or property write is rejected.
	ErrScriptExecution = errors.New("script execution error")

	// ErrScriptInvocation is returned when a function or method is undefined,
	// is not callable, or throws while being invoked from the host, and when
	// an argument is an object handle owned by another environment.
	ErrScriptInvocation = errors.New("script invocation error")

	// ErrClassNotFound is returned when instantiating an undefined class.
	ErrClassNotFound = errors.New("script class not found")

	// ErrNotInitialized is returned by operations that need an active
	// execution environment before one exists, and when an environment
	// cannot be activated because no working directory can be determined.
	ErrNotInitialized = errors.New("execution environment not initialized")

	// ErrInputData is returned when a data provider fails to supply the
	// globals for a call.
	ErrInputData = errors.New("input data error")
)
