package scriptbridge

import "github.com/robbyt/go-scriptbridge/platform"

// Re-exported so callers can match failures without importing platform.
var (
	ErrSourceNotFound   = platform.ErrSourceNotFound
	ErrScriptLoad       = platform.ErrScriptLoad
	ErrScriptExecution  = platform.ErrScriptExecution
	ErrScriptInvocation = platform.ErrScriptInvocation
	ErrClassNotFound    = platform.ErrClassNotFound
	ErrNotInitialized   = platform.ErrNotInitialized
	ErrInputData        = platform.ErrInputData
)
