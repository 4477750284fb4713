package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns a handler and a logger for one bridge component.
// When handler is nil a stderr text handler grouped under engineName is
// created, and a warning is emitted so the missing configuration is visible.
//
// Parameters:
//   - handler: the slog.Handler to use, or nil for defaults
//   - engineName: the script engine the component belongs to (e.g. "goja")
//   - component: optional group name for the component (e.g. "Environment")
func SetupLogger(
	handler slog.Handler,
	engineName string,
	component string,
) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil).WithGroup(engineName)
		slog.New(handler).Warn("Handler is nil, using the default logger configuration.")
	}

	if component == "" {
		return handler, slog.New(handler)
	}
	return handler, slog.New(handler.WithGroup(component))
}
