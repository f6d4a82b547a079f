package helpers

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-logr/logr"
)

// SetupLogger creates a properly configured logger for a loader component.
// If the provided handler is nil, it creates a default handler with appropriate grouping.
//
// Parameters:
//   - handler: The slog.Handler to use, or nil for defaults
//   - pkgName: The name of the owning package (e.g., "loader", "starlark")
//   - groupName: Optional additional group name within the package
//
// Returns:
//   - The configured handler
//   - A logger created from the handler
func SetupLogger(handler slog.Handler, pkgName string, groupName string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		defaultHandler := slog.NewTextHandler(os.Stdout, nil)
		handler = defaultHandler.WithGroup(pkgName)
		defaultLogger := slog.New(handler)
		defaultLogger.Warn("Handler is nil, using the default logger configuration.")
	}

	var logger *slog.Logger
	if groupName != "" {
		logger = slog.New(handler.WithGroup(groupName))
	} else {
		logger = slog.New(handler)
	}

	return handler, logger
}

// LoggerFromCtx returns the logger stored in ctx by slogcontext.NewCtx, or
// fallback when ctx carries none.
func LoggerFromCtx(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if l := logr.FromContextAsSlogLogger(ctx); l != nil {
			return l
		}
	}
	return fallback
}
