package loader

import "errors"

var (
	// ErrCompileFailed is returned when the compiler invocation itself fails.
	// Template diagnostics never produce it.
	ErrCompileFailed = errors.New("template compilation failed")

	// ErrContextNil is returned when Load is called without a loader context.
	ErrContextNil = errors.New("loader context is nil")
)
