package starlark

import "errors"

var (
	ErrContentNil        = errors.New("starlark compiler module is empty")
	ErrCompileFailed     = errors.New("failed to compile starlark compiler module")
	ErrEntryPointMissing = errors.New("starlark compiler module has no entry point")
	ErrExecFailed        = errors.New("starlark compiler execution error")
)
