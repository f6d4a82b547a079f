package extism

import "errors"

var (
	ErrContentNil        = errors.New("wasm compiler module is empty")
	ErrCompileFailed     = errors.New("failed to compile wasm compiler module")
	ErrEntryPointMissing = errors.New("wasm compiler module has no entry point")
	ErrExecFailed        = errors.New("wasm compiler execution error")
)
