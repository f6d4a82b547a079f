package risor

import "errors"

var (
	ErrBytecodeNil       = errors.New("risor bytecode is nil")
	ErrContentNil        = errors.New("risor compiler module is empty")
	ErrCompileFailed     = errors.New("failed to compile risor compiler module")
	ErrEntryPointMissing = errors.New("risor compiler module has no entry point")
	ErrExecFailed        = errors.New("risor compiler execution error")
	ErrNoInstructions    = errors.New("risor bytecode has zero instructions")
)
