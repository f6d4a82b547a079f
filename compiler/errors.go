package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrModuleNotFound = errors.New("compiler module not found")
	ErrModuleLoad     = errors.New("failed to load compiler module")
	ErrNoCompiler     = errors.New("no template compiler configured")
	ErrOptionsNil     = errors.New("compile options are nil")
	ErrInvalidResult  = errors.New("invalid compile result")
)

// ModuleNotFoundError is returned when a compiler module name cannot be
// resolved by a Registry.
type ModuleNotFoundError struct {
	Module string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrModuleNotFound, e.Module)
}

func (e *ModuleNotFoundError) Unwrap() error {
	return ErrModuleNotFound
}
