package resolver

import "errors"

// ErrCompilerResolve is returned when the configured compiler cannot be resolved.
var ErrCompilerResolve = errors.New("failed to resolve template compiler")
