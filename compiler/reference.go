package compiler

import (
	"context"
	"fmt"
	"strings"
)

// Reference names the compiler implementation chosen by configuration: either
// a direct implementation or a module name resolved through a Registry. Impl
// wins when both are set.
type Reference struct {
	Impl   Compiler
	Module string
}

// ModuleRef returns a Reference to a named module.
func ModuleRef(module string) Reference {
	return Reference{Module: module}
}

// ImplRef returns a Reference to an implementation.
func ImplRef(c Compiler) Reference {
	return Reference{Impl: c}
}

// IsZero reports whether r names no implementation.
func (r Reference) IsZero() bool {
	return r.Impl == nil && strings.TrimSpace(r.Module) == ""
}

func (r Reference) String() string {
	switch {
	case r.Impl != nil:
		return fmt.Sprintf("compiler.Reference{Impl: %T}", r.Impl)
	case r.Module != "":
		return fmt.Sprintf("compiler.Reference{Module: %s}", r.Module)
	default:
		return "compiler.Reference{}"
	}
}

// Loader resolves module names to implementations.
type Loader interface {
	Load(ctx context.Context, module string) (Compiler, error)
}

// Resolve returns the implementation r refers to, loading it through l when r
// is a module name, or nil when r is empty.
func (r Reference) Resolve(ctx context.Context, l Loader) (Compiler, error) {
	if r.Impl != nil {
		return r.Impl, nil
	}
	module := strings.TrimSpace(r.Module)
	if module == "" {
		return nil, nil
	}
	if l == nil {
		return nil, &ModuleNotFoundError{Module: module}
	}
	return l.Load(ctx, module)
}
