// Package compiler defines the contract between the template loader and the
// template compiler that turns template source into render-function code.
package compiler

import "context"

// Compiler compiles one template. Diagnostics about the template itself are
// returned in the Result; a non-nil error means the invocation failed.
type Compiler interface {
	Compile(ctx context.Context, opts *Options) (*Result, error)
}

// Func adapts an ordinary function to the Compiler interface.
type Func func(ctx context.Context, opts *Options) (*Result, error)

// Compile calls f(ctx, opts).
func (f Func) Compile(ctx context.Context, opts *Options) (*Result, error) {
	return f(ctx, opts)
}

// Dispatcher runs the implementation named in Options.Compiler when one was
// resolved, and the Fallback otherwise. Backends receive a clone of the
// options, so changes they make are not seen by the caller.
type Dispatcher struct {
	Fallback Compiler
}

func (d *Dispatcher) String() string {
	return "compiler.Dispatcher"
}

// Compile implements Compiler.
func (d *Dispatcher) Compile(ctx context.Context, opts *Options) (*Result, error) {
	if opts == nil {
		return nil, ErrOptionsNil
	}
	opts = opts.Clone()
	if opts.Compiler != nil {
		return opts.Compiler.Compile(ctx, opts)
	}
	if d.Fallback == nil {
		return nil, ErrNoCompiler
	}
	return d.Fallback.Compile(ctx, opts)
}
