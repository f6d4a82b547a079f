package extism

import (
	"context"

	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/compiler/source"
)

// Extension is the file extension handled by Factory.
const Extension = ".wasm"

// Factory returns a compiler.Factory that loads WASM compiler modules from
// disk or HTTP.
func Factory(opts ...FunctionalOption) compiler.Factory {
	return func(ctx context.Context, module string) (compiler.Compiler, error) {
		src, err := source.Infer(module)
		if err != nil {
			return nil, err
		}
		return New(ctx, src, opts...)
	}
}
