package risor

import (
	"context"
	"path"

	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/compiler/source"
)

// Extension is the file extension handled by Factory.
const Extension = ".risor"

// Factory returns a compiler.Factory that loads Risor compiler modules from
// disk or HTTP.
func Factory(opts ...FunctionalOption) compiler.Factory {
	return func(ctx context.Context, module string) (compiler.Compiler, error) {
		src, err := source.Infer(module)
		if err != nil {
			return nil, err
		}
		all := append([]FunctionalOption{WithFilename(path.Base(src.GetSourceURL().Path))}, opts...)
		return New(ctx, src, all...)
	}
}
