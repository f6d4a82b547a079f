// Package sfctemplate wires the template loader to the built-in compiler
// backends. Compiler modules ending in .star run as Starlark scripts, modules
// ending in .risor run as Risor scripts and modules ending in .wasm run as
// Extism plugins.
package sfctemplate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/compiler/extism"
	"github.com/robbyt/go-sfctemplate/compiler/risor"
	"github.com/robbyt/go-sfctemplate/compiler/source"
	"github.com/robbyt/go-sfctemplate/compiler/starlark"
	"github.com/robbyt/go-sfctemplate/loader"
	"github.com/robbyt/go-sfctemplate/options"
	"github.com/robbyt/go-sfctemplate/sfc"
)

// NewRegistry creates a compiler registry that loads Starlark, Risor and WASM
// compiler modules by file extension.
func NewRegistry(handler slog.Handler) (*compiler.Registry, error) {
	reg := compiler.NewRegistry(handler)

	var starOpts []starlark.FunctionalOption
	var risorOpts []risor.FunctionalOption
	var wasmOpts []extism.FunctionalOption
	if handler != nil {
		starOpts = append(starOpts, starlark.WithLogHandler(handler))
		risorOpts = append(risorOpts, risor.WithLogHandler(handler))
		wasmOpts = append(wasmOpts, extism.WithLogHandler(handler))
	}

	if err := reg.RegisterExtension(starlark.Extension, starlark.Factory(starOpts...)); err != nil {
		return nil, err
	}
	if err := reg.RegisterExtension(risor.Extension, risor.Factory(risorOpts...)); err != nil {
		return nil, err
	}
	if err := reg.RegisterExtension(extism.Extension, extism.Factory(wasmOpts...)); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewTemplateLoader creates a loader reading descriptors from cache, with the
// default registry for compilers configured by module name. Later options
// override earlier ones, so a WithRegistry in opts replaces the default.
func NewTemplateLoader(handler slog.Handler, cache sfc.DescriptorCache, opts ...loader.Option) (*loader.Loader, error) {
	reg, err := NewRegistry(handler)
	if err != nil {
		return nil, err
	}

	base := []loader.Option{
		loader.WithDescriptorCache(cache),
		loader.WithRegistry(reg),
	}
	if handler != nil {
		base = append(base, loader.WithLogHandler(handler))
	}
	return loader.New(append(base, opts...)...)
}

// FromConfigFile creates a template loader configured by the YAML file at path.
func FromConfigFile(handler slog.Handler, path string, cache sfc.DescriptorCache, opts ...loader.Option) (*loader.Loader, error) {
	cfg, err := options.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load loader configuration: %w", err)
	}
	return NewTemplateLoader(handler, cache, append([]loader.Option{loader.WithConfig(cfg)}, opts...)...)
}

// StarlarkCompilerFromString creates a compiler from Starlark source that
// defines compile(options).
func StarlarkCompilerFromString(ctx context.Context, script string, handler slog.Handler) (*starlark.Compiler, error) {
	src, err := source.NewFromString(script)
	if err != nil {
		return nil, err
	}
	var opts []starlark.FunctionalOption
	if handler != nil {
		opts = append(opts, starlark.WithLogHandler(handler))
	}
	return starlark.New(ctx, src, opts...)
}

// ExtismCompilerFromBytes creates a compiler from a WASM module exporting
// compile.
func ExtismCompilerFromBytes(ctx context.Context, wasm []byte, handler slog.Handler) (*extism.Compiler, error) {
	src, err := source.NewFromBytes(wasm)
	if err != nil {
		return nil, err
	}
	var opts []extism.FunctionalOption
	if handler != nil {
		opts = append(opts, extism.WithLogHandler(handler))
	}
	return extism.New(ctx, src, opts...)
}
