// Package resolver assembles template compiler options from the loader
// configuration, the cached component descriptor, its script bindings and the
// scope id of the request.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/options"
	"github.com/robbyt/go-sfctemplate/sfc"
)

const (
	// ModeProduction is the build mode that sets the production flag.
	ModeProduction = "production"
	// TargetNode is the build target that implies a server build.
	TargetNode = "node"
)

// BuildContext is the part of the host build state the resolver reads.
type BuildContext struct {
	Mode   string
	Target string
}

// IsProd reports whether b is a production build.
func (b BuildContext) IsProd() bool {
	return b.Mode == ModeProduction
}

// IsServer reports whether b targets the server.
func (b BuildContext) IsServer() bool {
	return b.Target == TargetNode
}

// Resolver builds compiler.Options for template blocks. It holds no state
// between calls.
type Resolver struct {
	scripts  sfc.ScriptResolver
	registry compiler.Loader

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Resolver. Without WithScriptResolver no binding metadata is
// passed to the compiler; without WithRegistry compilers configured by module
// name fail to resolve.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("error applying resolver option: %w", err)
		}
	}
	r.applyDefaults()
	r.setupLogger()
	return r, nil
}

func (r *Resolver) String() string {
	return fmt.Sprintf("resolver.Resolver{Scripts: %T, Registry: %T}", r.scripts, r.registry)
}

// Resolve returns the compiler options for the template of desc, without the
// id, filename, source and input map, which the caller adds. It returns nil
// options and no error when desc has no template block. Failing to resolve a
// configured compiler module is an error.
func (r *Resolver) Resolve(
	ctx context.Context,
	cfg *options.Config,
	desc *sfc.Descriptor,
	scopeID string,
	build BuildContext,
) (*compiler.Options, error) {
	if desc == nil {
		return nil, sfc.ErrDescriptorNotFound
	}
	if desc.Template == nil {
		r.logger.DebugContext(ctx, "descriptor has no template block", "filename", desc.Filename)
		return nil, nil
	}
	if cfg == nil {
		cfg = options.DefaultConfig()
	}

	isProd := build.IsProd()
	isServer, ok := cfg.ServerBuild()
	if !ok {
		isServer = build.IsServer()
	}
	hasScoped := desc.HasScopedStyle()

	script, hasScript := r.scripts.ResolvedScript(desc, isServer)

	impl, err := cfg.Compiler.Resolve(ctx, r.registry)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to resolve compiler", "compiler", cfg.Compiler.String(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCompilerResolve, err)
	}

	compilerOptions := maps.Clone(cfg.CompilerOptions)
	if compilerOptions == nil {
		compilerOptions = make(map[string]any, 2)
	}
	if hasScoped {
		compilerOptions[compiler.OptionScopeID] = sfc.ScopeAttribute(scopeID)
	} else {
		delete(compilerOptions, compiler.OptionScopeID)
	}
	if hasScript && script.Bindings != nil {
		compilerOptions[compiler.OptionBindingMetadata] = script.Bindings
	} else {
		delete(compilerOptions, compiler.OptionBindingMetadata)
	}

	return &compiler.Options{
		ID:                 scopeID,
		Scoped:             hasScoped,
		Slotted:            desc.Slotted,
		IsProd:             isProd,
		SSR:                isServer,
		SSRCSSVars:         slices.Clone(desc.CSSVars),
		Compiler:           impl,
		CompilerOptions:    compilerOptions,
		TransformAssetURLs: transformAssetURLs(cfg.TransformAssetURLs),
	}, nil
}

// transformAssetURLs applies the default of true to unset and false values.
func transformAssetURLs(v any) any {
	if v == nil || v == false {
		return true
	}
	return v
}
