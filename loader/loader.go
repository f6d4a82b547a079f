// Package loader compiles the template block of a single-file component for
// one build request and reports the compiler diagnostics to the host.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/options"
	"github.com/robbyt/go-sfctemplate/resolver"
	"github.com/robbyt/go-sfctemplate/sfc"
	slogcontext "github.com/veqryn/slog-context"
)

// Loader is the template loader. It keeps no state between requests; the
// descriptor cache is re-read on every Load.
type Loader struct {
	cfg      *options.Config
	cache    sfc.DescriptorCache
	scripts  sfc.ScriptResolver
	registry compiler.Loader
	resolver *resolver.Resolver
	dispatch compiler.Dispatcher
	color    *bool

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Loader. WithDescriptorCache is required.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("error applying loader option: %w", err)
		}
	}
	l.applyDefaults()
	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("invalid loader configuration: %w", err)
	}
	l.setupLogger()

	resolverOpts := []resolver.Option{resolver.WithLogger(l.logger)}
	if l.scripts != nil {
		resolverOpts = append(resolverOpts, resolver.WithScriptResolver(l.scripts))
	}
	if l.registry != nil {
		resolverOpts = append(resolverOpts, resolver.WithRegistry(l.registry))
	}
	r, err := resolver.New(resolverOpts...)
	if err != nil {
		return nil, err
	}
	l.resolver = r
	return l, nil
}

func (l *Loader) String() string {
	return fmt.Sprintf("loader.Loader{Config: %s, Cache: %T}", l.cfg, l.cache)
}

// Load compiles the template source of lctx's resource. Tips are emitted as
// warnings and template errors as errors, then the callback receives the
// generated code. Template errors do not fail the request. An error is
// returned, and the callback is not called, only when the descriptor is
// missing, the compiler cannot be resolved, or the compiler invocation fails.
func (l *Loader) Load(ctx context.Context, lctx Context, source []byte, inMap *compiler.SourceMap) error {
	if lctx == nil {
		return ErrContextNil
	}
	src := string(source)
	path := lctx.ResourcePath()

	req, err := ParseRequest(lctx.ResourceQuery())
	logger := l.logger.With("resource", path, "id", req.ID)
	if err != nil {
		logger.WarnContext(ctx, "malformed resource query", "query", lctx.ResourceQuery(), "error", err)
	}
	if req.ID == "" {
		logger.WarnContext(ctx, "resource query has no scope id")
	}
	ctx = slogcontext.NewCtx(ctx, logger)

	desc, ok := l.cache.Get(path)
	if !ok {
		logger.ErrorContext(ctx, "descriptor not found")
		return fmt.Errorf("%w: %s", sfc.ErrDescriptorNotFound, path)
	}

	build := resolver.BuildContext{Mode: lctx.Mode(), Target: lctx.Target()}
	opts, err := l.resolver.Resolve(ctx, l.cfg, desc, req.ID, build)
	if err != nil {
		return err
	}
	if opts == nil {
		// no template block, the compiler gets the request fields only
		opts = &compiler.Options{}
	}
	opts.ID = req.ID
	opts.Filename = path
	opts.Source = src
	opts.InMap = inMap

	result, err := l.dispatch.Compile(ctx, opts)
	if err != nil {
		logger.ErrorContext(ctx, "compiler invocation failed", "error", err)
		return fmt.Errorf("%w: %s: %w", ErrCompileFailed, path, err)
	}
	if result == nil {
		return fmt.Errorf("%w: %s: compiler returned no result", ErrCompileFailed, path)
	}

	for _, tip := range result.Tips {
		lctx.EmitWarning(Warning(tip))
	}

	if len(result.Errors) > 0 {
		errSource := src
		if original, ok := inMap.OriginalSource(); ok {
			errSource = original
		}
		for i, e := range result.Errors {
			if e == nil {
				logger.WarnContext(ctx, "compiler reported a nil error", "index", i)
				continue
			}
			lctx.EmitError(l.reportable(e, errSource, path))
		}
	}

	logger.DebugContext(ctx, "template compiled",
		"tips", len(result.Tips), "errors", len(result.Errors), "codeBytes", len(result.Code))
	lctx.Callback(nil, result.Code, result.Map)
	return nil
}

// reportable formats located compiler errors; anything else is passed through.
func (l *Loader) reportable(err error, source, path string) error {
	var ce *compiler.CompileError
	if !errors.As(err, &ce) || ce.Loc == nil {
		return err
	}
	return FormatError(ce, source, path, *l.color)
}
