// Package starlark runs template compilers written in Starlark. A module
// defines a function (compile by default) that receives the compile options as
// a dict and returns {"code": str, "map": dict|None, "tips": [str],
// "errors": [str|dict]}.
package starlark

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/compiler/source"
	"github.com/robbyt/go-sfctemplate/internal/helpers"
	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Compiler implements compiler.Compiler on top of a Starlark module. The
// module is executed once; its globals are frozen so Compile may be called
// concurrently.
type Compiler struct {
	entryPoint string
	filename   string
	fn         starlarkLib.Callable

	logHandler slog.Handler
	logger     *slog.Logger
}

// New loads, compiles and initializes the Starlark module provided by src.
func New(ctx context.Context, src source.Source, opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{}
	c.applyDefaults()

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}
	c.setupLogger()

	body, err := source.ReadAll(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentNil, err)
	}
	if err := c.init(ctx, body); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Compiler) String() string {
	return fmt.Sprintf("starlark.Compiler{File: %s, EntryPoint: %s}", c.filename, c.entryPoint)
}

func (c *Compiler) init(ctx context.Context, body []byte) error {
	logger := c.logger.WithGroup("init")
	predeclared := standardModules()

	f, err := (&syntax.FileOptions{}).Parse(c.filename, body, 0)
	if err != nil {
		logger.WarnContext(ctx, "parse failed", "error", err)
		return fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	prog, err := starlarkLib.FileProgram(f, predeclared.Has)
	if err != nil {
		logger.WarnContext(ctx, "resolve failed", "error", err)
		return fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	thread := c.newThread(ctx, "init", logger)
	stop := cancelOnDone(ctx, thread)
	defer stop()

	globals, err := prog.Init(thread, predeclared)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecFailed, err)
	}
	globals.Freeze()

	fn, ok := globals[c.entryPoint].(starlarkLib.Callable)
	if !ok {
		return fmt.Errorf("%w: %q is not defined as a function", ErrEntryPointMissing, c.entryPoint)
	}
	c.fn = fn

	logger.DebugContext(ctx, "starlark compiler ready", "entryPoint", c.entryPoint)
	return nil
}

// Compile implements compiler.Compiler.
func (c *Compiler) Compile(ctx context.Context, opts *compiler.Options) (*compiler.Result, error) {
	if opts == nil {
		return nil, compiler.ErrOptionsNil
	}
	logger := helpers.LoggerFromCtx(ctx, c.logger).WithGroup("starlark")

	input, err := compiler.OptionsToMap(opts)
	if err != nil {
		return nil, err
	}
	arg, err := toStarlarkValue(input)
	if err != nil {
		return nil, fmt.Errorf("failed to convert options: %w", err)
	}

	thread := c.newThread(ctx, "compile:"+opts.Filename, logger)
	stop := cancelOnDone(ctx, thread)
	defer stop()

	val, err := starlarkLib.Call(thread, c.fn, starlarkLib.Tuple{arg}, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: cancelled: %w", ErrExecFailed, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrExecFailed, err)
	}

	if _, ok := val.(*starlarkLib.Dict); !ok {
		return nil, fmt.Errorf("%w: %s returned %s, want dict",
			compiler.ErrInvalidResult, c.entryPoint, val.Type())
	}
	out, err := fromStarlarkValue(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", compiler.ErrInvalidResult, err)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", compiler.ErrInvalidResult, err)
	}
	return compiler.DecodeResult(data)
}

func (c *Compiler) newThread(ctx context.Context, name string, logger *slog.Logger) *starlarkLib.Thread {
	return &starlarkLib.Thread{
		Name: name,
		Print: func(thread *starlarkLib.Thread, msg string) {
			logger.InfoContext(ctx, msg, "starlark-thread", thread.Name)
		},
	}
}

// cancelOnDone cancels thread when ctx ends. The returned func releases the
// watcher.
func cancelOnDone(ctx context.Context, thread *starlarkLib.Thread) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()
	return func() { close(done) }
}
