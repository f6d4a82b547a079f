// Package risor runs template compilers written in Risor. A module declares a
// function (compile by default) that receives the compile options as a map
// and returns {"code": string, "map": map or nil, "tips": [string],
// "errors": [string or map]}.
package risor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	risorLib "github.com/risor-io/risor"
	risorCompiler "github.com/risor-io/risor/compiler"
	risorErrors "github.com/risor-io/risor/errz"
	risorObject "github.com/risor-io/risor/object"
	risorParser "github.com/risor-io/risor/parser"
	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/compiler/source"
	"github.com/robbyt/go-sfctemplate/internal/helpers"
)

// Compiler implements compiler.Compiler on top of a Risor module. The module
// is compiled to bytecode once; every Compile evaluates that bytecode in a
// fresh VM, so Compile may be called concurrently.
type Compiler struct {
	entryPoint string
	filename   string
	code       *risorCompiler.Code

	logHandler slog.Handler
	logger     *slog.Logger
}

// New loads and compiles the Risor module provided by src.
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
	if err := c.init(ctx, string(body)); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Compiler) String() string {
	return fmt.Sprintf("risor.Compiler{File: %s, EntryPoint: %s}", c.filename, c.entryPoint)
}

func (c *Compiler) init(ctx context.Context, script string) error {
	logger := c.logger.WithGroup("init")
	if strings.TrimSpace(script) == "" {
		logger.WarnContext(ctx, "empty script content")
		return ErrContentNil
	}

	decl := regexp.MustCompile(`(?m)^\s*func\s+` + regexp.QuoteMeta(c.entryPoint) + `\s*\(`)
	if !decl.MatchString(script) {
		return fmt.Errorf("%w: func %s(options) is not declared", ErrEntryPointMissing, c.entryPoint)
	}

	// The module ends by calling the entry point with the per-call options
	// global, so one evaluation declares and runs it.
	script += fmt.Sprintf("\n%s(%s)\n", c.entryPoint, optionsGlobal)

	ast, err := risorParser.Parse(ctx, script)
	if err != nil {
		errMsg := err.Error()
		var friendlyErr risorErrors.FriendlyError
		if errors.As(err, &friendlyErr) {
			errMsg = friendlyErr.FriendlyErrorMessage()
		}
		logger.WarnContext(ctx, "parse failed", "error", errMsg)
		return fmt.Errorf("%w: %s", ErrCompileFailed, errMsg)
	}

	globalNames := append(risorLib.NewConfig().GlobalNames(), optionsGlobal)
	bc, err := risorCompiler.Compile(ast, risorCompiler.WithGlobalNames(globalNames))
	if err != nil {
		logger.WarnContext(ctx, "compilation failed", "error", err)
		return fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	if bc == nil {
		return ErrBytecodeNil
	}
	if bc.InstructionCount() < 1 {
		return ErrNoInstructions
	}
	c.code = bc

	logger.DebugContext(ctx, "risor compiler ready",
		"entryPoint", c.entryPoint, "instructionCount", bc.InstructionCount())
	return nil
}

// Compile implements compiler.Compiler.
func (c *Compiler) Compile(ctx context.Context, opts *compiler.Options) (*compiler.Result, error) {
	if opts == nil {
		return nil, compiler.ErrOptionsNil
	}
	logger := helpers.LoggerFromCtx(ctx, c.logger).WithGroup("risor")

	input, err := compiler.OptionsToMap(opts)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	obj, err := risorLib.EvalCode(ctx, c.code, risorLib.WithGlobal(optionsGlobal, input))
	execTime := time.Since(startTime)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: cancelled: %w", ErrExecFailed, ctx.Err())
		}
		logger.WarnContext(ctx, "compiler module failed", "filename", opts.Filename, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrExecFailed, err)
	}
	logger.DebugContext(ctx, "exec complete", "filename", opts.Filename, "execTime", execTime)

	return c.toResult(obj)
}

func (c *Compiler) toResult(obj risorObject.Object) (*compiler.Result, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: %s returned nothing", compiler.ErrInvalidResult, c.entryPoint)
	}
	switch obj.Type() {
	case risorObject.MAP:
	case risorObject.ERROR:
		return nil, fmt.Errorf("%w: %s", ErrExecFailed, obj.Inspect())
	default:
		return nil, fmt.Errorf("%w: %s returned %s, want map",
			compiler.ErrInvalidResult, c.entryPoint, obj.Type())
	}

	data, err := json.Marshal(obj.Interface())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", compiler.ErrInvalidResult, err)
	}
	return compiler.DecodeResult(data)
}
