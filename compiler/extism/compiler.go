// Package extism runs template compilers shipped as WASM modules. The module
// exports a function (compile by default) that reads the JSON encoded compile
// options as input and writes the JSON encoded result as output.
package extism

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	extismSDK "github.com/extism/go-sdk"
	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/compiler/extism/adapters"
	"github.com/robbyt/go-sfctemplate/compiler/source"
	"github.com/robbyt/go-sfctemplate/internal/helpers"
)

// Compiler implements compiler.Compiler with an Extism plugin. The module is
// compiled once; every Compile call runs in a fresh instance.
type Compiler struct {
	entryPoint string
	settings   *Settings
	plugin     adapters.CompiledPlugin

	logHandler slog.Handler
	logger     *slog.Logger
}

// New reads the WASM module from src and compiles it.
func New(ctx context.Context, src source.Source, opts ...FunctionalOption) (*Compiler, error) {
	c, err := newCompiler(opts)
	if err != nil {
		return nil, err
	}

	wasm, err := source.ReadAll(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentNil, err)
	}

	manifest := extismSDK.Manifest{
		Wasm: []extismSDK.Wasm{
			extismSDK.WasmData{Data: wasm},
		},
	}
	config := extismSDK.PluginConfig{
		EnableWasi:    c.settings.EnableWASI,
		RuntimeConfig: c.settings.RuntimeConfig,
	}
	plugin, err := extismSDK.NewCompiledPlugin(ctx, manifest, config, c.settings.HostFunctions)
	if err != nil {
		c.logger.WarnContext(ctx, "WASM compilation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	if err := c.attach(ctx, adapters.NewCompiledPluginAdapter(plugin)); err != nil {
		_ = plugin.Close(ctx)
		return nil, err
	}
	return c, nil
}

// NewWithPlugin creates a Compiler around an already compiled plugin.
func NewWithPlugin(ctx context.Context, plugin adapters.CompiledPlugin, opts ...FunctionalOption) (*Compiler, error) {
	c, err := newCompiler(opts)
	if err != nil {
		return nil, err
	}
	if err := c.attach(ctx, plugin); err != nil {
		return nil, err
	}
	return c, nil
}

func newCompiler(opts []FunctionalOption) (*Compiler, error) {
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
	return c, nil
}

// attach verifies that plugin exports the entry point.
func (c *Compiler) attach(ctx context.Context, plugin adapters.CompiledPlugin) error {
	if plugin == nil {
		return fmt.Errorf("%w: compiled plugin is nil", ErrCompileFailed)
	}

	instance, err := plugin.Instance(ctx, adapters.NewPluginInstanceConfig())
	if err != nil {
		return fmt.Errorf("%w: failed to create test instance: %w", ErrCompileFailed, err)
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			c.logger.WarnContext(ctx, "failed to close test instance", "error", err)
		}
	}()

	if !instance.FunctionExists(c.entryPoint) {
		c.logger.ErrorContext(ctx, "entry point function not found", "function", c.entryPoint)
		return fmt.Errorf("%w: %q", ErrEntryPointMissing, c.entryPoint)
	}
	c.plugin = plugin
	return nil
}

func (c *Compiler) String() string {
	return fmt.Sprintf("extism.Compiler{EntryPoint: %s}", c.entryPoint)
}

// Compile implements compiler.Compiler.
func (c *Compiler) Compile(ctx context.Context, opts *compiler.Options) (*compiler.Result, error) {
	if opts == nil {
		return nil, compiler.ErrOptionsNil
	}
	logger := helpers.LoggerFromCtx(ctx, c.logger).WithGroup("extism")

	input, err := compiler.EncodeOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}

	instance, err := c.plugin.Instance(ctx, adapters.NewPluginInstanceConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create plugin instance: %w", ErrExecFailed, err)
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			logger.WarnContext(ctx, "failed to close plugin instance", "error", err)
		}
	}()

	start := time.Now()
	exit, output, err := instance.CallWithContext(ctx, c.entryPoint, input)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: cancelled: %w", ErrExecFailed, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrExecFailed, err)
	}
	if exit != 0 {
		return nil, fmt.Errorf("%w: %s returned exit code %d", ErrExecFailed, c.entryPoint, exit)
	}
	logger.DebugContext(ctx, "wasm compile finished", "elapsed", elapsed, "outputBytes", len(output))

	return compiler.DecodeResult(output)
}

// Close releases the compiled module.
func (c *Compiler) Close(ctx context.Context) error {
	if c.plugin == nil {
		return nil
	}
	return c.plugin.Close(ctx)
}
