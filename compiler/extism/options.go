package extism

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	extismSDK "github.com/extism/go-sdk"
	"github.com/robbyt/go-sfctemplate/internal/helpers"
	"github.com/tetratelabs/wazero"
)

const defaultEntryPoint = "compile"

// Settings control how the WASM module is compiled.
type Settings struct {
	EnableWASI    bool
	RuntimeConfig wazero.RuntimeConfig
	HostFunctions []extismSDK.HostFunction
}

// DefaultSettings enables WASI with a default wazero runtime.
func DefaultSettings() *Settings {
	return &Settings{
		EnableWASI:    true,
		RuntimeConfig: wazero.NewRuntimeConfig(),
	}
}

// FunctionalOption configures a Compiler.
type FunctionalOption func(*Compiler) error

// WithEntryPoint sets the exported function called for each template.
func WithEntryPoint(name string) FunctionalOption {
	return func(c *Compiler) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("entry point cannot be empty")
		}
		c.entryPoint = name
		return nil
	}
}

// WithWASIEnabled toggles WASI support.
func WithWASIEnabled(enabled bool) FunctionalOption {
	return func(c *Compiler) error {
		c.settings.EnableWASI = enabled
		return nil
	}
}

// WithRuntimeConfig sets the wazero runtime configuration.
func WithRuntimeConfig(cfg wazero.RuntimeConfig) FunctionalOption {
	return func(c *Compiler) error {
		if cfg == nil {
			return fmt.Errorf("runtime config cannot be nil")
		}
		c.settings.RuntimeConfig = cfg
		return nil
	}
}

// WithHostFunctions registers host functions available to the module.
func WithHostFunctions(funcs []extismSDK.HostFunction) FunctionalOption {
	return func(c *Compiler) error {
		c.settings.HostFunctions = funcs
		return nil
	}
}

// WithLogHandler sets the log handler for the compiler.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(c *Compiler) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		c.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the compiler.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(c *Compiler) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		c.logHandler = nil
		return nil
	}
}

func (c *Compiler) applyDefaults() {
	if c.logHandler == nil && c.logger == nil {
		c.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	if c.entryPoint == "" {
		c.entryPoint = defaultEntryPoint
	}
	if c.settings == nil {
		c.settings = DefaultSettings()
	}
}

func (c *Compiler) validate() error {
	if c.logHandler == nil && c.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	if c.settings.RuntimeConfig == nil {
		return fmt.Errorf("runtime config must be specified")
	}
	return nil
}

func (c *Compiler) setupLogger() {
	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "extism", "Compiler")
	}
}
