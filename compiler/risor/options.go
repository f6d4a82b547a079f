package risor

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/robbyt/go-sfctemplate/internal/helpers"
)

const (
	defaultEntryPoint = "compile"

	// optionsGlobal is the global holding the options of the current call.
	optionsGlobal = "__options"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FunctionalOption configures a Compiler.
type FunctionalOption func(*Compiler) error

// WithEntryPoint sets the name of the function called for each template.
func WithEntryPoint(name string) FunctionalOption {
	return func(c *Compiler) error {
		if !identifier.MatchString(name) {
			return fmt.Errorf("invalid entry point name: %q", name)
		}
		c.entryPoint = name
		return nil
	}
}

// WithFilename sets the name reported in log messages and String.
func WithFilename(name string) FunctionalOption {
	return func(c *Compiler) error {
		c.filename = name
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
	if c.filename == "" {
		c.filename = "compiler.risor"
	}
}

func (c *Compiler) validate() error {
	if c.logHandler == nil && c.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	return nil
}

func (c *Compiler) setupLogger() {
	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "risor", "Compiler")
	}
}
