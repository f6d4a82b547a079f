package loader

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/internal/helpers"
	"github.com/robbyt/go-sfctemplate/options"
	"github.com/robbyt/go-sfctemplate/sfc"
)

// Option configures a Loader.
type Option func(*Loader) error

// WithConfig sets the loader configuration.
func WithConfig(cfg *options.Config) Option {
	return func(l *Loader) error {
		if cfg == nil {
			return fmt.Errorf("config cannot be nil")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		l.cfg = cfg
		return nil
	}
}

// WithDescriptorCache sets the cache the parser stage fills with descriptors.
func WithDescriptorCache(cache sfc.DescriptorCache) Option {
	return func(l *Loader) error {
		if cache == nil {
			return fmt.Errorf("descriptor cache cannot be nil")
		}
		l.cache = cache
		return nil
	}
}

// WithScriptResolver sets the source of script binding metadata.
func WithScriptResolver(s sfc.ScriptResolver) Option {
	return func(l *Loader) error {
		if s == nil {
			return fmt.Errorf("script resolver cannot be nil")
		}
		l.scripts = s
		return nil
	}
}

// WithRegistry sets the loader for compilers configured by module name.
func WithRegistry(r compiler.Loader) Option {
	return func(l *Loader) error {
		if r == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		l.registry = r
		return nil
	}
}

// WithCompiler sets the compiler used when the configuration names none.
func WithCompiler(c compiler.Compiler) Option {
	return func(l *Loader) error {
		if c == nil {
			return fmt.Errorf("compiler cannot be nil")
		}
		l.dispatch.Fallback = c
		return nil
	}
}

// WithColor enables or disables ANSI colors in formatted errors. By default
// colors are used when stderr is a terminal.
func WithColor(enabled bool) Option {
	return func(l *Loader) error {
		l.color = &enabled
		return nil
	}
}

// WithLogHandler sets the log handler for the loader.
func WithLogHandler(handler slog.Handler) Option {
	return func(l *Loader) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		l.logHandler = handler
		l.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the loader.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		l.logger = logger
		l.logHandler = nil
		return nil
	}
}

func (l *Loader) applyDefaults() {
	if l.logHandler == nil && l.logger == nil {
		l.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	if l.cfg == nil {
		l.cfg = options.DefaultConfig()
	}
	if l.color == nil {
		tty := isatty.IsTerminal(os.Stderr.Fd())
		l.color = &tty
	}
}

func (l *Loader) validate() error {
	if l.cache == nil {
		return fmt.Errorf("descriptor cache must be specified")
	}
	return nil
}

func (l *Loader) setupLogger() {
	if l.logger != nil {
		l.logHandler = l.logger.Handler()
		return
	}
	l.logHandler, l.logger = helpers.SetupLogger(l.logHandler, "loader", "Loader")
}
