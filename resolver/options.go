package resolver

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/internal/helpers"
	"github.com/robbyt/go-sfctemplate/sfc"
)

// Option configures a Resolver.
type Option func(*Resolver) error

// WithScriptResolver sets the source of script binding metadata.
func WithScriptResolver(s sfc.ScriptResolver) Option {
	return func(r *Resolver) error {
		if s == nil {
			return fmt.Errorf("script resolver cannot be nil")
		}
		r.scripts = s
		return nil
	}
}

// WithRegistry sets the loader used for compilers configured by module name.
func WithRegistry(l compiler.Loader) Option {
	return func(r *Resolver) error {
		if l == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		r.registry = l
		return nil
	}
}

// WithLogHandler sets the log handler for the resolver.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Resolver) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		r.logHandler = handler
		r.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		r.logger = logger
		r.logHandler = nil
		return nil
	}
}

type noScripts struct{}

func (noScripts) ResolvedScript(*sfc.Descriptor, bool) (*sfc.ResolvedScript, bool) {
	return nil, false
}

func (r *Resolver) applyDefaults() {
	if r.scripts == nil {
		r.scripts = noScripts{}
	}
}

func (r *Resolver) setupLogger() {
	if r.logger != nil {
		r.logHandler = r.logger.Handler()
		return
	}
	r.logHandler, r.logger = helpers.SetupLogger(r.logHandler, "resolver", "Resolver")
}
