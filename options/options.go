// Package options holds the loader configuration shared by every template
// compile request.
package options

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/robbyt/go-sfctemplate/compiler"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid loader configuration")

// Config holds the loader options recognized by the template loader.
type Config struct {
	// Compiler overrides the template compiler, either directly or by module name.
	Compiler compiler.Reference `yaml:"-"`

	// CompilerOptions are passed through to the compiler.
	CompilerOptions map[string]any `yaml:"compilerOptions,omitempty"`

	// TransformAssetURLs is a bool or an object. Unset and false both resolve
	// to true.
	TransformAssetURLs any `yaml:"transformAssetUrls,omitempty"`

	// IsServerBuild overrides the server flag inferred from the build target.
	IsServerBuild *bool `yaml:"isServerBuild,omitempty"`
}

// Option is a function that modifies Config
type Option func(*Config) error

// New creates a Config from the defaults and the given options.
func New(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithCompiler sets the compiler implementation used for every request.
func WithCompiler(c compiler.Compiler) Option {
	return func(cfg *Config) error {
		if c == nil {
			return fmt.Errorf("compiler cannot be nil")
		}
		cfg.Compiler = compiler.ImplRef(c)
		return nil
	}
}

// WithCompilerModule sets the name of a compiler module loaded per request.
func WithCompilerModule(module string) Option {
	return func(cfg *Config) error {
		module = strings.TrimSpace(module)
		if module == "" {
			return fmt.Errorf("compiler module cannot be empty")
		}
		cfg.Compiler = compiler.ModuleRef(module)
		return nil
	}
}

// WithCompilerOptions merges opts into the pass-through compiler options.
func WithCompilerOptions(opts map[string]any) Option {
	return func(cfg *Config) error {
		if cfg.CompilerOptions == nil {
			cfg.CompilerOptions = make(map[string]any, len(opts))
		}
		maps.Copy(cfg.CompilerOptions, opts)
		return nil
	}
}

// WithTransformAssetURLs sets the asset URL transform, a bool or an object.
func WithTransformAssetURLs(v any) Option {
	return func(cfg *Config) error {
		if err := checkTransformAssetURLs(v); err != nil {
			return err
		}
		cfg.TransformAssetURLs = v
		return nil
	}
}

// WithServerBuild forces the server flag regardless of the build target.
func WithServerBuild(isServer bool) Option {
	return func(cfg *Config) error {
		cfg.IsServerBuild = &isServer
		return nil
	}
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.Compiler.Impl != nil && strings.TrimSpace(c.Compiler.Module) != "" {
		return fmt.Errorf("%w: compiler sets both an implementation and a module", ErrInvalidConfig)
	}
	if err := checkTransformAssetURLs(c.TransformAssetURLs); err != nil {
		return err
	}
	return nil
}

// ServerBuild returns the server override, if one is set.
func (c *Config) ServerBuild() (bool, bool) {
	if c == nil || c.IsServerBuild == nil {
		return false, false
	}
	return *c.IsServerBuild, true
}

func (c *Config) String() string {
	return fmt.Sprintf("options.Config{Compiler: %s, CompilerOptions: %d}", c.Compiler, len(c.CompilerOptions))
}

func checkTransformAssetURLs(v any) error {
	switch v.(type) {
	case nil, bool, map[string]any:
		return nil
	default:
		return fmt.Errorf("%w: transformAssetUrls must be a bool or an object, got %T", ErrInvalidConfig, v)
	}
}
