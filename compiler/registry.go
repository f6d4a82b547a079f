package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robbyt/go-sfctemplate/internal/helpers"
)

// Factory loads the compiler implementation stored at module.
type Factory func(ctx context.Context, module string) (Compiler, error)

type closer interface {
	Close(ctx context.Context) error
}

// Registry resolves compiler module names. Names registered with Register
// map to fixed implementations; any other name is loaded by the Factory
// registered for its file extension and cached by name for later lookups.
type Registry struct {
	mu         sync.RWMutex
	named      map[string]Compiler
	extensions map[string]Factory
	loaded     map[string]Compiler

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(handler slog.Handler) *Registry {
	handler, logger := helpers.SetupLogger(handler, "compiler", "Registry")
	return &Registry{
		named:      make(map[string]Compiler),
		extensions: make(map[string]Factory),
		loaded:     make(map[string]Compiler),
		logHandler: handler,
		logger:     logger,
	}
}

func (r *Registry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("compiler.Registry{Named: %d, Extensions: %d, Loaded: %d}",
		len(r.named), len(r.extensions), len(r.loaded))
}

// Register binds name to c.
func (r *Registry) Register(name string, c Compiler) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("compiler name is empty")
	}
	if c == nil {
		return fmt.Errorf("compiler %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.named[name] = c
	return nil
}

// RegisterExtension sets the factory for modules whose path ends in ext.
func (r *Registry) RegisterExtension(ext string, f Factory) error {
	ext = normalizeExt(ext)
	if ext == "" {
		return errors.New("extension is empty")
	}
	if f == nil {
		return fmt.Errorf("factory for %q is nil", ext)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extensions[ext] = f
	return nil
}

// Load implements Loader. A name that is neither registered nor handled by an
// extension factory yields a *ModuleNotFoundError.
func (r *Registry) Load(ctx context.Context, module string) (Compiler, error) {
	module = strings.TrimSpace(module)
	logger := r.logger.With("module", module)

	r.mu.RLock()
	c, ok := r.named[module]
	if !ok {
		c, ok = r.loaded[module]
	}
	factory := r.extensions[moduleExt(module)]
	r.mu.RUnlock()

	if ok {
		return c, nil
	}
	if module == "" || factory == nil {
		logger.WarnContext(ctx, "compiler module not found")
		return nil, &ModuleNotFoundError{Module: module}
	}

	logger.DebugContext(ctx, "loading compiler module")
	c, err := factory(ctx, module)
	if err != nil {
		logger.ErrorContext(ctx, "compiler module failed to load", "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrModuleLoad, module, err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s: factory returned nil", ErrModuleLoad, module)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.loaded[module]; ok {
		// another request loaded it first
		if cl, ok := c.(closer); ok {
			if err := cl.Close(ctx); err != nil {
				logger.WarnContext(ctx, "failed to close duplicate compiler", "error", err)
			}
		}
		return existing, nil
	}
	r.loaded[module] = c
	return c, nil
}

// Close releases every loaded module that holds resources.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errz []error
	for name, c := range r.loaded {
		if cl, ok := c.(closer); ok {
			if err := cl.Close(ctx); err != nil {
				errz = append(errz, fmt.Errorf("failed to close %s: %w", name, err))
			}
		}
		delete(r.loaded, name)
	}
	return errors.Join(errz...)
}

func moduleExt(module string) string {
	if u, err := url.Parse(module); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return normalizeExt(path.Ext(u.Path))
	}
	return normalizeExt(filepath.Ext(module))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
