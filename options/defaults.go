package options

// DefaultConfig returns a Config that uses the host compiler with no
// pass-through options.
func DefaultConfig() *Config {
	return &Config{
		CompilerOptions: map[string]any{},
	}
}

// WithDefaults fills in any unset values.
func WithDefaults() Option {
	return func(c *Config) error {
		if c.CompilerOptions == nil {
			c.CompilerOptions = map[string]any{}
		}
		return nil
	}
}
