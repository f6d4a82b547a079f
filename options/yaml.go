package options

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/robbyt/go-sfctemplate/compiler"
	"gopkg.in/yaml.v3"
)

// Validator is implemented by configuration types that check themselves
// after decoding.
type Validator interface {
	Validate() error
}

// fileConfig is the YAML shape of Config. A compiler can only be named by
// module in a file.
type fileConfig struct {
	Compiler           string         `yaml:"compiler,omitempty"`
	CompilerOptions    map[string]any `yaml:"compilerOptions,omitempty"`
	TransformAssetURLs any            `yaml:"transformAssetUrls,omitempty"`
	IsServerBuild      *bool          `yaml:"isServerBuild,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw fileConfig
	if err := node.Decode(&raw); err != nil {
		return err
	}
	c.Compiler = compiler.Reference{Module: raw.Compiler}
	c.CompilerOptions = raw.CompilerOptions
	c.TransformAssetURLs = raw.TransformAssetURLs
	c.IsServerBuild = raw.IsServerBuild
	return nil
}

// MarshalYAML implements yaml.Marshaler. A direct implementation has no file
// form and is omitted.
func (c Config) MarshalYAML() (any, error) {
	return fileConfig{
		Compiler:           c.Compiler.Module,
		CompilerOptions:    c.CompilerOptions,
		TransformAssetURLs: c.TransformAssetURLs,
		IsServerBuild:      c.IsServerBuild,
	}, nil
}

// LoadYAML loads any YAML configuration into target. If the target
// implements Validator, validation is called.
func LoadYAML[T any](path string, target *T) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read configuration file %q: %w", absPath, err)
	}
	return decodeYAML(data, target)
}

// LoadYAMLFromString loads YAML configuration from a string instead of a file.
func LoadYAMLFromString[T any](yamlContent string, target *T) error {
	return decodeYAML([]byte(yamlContent), target)
}

// LoadConfig reads a loader Config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := WithDefaults()(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAML[T any](data []byte, target *T) error {
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return nil
}
