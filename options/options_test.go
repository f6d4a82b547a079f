package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNew(t *testing.T) {
	t.Parallel()

	impl := new(compiler.MockCompiler)

	tests := []struct {
		name    string
		opts    []Option
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.True(t, cfg.Compiler.IsZero())
				assert.NotNil(t, cfg.CompilerOptions)
				assert.Nil(t, cfg.TransformAssetURLs)
				_, ok := cfg.ServerBuild()
				assert.False(t, ok)
			},
		},
		{
			name: "compiler implementation",
			opts: []Option{WithCompiler(impl)},
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Same(t, impl, cfg.Compiler.Impl)
			},
		},
		{
			name: "compiler module",
			opts: []Option{WithCompilerModule(" ./compiler.star ")},
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "./compiler.star", cfg.Compiler.Module)
			},
		},
		{
			name: "later compiler option wins",
			opts: []Option{WithCompilerModule("a.star"), WithCompiler(impl)},
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Same(t, impl, cfg.Compiler.Impl)
				assert.Empty(t, cfg.Compiler.Module)
			},
		},
		{
			name: "compiler options merge",
			opts: []Option{
				WithCompilerOptions(map[string]any{"whitespace": "condense"}),
				WithCompilerOptions(map[string]any{"comments": true}),
			},
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, map[string]any{"whitespace": "condense", "comments": true}, cfg.CompilerOptions)
			},
		},
		{
			name: "server override",
			opts: []Option{WithServerBuild(false)},
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				isServer, ok := cfg.ServerBuild()
				assert.True(t, ok)
				assert.False(t, isServer)
			},
		},
		{
			name: "transform asset urls object",
			opts: []Option{WithTransformAssetURLs(map[string]any{"img": []any{"src"}})},
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, map[string]any{"img": []any{"src"}}, cfg.TransformAssetURLs)
			},
		},
		{name: "nil compiler", opts: []Option{WithCompiler(nil)}, wantErr: true},
		{name: "empty module", opts: []Option{WithCompilerModule("  ")}, wantErr: true},
		{name: "bad transform asset urls", opts: []Option{WithTransformAssetURLs("yes")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := New(tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := &Config{Compiler: compiler.Reference{Impl: new(compiler.MockCompiler), Module: "x.star"}}
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = &Config{TransformAssetURLs: 1}
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	require.NoError(t, (&Config{TransformAssetURLs: false}).Validate())
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	require.NoError(t, WithDefaults()(cfg))
	require.NotNil(t, cfg.CompilerOptions)
}

func TestLoadYAMLFromString(t *testing.T) {
	t.Parallel()

	content := `
compiler: ./compilers/vue.star
compilerOptions:
  whitespace: preserve
transformAssetUrls:
  img: [src]
isServerBuild: true
`
	var cfg Config
	require.NoError(t, LoadYAMLFromString(content, &cfg))

	assert.Equal(t, "./compilers/vue.star", cfg.Compiler.Module)
	assert.Nil(t, cfg.Compiler.Impl)
	assert.Equal(t, map[string]any{"whitespace": "preserve"}, cfg.CompilerOptions)
	assert.Equal(t, map[string]any{"img": []any{"src"}}, cfg.TransformAssetURLs)
	isServer, ok := cfg.ServerBuild()
	assert.True(t, ok)
	assert.True(t, isServer)

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		var cfg Config
		require.Error(t, LoadYAMLFromString("compiler: [", &cfg))
	})

	t.Run("fails validation", func(t *testing.T) {
		t.Parallel()
		var cfg Config
		err := LoadYAMLFromString("transformAssetUrls: sometimes", &cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestConfig_MarshalYAML(t *testing.T) {
	t.Parallel()

	cfg, err := New(WithCompilerModule("compiler.wasm"), WithServerBuild(true))
	require.NoError(t, err)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, LoadYAMLFromString(string(out), &decoded))
	assert.Equal(t, "compiler.wasm", decoded.Compiler.Module)
	isServer, ok := decoded.ServerBuild()
	assert.True(t, ok)
	assert.True(t, isServer)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loader.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compiler: vue.star\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "vue.star", cfg.Compiler.Module)
	assert.NotNil(t, cfg.CompilerOptions)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
