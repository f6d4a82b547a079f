package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterfaceImplementation(t *testing.T) {
	var _ CompiledPlugin = (*sdkCompiledPlugin)(nil)
	var _ PluginInstance = (*sdkPlugin)(nil)
	var _ CompiledPlugin = (*MockCompiledPlugin)(nil)
	var _ PluginInstance = (*MockPluginInstance)(nil)
}

func TestNilPlugin(t *testing.T) {
	require.Nil(t, NewCompiledPluginAdapter(nil))
}

func TestNewPluginInstanceConfig(t *testing.T) {
	config := NewPluginInstanceConfig()
	require.NotNil(t, config.ModuleConfig)
}
