package adapters

import (
	"context"

	extismSDK "github.com/extism/go-sdk"
	"github.com/stretchr/testify/mock"
)

// MockCompiledPlugin is a testify mock of CompiledPlugin.
type MockCompiledPlugin struct {
	mock.Mock
}

func (m *MockCompiledPlugin) Instance(ctx context.Context, config extismSDK.PluginInstanceConfig) (PluginInstance, error) {
	args := m.Called(ctx, config)
	inst, ok := args.Get(0).(PluginInstance)
	if !ok {
		return nil, args.Error(1)
	}
	return inst, args.Error(1)
}

func (m *MockCompiledPlugin) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockPluginInstance is a testify mock of PluginInstance.
type MockPluginInstance struct {
	mock.Mock
}

func (m *MockPluginInstance) CallWithContext(ctx context.Context, name string, data []byte) (uint32, []byte, error) {
	args := m.Called(ctx, name, data)
	out, _ := args.Get(1).([]byte)
	return args.Get(0).(uint32), out, args.Error(2)
}

func (m *MockPluginInstance) FunctionExists(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockPluginInstance) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
