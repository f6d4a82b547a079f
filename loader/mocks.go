package loader

import (
	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/stretchr/testify/mock"
)

// MockContext is a mock implementation of the Context interface.
type MockContext struct {
	mock.Mock
}

func (m *MockContext) ResourcePath() string {
	return m.Called().String(0)
}

func (m *MockContext) ResourceQuery() string {
	return m.Called().String(0)
}

func (m *MockContext) Mode() string {
	return m.Called().String(0)
}

func (m *MockContext) Target() string {
	return m.Called().String(0)
}

func (m *MockContext) EmitWarning(err error) {
	m.Called(err)
}

func (m *MockContext) EmitError(err error) {
	m.Called(err)
}

func (m *MockContext) Callback(err error, code string, sm *compiler.SourceMap) {
	m.Called(err, code, sm)
}

// NewMockContext returns a MockContext for a request on path with query that
// accepts any diagnostics and one callback.
func NewMockContext(path, query, mode, target string) *MockContext {
	m := new(MockContext)
	m.On("ResourcePath").Return(path)
	m.On("ResourceQuery").Return(query)
	m.On("Mode").Return(mode)
	m.On("Target").Return(target)
	m.On("EmitWarning", mock.Anything).Return()
	m.On("EmitError", mock.Anything).Return()
	m.On("Callback", mock.Anything, mock.Anything, mock.Anything).Return().Once()
	return m
}

// Emitted returns the methods called on m that report results, in call order.
func (m *MockContext) Emitted() []mock.Call {
	var calls []mock.Call
	for _, c := range m.Calls {
		switch c.Method {
		case "EmitWarning", "EmitError", "Callback":
			calls = append(calls, c)
		}
	}
	return calls
}
