package compiler

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCompiler is a mock implementation of the Compiler interface.
type MockCompiler struct {
	mock.Mock
}

// Compile mocks the Compile method of the Compiler interface.
func (m *MockCompiler) Compile(ctx context.Context, opts *Options) (*Result, error) {
	args := m.Called(ctx, opts)
	res, ok := args.Get(0).(*Result)
	if !ok {
		return nil, args.Error(1)
	}
	return res, args.Error(1)
}
