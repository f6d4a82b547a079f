package source

import "errors"

var (
	ErrSchemeUnsupported = errors.New("unsupported scheme")
	ErrNotAvailable      = errors.New("module not available")
	ErrInputEmpty        = errors.New("input is empty")
	ErrSourceNil         = errors.New("source is nil")
)
