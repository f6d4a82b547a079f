package sfc

import "errors"

var (
	ErrDescriptorNotFound = errors.New("descriptor not found in cache")
	ErrDescriptorNil      = errors.New("descriptor is nil")
	ErrEmptyPath          = errors.New("resource path is empty")
)
