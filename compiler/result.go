package compiler

import (
	"fmt"

	"github.com/robbyt/go-sfctemplate/sfc"
)

// Result is the output of a template compilation. Tips and Errors describe the
// template, they do not make the compilation itself fail.
type Result struct {
	Code   string
	Map    *SourceMap
	Tips   []string
	Errors []error
}

func (r *Result) String() string {
	return fmt.Sprintf("compiler.Result{Code: %d bytes, Tips: %d, Errors: %d}",
		len(r.Code), len(r.Tips), len(r.Errors))
}

// MessageError is a compiler error that carries only text.
type MessageError string

func (e MessageError) Error() string {
	return string(e)
}

// SourceLocation is a range in the template source.
type SourceLocation struct {
	Start  sfc.Position `json:"start"`
	End    sfc.Position `json:"end"`
	Source string       `json:"source,omitempty"`
}

// CompileError is a structured compiler error with an optional location.
type CompileError struct {
	Code    int             `json:"code,omitempty"`
	Message string          `json:"message"`
	Loc     *SourceLocation `json:"loc,omitempty"`
}

func (e *CompileError) Error() string {
	return e.Message
}
