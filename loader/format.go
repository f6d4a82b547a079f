package loader

import (
	"fmt"

	"github.com/mgutz/ansi"
	"github.com/robbyt/go-sfctemplate/codeframe"
	"github.com/robbyt/go-sfctemplate/compiler"
)

// Warning is a compiler tip reported on the warning channel.
type Warning string

func (w Warning) Error() string {
	return string(w)
}

// FormattedError is a located compiler error rendered with a code frame.
type FormattedError struct {
	Err     *compiler.CompileError
	File    string
	Message string
}

func (e *FormattedError) Error() string {
	return e.Message
}

func (e *FormattedError) Unwrap() error {
	return e.Err
}

type palette struct {
	red, gray, yellow func(string) string
}

func plain(s string) string { return s }

func newPalette(color bool) palette {
	if !color {
		return palette{red: plain, gray: plain, yellow: plain}
	}
	return palette{
		red:    ansi.ColorFunc("red"),
		gray:   ansi.ColorFunc("black+h"),
		yellow: ansi.ColorFunc("yellow"),
	}
}

// FormatError renders err against source, the text its location refers to.
// Errors without a location are returned with their message unchanged.
func FormatError(err *compiler.CompileError, source, file string, color bool) *FormattedError {
	if err == nil {
		return nil
	}
	if err.Loc == nil {
		return &FormattedError{Err: err, File: file, Message: err.Message}
	}

	p := newPalette(color)
	loc := err.Loc
	frame := codeframe.Generate(source, loc.Start.Offset, loc.End.Offset)
	msg := fmt.Sprintf("\n%s\n%s\n%s\n",
		p.red("VueCompilerError: "+err.Message),
		p.gray(fmt.Sprintf("at %s:%d:%d", file, loc.Start.Line, loc.Start.Column)),
		p.yellow(frame),
	)
	return &FormattedError{Err: err, File: file, Message: msg}
}
