// Command guest is a minimal template compiler built as an Extism plugin:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o compiler.wasm .
//
// It only checks interpolation delimiters and wraps the template in a render
// function, which is enough to exercise the loader end to end.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/extism/go-pdk"
)

type position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

type location struct {
	Start position `json:"start"`
	End   position `json:"end"`
}

type compileError struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Loc     *location `json:"loc,omitempty"`
}

type options struct {
	ID              string         `json:"id"`
	Filename        string         `json:"filename"`
	Source          string         `json:"source"`
	Scoped          bool           `json:"scoped"`
	SSR             bool           `json:"ssr"`
	CompilerOptions map[string]any `json:"compilerOptions"`
}

type result struct {
	Code   string `json:"code"`
	Map    any    `json:"map"`
	Tips   []any  `json:"tips"`
	Errors []any  `json:"errors"`
}

const errMissingInterpolationEnd = 25

//go:wasmexport compile
func compile() int32 {
	var opts options
	if err := pdk.InputJSON(&opts); err != nil {
		pdk.SetError(err)
		return 1
	}

	res := doCompile(opts)
	if err := pdk.OutputJSON(res); err != nil {
		pdk.SetError(err)
		return 1
	}
	return 0
}

func doCompile(opts options) result {
	res := result{Tips: []any{}, Errors: []any{}}
	if strings.TrimSpace(opts.Source) == "" {
		res.Tips = append(res.Tips, fmt.Sprintf("%s: template is empty", opts.Filename))
	}

	src := opts.Source
	for offset := 0; ; {
		open := strings.Index(src[offset:], "{{")
		if open < 0 {
			break
		}
		start := offset + open
		end := strings.Index(src[start+2:], "}}")
		if end < 0 {
			res.Errors = append(res.Errors, compileError{
				Code:    errMissingInterpolationEnd,
				Message: "Interpolation end sign was not found.",
				Loc:     &location{Start: positionAt(src, start), End: positionAt(src, start+2)},
			})
			break
		}
		offset = start + 2 + end + 2
	}

	quoted, _ := json.Marshal(opts.Source)
	fn := "render"
	if opts.SSR {
		fn = "ssrRender"
	}
	res.Code = fmt.Sprintf("export function %s(_ctx, _cache) { return %s }", fn, quoted)
	if scopeID, ok := opts.CompilerOptions["scopeId"].(string); ok {
		res.Code += fmt.Sprintf("\nexport const __scopeId = %q", scopeID)
	}
	return res
}

func positionAt(src string, offset int) position {
	before := src[:offset]
	line := strings.Count(before, "\n") + 1
	column := offset - strings.LastIndex(before, "\n")
	return position{Line: line, Column: column, Offset: offset}
}

func main() {}
