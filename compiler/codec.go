package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wire format shared by out-of-process compiler backends: Options are sent as
// JSON and the backend answers with {code, map, tips, errors}, where each error
// is either a string or an object {message, code, loc}.
type wireResult struct {
	Code   string            `json:"code"`
	Map    *SourceMap        `json:"map"`
	Tips   []string          `json:"tips"`
	Errors []json.RawMessage `json:"errors"`
}

// EncodeOptions serializes opts for a backend. Options.Compiler is omitted.
func EncodeOptions(opts *Options) ([]byte, error) {
	if opts == nil {
		return nil, ErrOptionsNil
	}
	return json.Marshal(opts)
}

// OptionsToMap returns opts as generic JSON values.
func OptionsToMap(opts *Options) (map[string]any, error) {
	data, err := EncodeOptions(opts)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to convert options: %w", err)
	}
	return m, nil
}

// DecodeResult parses a backend answer.
func DecodeResult(data []byte) (*Result, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrInvalidResult)
	}

	var wire wireResult
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}

	res := &Result{
		Code: wire.Code,
		Map:  wire.Map,
		Tips: wire.Tips,
	}
	for i, raw := range wire.Errors {
		e, err := decodeError(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: errors[%d]: %w", ErrInvalidResult, i, err)
		}
		res.Errors = append(res.Errors, e)
	}
	return res, nil
}

func decodeError(raw json.RawMessage) (error, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("error entry is null")
	}
	if raw[0] == '"' {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return MessageError(msg), nil
	}

	var ce CompileError
	if err := json.Unmarshal(raw, &ce); err != nil {
		return nil, err
	}
	return &ce, nil
}
