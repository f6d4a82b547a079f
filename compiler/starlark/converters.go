package starlark

import (
	"fmt"
	"math"
	"sort"

	starlarkLib "go.starlark.net/starlark"
)

// toStarlarkValue converts JSON-shaped Go values to Starlark values.
func toStarlarkValue(v any) (starlarkLib.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlarkLib.None, nil
	case bool:
		return starlarkLib.Bool(val), nil
	case string:
		return starlarkLib.String(val), nil
	case int:
		return starlarkLib.MakeInt(val), nil
	case int64:
		return starlarkLib.MakeInt64(val), nil
	case float64:
		// JSON numbers arrive as float64; keep whole numbers as ints so that
		// line and column values can be used as indexes.
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return starlarkLib.MakeInt64(int64(val)), nil
		}
		return starlarkLib.Float(val), nil
	case []string:
		elems := make([]starlarkLib.Value, 0, len(val))
		for _, s := range val {
			elems = append(elems, starlarkLib.String(s))
		}
		return starlarkLib.NewList(elems), nil
	case []any:
		elems := make([]starlarkLib.Value, 0, len(val))
		for i, item := range val {
			sv, err := toStarlarkValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			elems = append(elems, sv)
		}
		return starlarkLib.NewList(elems), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		dict := starlarkLib.NewDict(len(val))
		for _, k := range keys {
			sv, err := toStarlarkValue(val[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			if err := dict.SetKey(starlarkLib.String(k), sv); err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported Go type %T", v)
	}
}

// fromStarlarkValue converts a Starlark value back into JSON-shaped Go values.
func fromStarlarkValue(v starlarkLib.Value) (any, error) {
	switch val := v.(type) {
	case nil, starlarkLib.NoneType:
		return nil, nil
	case starlarkLib.Bool:
		return bool(val), nil
	case starlarkLib.String:
		return string(val), nil
	case starlarkLib.Int:
		i, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", val)
		}
		return i, nil
	case starlarkLib.Float:
		return float64(val), nil
	case *starlarkLib.List:
		return iterableToSlice(val, val.Len())
	case starlarkLib.Tuple:
		return iterableToSlice(val, val.Len())
	case *starlarkLib.Dict:
		out := make(map[string]any, val.Len())
		for _, item := range val.Items() {
			k, ok := starlarkLib.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("dict key %s is not a string", item[0])
			}
			gv, err := fromStarlarkValue(item[1])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = gv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported Starlark type %s", v.Type())
	}
}

func iterableToSlice(it starlarkLib.Iterable, n int) ([]any, error) {
	out := make([]any, 0, n)
	iter := it.Iterate()
	defer iter.Done()

	var x starlarkLib.Value
	for iter.Next(&x) {
		gv, err := fromStarlarkValue(x)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", len(out), err)
		}
		out = append(out, gv)
	}
	return out, nil
}
