// Package conversions coerces the loosely typed values callers hand to field writers into the
// concrete shapes each codec stores. A nil value always converts to the zero value.
package conversions

import (
	"fmt"
	"math"
	"reflect"

	"github.com/bearlytools/bitstruct/languages/go/errors"
	"golang.org/x/exp/constraints"
)

// ErrType is returned when a value cannot be converted to the requested shape.
var ErrType = errors.New("value has the wrong type")

// Int64 converts integers, floats (truncated toward zero) and bools to an int64.
// Unsigned values above math.MaxInt64 wrap.
func Int64(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case uint32:
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, nil
		}
		return int64(f), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %T is not a number", ErrType, v)
}

// Float64 converts integers, floats and bools to a float64.
func Float64(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	}
	i, err := Int64(v)
	if err != nil {
		return 0, err
	}
	return float64(i), nil
}

// Integer converts v to the integer type I with Int64 semantics, keeping the low bits.
func Integer[I constraints.Integer](v any) (I, error) {
	i, err := Int64(v)
	if err != nil {
		return 0, err
	}
	return I(i), nil
}

// Bool reports the truthiness of v: non-zero numbers, true and non-empty strings are true.
func Bool(v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		return x != "", nil
	}
	f, err := Float64(v)
	if err != nil {
		return false, err
	}
	return f != 0 && !math.IsNaN(f), nil
}

// String converts strings, byte slices and fmt.Stringers to a string.
func String(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", fmt.Errorf("%w: %T is not a string", ErrType, v)
}

// Bytes converts byte slices, strings and sequences of numbers to a []byte. The result may
// alias v and must not be modified.
func Bytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	}
	items, err := Slice(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %T is not a byte sequence", ErrType, v)
	}
	b := make([]byte, len(items))
	for i, item := range items {
		n, err := Integer[uint8](item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		b[i] = n
	}
	return b, nil
}

// Slice converts any slice or array to a []any.
func Slice(v any) ([]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return x, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T is not a sequence", ErrType, v)
}

// Map converts a map with string keys to a map[string]any.
func Map(v any) (map[string]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return x, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T is not a record", ErrType, v)
}

// IsMap reports whether v has a shape Map accepts, excluding nil.
func IsMap(v any) bool {
	if v == nil {
		return false
	}
	_, err := Map(v)
	return err == nil
}
