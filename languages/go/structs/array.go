package structs

import (
	"fmt"

	"github.com/bearlytools/bitstruct/internal/conversions"
	"github.com/bearlytools/bitstruct/languages/go/field"
)

// Array repeats a field a fixed number of times. It takes the name and unit of the repeated
// field and reads as a []any of the field's values.
type Array struct {
	header
	elem  Field
	count int
}

// Repeat returns an Array of count copies of f. A negative count is treated as 0.
func Repeat(f Field, count int) *Array {
	count = max(count, 0)
	n := f.Size()
	if f.IsBits() {
		n = f.Width()
	}
	return &Array{
		header: header{name: f.Name(), n: n * count, bits: f.IsBits(), err: f.Err()},
		elem:   f,
		count:  count,
	}
}

// Kind implements Field.Kind().
func (a *Array) Kind() field.Kind {
	return field.KArray
}

// Elem returns the repeated field.
func (a *Array) Elem() Field {
	return a.elem
}

// Count returns the number of repetitions.
func (a *Array) Count() int {
	return a.count
}

// ReadValue implements Field.ReadValue().
func (a *Array) ReadValue(buf []byte, c *Cursor) (any, error) {
	out := make([]any, a.count)
	for i := range out {
		v, err := a.elem.ReadValue(buf, c)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", a.name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// WriteValue implements Field.WriteValue(). Slots past the end of v get the repeated field's
// default and values past the count are ignored.
func (a *Array) WriteValue(v any, buf []byte, c *Cursor) error {
	items, err := conversions.Slice(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", a.name, err)
	}
	for i := 0; i < a.count; i++ {
		var item any
		if i < len(items) {
			item = items[i]
		}
		if err := a.elem.WriteValue(item, buf, c); err != nil {
			return fmt.Errorf("%s[%d]: %w", a.name, i, err)
		}
	}
	return nil
}
