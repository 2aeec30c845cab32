package structs

import (
	"fmt"

	"github.com/bearlytools/bitstruct/languages/go/field"
)

// Transform maps a value from one representation to another.
type Transform func(v any) (any, error)

// Deriver makes named instances of a derived field.
type Deriver func(name string) *Derived

// Derived layers a pair of transforms over a base field. It has the base field's layout.
type Derived struct {
	header
	base   Field
	pack   Transform
	unpack Transform
}

// Derive returns a Deriver for fields that store values through base. pack converts a caller's
// value into one base accepts and unpack converts what base reads back. Either may be nil for the
// identity. A nil value written to a derived field skips pack and writes base's default.
func Derive(base Field, pack, unpack Transform) Deriver {
	return func(name string) *Derived {
		n := base.Size()
		if base.IsBits() {
			n = base.Width()
		}
		return &Derived{
			header: header{name: name, n: n, bits: base.IsBits(), err: base.Err()},
			base:   base,
			pack:   pack,
			unpack: unpack,
		}
	}
}

// Kind implements Field.Kind().
func (d *Derived) Kind() field.Kind {
	return field.KDerived
}

// Base returns the field the transforms wrap.
func (d *Derived) Base() Field {
	return d.base
}

// ReadValue implements Field.ReadValue().
func (d *Derived) ReadValue(buf []byte, c *Cursor) (any, error) {
	v, err := d.base.ReadValue(buf, c)
	if err != nil {
		return nil, err
	}
	if d.unpack == nil {
		return v, nil
	}
	out, err := d.unpack(v)
	if err != nil {
		return nil, fmt.Errorf("field %q: unpack: %w", d.name, err)
	}
	return out, nil
}

// WriteValue implements Field.WriteValue().
func (d *Derived) WriteValue(v any, buf []byte, c *Cursor) error {
	if v != nil && d.pack != nil {
		var err error
		if v, err = d.pack(v); err != nil {
			return fmt.Errorf("field %q: pack: %w", d.name, err)
		}
	}
	return d.base.WriteValue(v, buf, c)
}
