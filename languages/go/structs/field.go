package structs

import (
	"fmt"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitstruct/languages/go/errors"
	"github.com/bearlytools/bitstruct/languages/go/field"
)

// ErrShortBuffer is returned when a byte sized field does not fit in the buffer. Bitfields
// never return it: they read missing bytes as zero and skip writing them.
var ErrShortBuffer = errors.New("buffer too short for field")

// ErrRange is returned when a signed bitfield is given a value its width cannot hold.
var ErrRange = errors.New("value out of range for field")

// bug reports a state the constructors never produce.
func bug(format string, args ...any) error {
	return errors.E(context.Background(), errors.CatInternal, errors.TypeBug, fmt.Errorf(format, args...), errors.WithCallNum(3))
}

// Record is the value of a struct: field name to field value.
type Record = map[string]any

// Element is anything NewStruct accepts: a Field or a Padding directive.
type Element interface {
	element()
}

// Field is one node of a layout. Implementations are *Scalar, *Bitfield, *Blob, *Text,
// *Array, *Derived and *Struct.
type Field interface {
	Element

	// Name is the field's name in its parent's Record. It may be empty.
	Name() string
	// Kind says which implementation this is.
	Kind() field.Kind
	// Size is the field's length in bytes. It is 0 for bit sized fields.
	Size() int
	// Width is the field's length in bits. It is 0 for byte sized fields.
	Width() int
	// IsBits reports if the field is measured by Width instead of Size.
	IsBits() bool
	// Err returns the error found when the field was constructed, if any. A field with an
	// error cannot be placed in a struct, packed or unpacked.
	Err() error

	// ReadValue decodes the field at c and advances c past it. c must not be nil; use
	// Unpack to start from a fresh cursor.
	ReadValue(buf []byte, c *Cursor) (any, error)
	// WriteValue encodes v at c and advances c past it. A nil v writes the field's default.
	// c must not be nil; use Pack to start from a fresh cursor.
	WriteValue(v any, buf []byte, c *Cursor) error
}

// header holds what every field kind has in common.
type header struct {
	name string
	// n is bytes, or bits when bits is set.
	n    int
	bits bool
	err  error
}

func (header) element() {}

func (h header) Name() string {
	return h.name
}

func (h header) Size() int {
	if h.bits {
		return 0
	}
	return h.n
}

func (h header) Width() int {
	if !h.bits {
		return 0
	}
	return h.n
}

func (h header) IsBits() bool {
	return h.bits
}

func (h header) Err() error {
	return h.err
}

// span checks the cursor is aligned and the field fits, advances the cursor and returns
// the field's bytes.
func (h header) span(buf []byte, c *Cursor) ([]byte, error) {
	start := c.Bytes
	if err := c.advance(extent{n: h.n}, h.name); err != nil {
		return nil, err
	}
	if start < 0 || start+h.n > len(buf) {
		return nil, fmt.Errorf("field %q at byte %d needs %d bytes, buffer has %d: %w", h.name, start, h.n, len(buf), ErrShortBuffer)
	}
	return buf[start : start+h.n], nil
}

func orNew(c *Cursor) *Cursor {
	if c == nil {
		return &Cursor{}
	}
	return c
}

// Pack writes v as f into buf at c and returns buf. If buf is nil, a zeroed buffer just large
// enough for f at c is allocated (exactly Size() bytes when c is nil). If c is nil, packing
// starts at byte 0.
func Pack(f Field, v any, buf []byte, c *Cursor) ([]byte, error) {
	if err := f.Err(); err != nil {
		return nil, err
	}
	c = orNew(c)
	if buf == nil {
		buf = make([]byte, allocSize(f, *c))
	}
	if err := f.WriteValue(v, buf, c); err != nil {
		return nil, err
	}
	return buf, nil
}

// Unpack reads f from buf at c. If c is nil, unpacking starts at byte 0.
func Unpack(f Field, buf []byte, c *Cursor) (any, error) {
	if err := f.Err(); err != nil {
		return nil, err
	}
	return f.ReadValue(buf, orNew(c))
}

func allocSize(f Field, c Cursor) int {
	if f.IsBits() {
		return c.Bytes + (c.Bits+f.Width()+7)/8
	}
	return c.Bytes + f.Size()
}
