package structs

import (
	"fmt"

	"github.com/bearlytools/bitstruct/languages/go/errors"
)

// Cursor is the running position of a pack or unpack. Bits is always in 0..7.
type Cursor struct {
	Bytes int
	Bits  int
}

// Aligned reports if the cursor sits on a byte boundary.
func (c *Cursor) Aligned() bool {
	return c.Bits == 0
}

func (c *Cursor) addBits(w int) {
	c.Bits += w
	c.Bytes += c.Bits / 8
	c.Bits %= 8
}

// advance moves the cursor past something of extent e. Byte sized extents require
// an aligned cursor; name is used in the error if it is not.
func (c *Cursor) advance(e extent, name string) error {
	if e.bits {
		c.addBits(e.n)
		return nil
	}
	if c.Bits != 0 {
		return &errors.LayoutError{Reason: errors.MisalignedField, Field: name, Bytes: c.Bytes, Bits: c.Bits}
	}
	c.Bytes += e.n
	return nil
}

// skip moves past a resolved padding gap. Gaps are measured in bits whenever the cursor is
// inside a bit run, so skip never needs the alignment check.
func (c *Cursor) skip(e extent) {
	if e.bits {
		c.addBits(e.n)
		return
	}
	c.Bytes += e.n
}

// extent is the space something takes. n counts bits when bits is set, bytes otherwise.
type extent struct {
	n    int
	bits bool
}

func extentOf(f Field) extent {
	if f.IsBits() {
		return extent{n: f.Width(), bits: true}
	}
	return extent{n: f.Size()}
}

// Offset is where a field starts, relative to the start of the struct that holds it.
// Bits is only meaningful when IsBits is set.
type Offset struct {
	Bytes  int
	Bits   int
	IsBits bool
}

func (o Offset) String() string {
	if o.IsBits {
		return fmt.Sprintf("%d.%d", o.Bytes, o.Bits)
	}
	return fmt.Sprintf("%d", o.Bytes)
}

func offsetAt(c Cursor, isBits bool) Offset {
	if isBits {
		return Offset{Bytes: c.Bytes, Bits: c.Bits, IsBits: true}
	}
	return Offset{Bytes: c.Bytes}
}

// shift returns o moved by a whole number of bytes.
func (o Offset) shift(bytes int) Offset {
	o.Bytes += bytes
	return o
}
