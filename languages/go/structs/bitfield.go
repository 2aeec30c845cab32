package structs

import (
	"fmt"

	"github.com/bearlytools/bitstruct/internal/binary"
	"github.com/bearlytools/bitstruct/internal/bits"
	"github.com/bearlytools/bitstruct/internal/conversions"
	"github.com/bearlytools/bitstruct/languages/go/errors"
	"github.com/bearlytools/bitstruct/languages/go/field"
)

// MaxWidth is the widest bitfield allowed. With a starting bit offset of at most 7, a field this
// wide always fits in one 32 bit word.
const MaxWidth = 24

// BitOrder says how a bitfield sits in its bytes.
type BitOrder uint8

const (
	// BigBits reads a big-endian word and takes bits from the top down: the first field in a
	// run is the most significant bits of the first byte.
	BigBits BitOrder = iota
	// LittleBits reads a little-endian word and takes bits from the bottom up: the first field
	// in a run is the least significant bits of the first byte. This matches what little-endian
	// C compilers do with bitfields.
	LittleBits
)

func (o BitOrder) String() string {
	if o == LittleBits {
		return "LittleBits"
	}
	return "BigBits"
}

type bitKind uint8

const (
	bkUnsigned bitKind = iota
	bkSigned
	bkBool
)

// Bitfield is a 1 to MaxWidth bit field inside a run of bits. Unsigned fields read as uint32,
// signed fields as int32 and Bool fields as bool.
type Bitfield struct {
	header
	order BitOrder
	kind  bitKind
}

func newBitfield(name string, width int, order BitOrder, kind bitKind) *Bitfield {
	if width == 0 {
		width = 1
	}
	b := &Bitfield{header: header{name: name, n: width, bits: true}, order: order, kind: kind}
	if width < 0 || width > MaxWidth {
		b.err = &errors.LayoutError{Reason: errors.BitWidth, Field: name, Target: width}
	}
	return b
}

// Bool is a single bit flag. Writing true sets the bit.
func Bool(name string) *Bitfield {
	return newBitfield(name, 1, BigBits, bkBool)
}

// UBit is an unsigned bitfield in BigBits order. A width of 0 means 1.
func UBit(name string, width int) *Bitfield {
	return newBitfield(name, width, BigBits, bkUnsigned)
}

// UBitLE is an unsigned bitfield in LittleBits order. A width of 0 means 1.
func UBitLE(name string, width int) *Bitfield {
	return newBitfield(name, width, LittleBits, bkUnsigned)
}

// SBit is a signed bitfield in BigBits order. The top bit holds the sign and the rest hold the
// magnitude, so a field of width w holds -(2^(w-1)-1) through 2^(w-1)-1. Writing a value
// outside that range returns an error wrapping ErrRange.
func SBit(name string, width int) *Bitfield {
	return newBitfield(name, width, BigBits, bkSigned)
}

// Kind implements Field.Kind().
func (b *Bitfield) Kind() field.Kind {
	return field.KBitfield
}

// Order returns the bit order of the field.
func (b *Bitfield) Order() BitOrder {
	return b.order
}

// Signed reports if the field holds signed values.
func (b *Bitfield) Signed() bool {
	return b.kind == bkSigned
}

// window returns the bit range [start, end) the field occupies in the word at c.Bytes.
func (b *Bitfield) window(c *Cursor) (start, end uint64) {
	if b.order == LittleBits {
		start = uint64(c.Bits)
	} else {
		start = uint64(32 - (c.Bits + b.n))
	}
	return start, start + uint64(b.n)
}

func (b *Bitfield) readWord(buf []byte, off int) uint32 {
	if b.order == LittleBits {
		return binary.ReadWordLE(buf, off)
	}
	return binary.ReadWordBE(buf, off)
}

func (b *Bitfield) writeWord(buf []byte, off int, w uint32) {
	if b.order == LittleBits {
		binary.WriteWordLE(buf, off, w)
		return
	}
	binary.WriteWordBE(buf, off, w)
}

// ReadValue implements Field.ReadValue(). Bytes past the end of buf read as zero.
func (b *Bitfield) ReadValue(buf []byte, c *Cursor) (any, error) {
	if b.err != nil {
		return nil, b.err
	}
	start, end := b.window(c)
	word := b.readWord(buf, c.Bytes)
	c.addBits(b.n)

	if b.kind == bkBool {
		return bits.GetBit(word, uint8(start)), nil
	}
	raw := bits.GetValue[uint32, uint32](word, bits.Mask[uint32](start, end), start)
	if b.kind == bkSigned {
		sign := uint32(1) << (b.n - 1)
		if raw&sign != 0 {
			return -int32(raw &^ sign), nil
		}
		return int32(raw), nil
	}
	return raw, nil
}

// WriteValue implements Field.WriteValue(). Bytes past the end of buf are not written.
func (b *Bitfield) WriteValue(v any, buf []byte, c *Cursor) error {
	if b.err != nil {
		return b.err
	}
	start, end := b.window(c)
	w := b.readWord(buf, c.Bytes)
	if b.kind == bkBool {
		t, err := conversions.Bool(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", b.name, err)
		}
		w = bits.SetBit(w, uint8(start), t)
	} else {
		raw, err := b.encode(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", b.name, err)
		}
		w = bits.SetValue(raw, w, start, end)
	}
	b.writeWord(buf, c.Bytes, w)
	c.addBits(b.n)
	return nil
}

// encode converts v to the raw bit pattern of an unsigned or signed field. Unsigned bits above
// the width are dropped later. Signed values must fit the sign-magnitude range.
func (b *Bitfield) encode(v any) (uint32, error) {
	if b.kind != bkSigned {
		return conversions.Integer[uint32](v)
	}
	i, err := conversions.Int64(v)
	if err != nil {
		return 0, err
	}
	limit := int64(bits.LowMask[uint32](uint64(b.n - 1)))
	mag := i
	if i < 0 {
		mag = -i
	}
	if mag < 0 || mag > limit {
		return 0, fmt.Errorf("%w: %d does not fit in %d signed bits (-%d to %d)", ErrRange, i, b.n, limit, limit)
	}
	if i < 0 {
		return uint32(mag) | uint32(1)<<(b.n-1), nil
	}
	return uint32(mag), nil
}
