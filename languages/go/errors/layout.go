package errors

import (
	"fmt"
)

// Reason says which layout rule a LayoutError broke.
type Reason uint8

const (
	// MisalignedField is a byte sized field placed while a bitfield run has leftover bits.
	MisalignedField Reason = iota + 1
	// MisalignedEnd is a struct whose bitfields do not end on a byte boundary.
	MisalignedEnd
	// PadTarget is a padding directive whose target was already passed.
	PadTarget
	// BitWidth is a bitfield wider than the maximum.
	BitWidth
)

// LayoutError is returned when a field tree cannot be laid out. Bytes and Bits are the
// position reached when the rule was broken.
type LayoutError struct {
	Reason Reason
	// Field is the name of the offending field or struct. May be empty for anonymous fields.
	Field string
	// Target is the requested byte offset for PadTarget or the requested width for BitWidth.
	Target int
	Bytes  int
	Bits   int
}

func (e *LayoutError) Error() string {
	switch e.Reason {
	case MisalignedField:
		return fmt.Sprintf("misaligned bitfield before field %q (at byte %d, bit %d)", e.Field, e.Bytes, e.Bits)
	case MisalignedEnd:
		return fmt.Sprintf("misaligned bitfield at end of struct %q (%d bytes and %d bits)", e.Field, e.Bytes, e.Bits)
	case PadTarget:
		extra := ""
		if e.Bits != 0 {
			extra = fmt.Sprintf(" and %d bits", e.Bits)
		}
		return fmt.Sprintf("invalid PadTo(%d): struct is already %d byte(s)%s", e.Target, e.Bytes, extra)
	case BitWidth:
		return fmt.Sprintf("bitfield %q: width %d is outside 1..24 bits", e.Field, e.Target)
	}
	return fmt.Sprintf("layout error in field %q", e.Field)
}

// UnsupportedFieldError is returned for a field descriptor that cannot be turned into a layout,
// such as an unknown type reference or a size that is not a constant.
type UnsupportedFieldError struct {
	Field  string
	Detail string
}

func (e *UnsupportedFieldError) Error() string {
	if e.Field == "" {
		return "unsupported field: " + e.Detail
	}
	return fmt.Sprintf("unsupported field %q: %s", e.Field, e.Detail)
}
