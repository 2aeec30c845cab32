// Package binary wraps encoding/binary with generic getters and setters that take the byte
// order as a parameter, plus the truncated 32-bit word access used by bitfields.
package binary

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Order is a byte order. It is satisfied by binary.BigEndian and binary.LittleEndian.
type Order = binary.ByteOrder

var (
	// BE is big-endian byte order.
	BE Order = binary.BigEndian
	// LE is little-endian byte order.
	LE Order = binary.LittleEndian
)

// Number is any integer or float type up to 64 bits.
type Number interface {
	constraints.Integer | constraints.Float
}

// SizeOf returns the encoded size of T in bytes.
func SizeOf[T Number]() int {
	var r T
	switch any(r).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	case int64, uint64, float64:
		return 8
	}
	panic(fmt.Sprintf("unsupported type that passed the type constraint %T", r))
}

// Get decodes a T from the front of b using order o. b must hold at least SizeOf[T]() bytes.
func Get[T Number](b []byte, o Order) T {
	var r T // This is only used for type detection.
	switch any(r).(type) {
	case int8:
		return T(int8(b[0]))
	case uint8:
		return T(b[0])
	case int16:
		return T(int16(o.Uint16(b)))
	case uint16:
		return T(o.Uint16(b))
	case int32:
		return T(int32(o.Uint32(b)))
	case uint32:
		return T(o.Uint32(b))
	case int64:
		return T(int64(o.Uint64(b)))
	case uint64:
		return T(o.Uint64(b))
	case float32:
		return T(math.Float32frombits(o.Uint32(b)))
	case float64:
		return T(math.Float64frombits(o.Uint64(b)))
	}
	panic(fmt.Sprintf("unsupported type that passed the type constraint %T", r))
}

// Put encodes v into the front of b using order o. b must hold at least SizeOf[T]() bytes.
func Put[T Number](b []byte, v T, o Order) {
	switch x := any(v).(type) {
	case int8:
		b[0] = byte(x)
	case uint8:
		b[0] = x
	case int16:
		o.PutUint16(b, uint16(x))
	case uint16:
		o.PutUint16(b, x)
	case int32:
		o.PutUint32(b, uint32(x))
	case uint32:
		o.PutUint32(b, x)
	case int64:
		o.PutUint64(b, uint64(x))
	case uint64:
		o.PutUint64(b, x)
	case float32:
		o.PutUint32(b, math.Float32bits(x))
	case float64:
		o.PutUint64(b, math.Float64bits(x))
	default:
		panic(fmt.Sprintf("unsupported type that passed the type constraint %T", v))
	}
}

// ReadWordBE reads a big-endian 32 bit word starting at b[off]. If fewer than 4 bytes
// remain, the bytes that exist fill the high end of the word and the rest read as zero.
func ReadWordBE(b []byte, off int) uint32 {
	var w uint32
	for i := 0; i < 4; i++ {
		if off+i < 0 || off+i >= len(b) {
			break
		}
		w |= uint32(b[off+i]) << (24 - 8*i)
	}
	return w
}

// WriteWordBE writes w big-endian starting at b[off], writing only the bytes that exist
// in b. It is the mirror of ReadWordBE.
func WriteWordBE(b []byte, off int, w uint32) {
	for i := 0; i < 4; i++ {
		if off+i < 0 || off+i >= len(b) {
			return
		}
		b[off+i] = byte(w >> (24 - 8*i))
	}
}

// ReadWordLE reads a little-endian 32 bit word starting at b[off]. If fewer than 4 bytes
// remain, the bytes that exist fill the low end of the word and the rest read as zero.
func ReadWordLE(b []byte, off int) uint32 {
	var w uint32
	for i := 0; i < 4; i++ {
		if off+i < 0 || off+i >= len(b) {
			break
		}
		w |= uint32(b[off+i]) << (8 * i)
	}
	return w
}

// WriteWordLE writes w little-endian starting at b[off], writing only the bytes that exist
// in b. It is the mirror of ReadWordLE.
func WriteWordLE(b []byte, off int, w uint32) {
	for i := 0; i < 4; i++ {
		if off+i < 0 || off+i >= len(b) {
			return
		}
		b[off+i] = byte(w >> (8 * i))
	}
}
