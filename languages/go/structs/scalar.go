package structs

import (
	"fmt"

	"github.com/bearlytools/bitstruct/internal/binary"
	"github.com/bearlytools/bitstruct/internal/conversions"
	"github.com/bearlytools/bitstruct/languages/go/field"
)

type numKind uint8

const (
	nkUint8 numKind = iota
	nkUint16
	nkUint32
	nkInt8
	nkInt16
	nkInt32
	nkFloat32
	nkFloat64
)

// Scalar is a fixed width integer or float stored in a chosen byte order. Read values have the
// matching Go type (uint8, int16, float32, ...).
type Scalar struct {
	header
	num   numKind
	order binary.Order
}

func newScalar(name string, num numKind, order binary.Order) *Scalar {
	return &Scalar{header: header{name: name, n: num.size()}, num: num, order: order}
}

// size is the encoded size of the kind in bytes.
func (k numKind) size() int {
	switch k {
	case nkUint8:
		return binary.SizeOf[uint8]()
	case nkUint16:
		return binary.SizeOf[uint16]()
	case nkUint32:
		return binary.SizeOf[uint32]()
	case nkInt8:
		return binary.SizeOf[int8]()
	case nkInt16:
		return binary.SizeOf[int16]()
	case nkInt32:
		return binary.SizeOf[int32]()
	case nkFloat32:
		return binary.SizeOf[float32]()
	case nkFloat64:
		return binary.SizeOf[float64]()
	}
	return 0
}

// Uint8 is an unsigned 8 bit integer.
func Uint8(name string) *Scalar { return newScalar(name, nkUint8, binary.BE) }

// Uint16 is a big-endian unsigned 16 bit integer.
func Uint16(name string) *Scalar { return newScalar(name, nkUint16, binary.BE) }

// Uint32 is a big-endian unsigned 32 bit integer.
func Uint32(name string) *Scalar { return newScalar(name, nkUint32, binary.BE) }

// Uint16LE is a little-endian unsigned 16 bit integer.
func Uint16LE(name string) *Scalar { return newScalar(name, nkUint16, binary.LE) }

// Uint32LE is a little-endian unsigned 32 bit integer.
func Uint32LE(name string) *Scalar { return newScalar(name, nkUint32, binary.LE) }

// Int8 is a signed 8 bit integer.
func Int8(name string) *Scalar { return newScalar(name, nkInt8, binary.BE) }

// Int16 is a big-endian signed 16 bit integer.
func Int16(name string) *Scalar { return newScalar(name, nkInt16, binary.BE) }

// Int32 is a big-endian signed 32 bit integer.
func Int32(name string) *Scalar { return newScalar(name, nkInt32, binary.BE) }

// Int16LE is a little-endian signed 16 bit integer.
func Int16LE(name string) *Scalar { return newScalar(name, nkInt16, binary.LE) }

// Int32LE is a little-endian signed 32 bit integer.
func Int32LE(name string) *Scalar { return newScalar(name, nkInt32, binary.LE) }

// Float32 is a big-endian IEEE-754 single.
func Float32(name string) *Scalar { return newScalar(name, nkFloat32, binary.BE) }

// Float64 is a big-endian IEEE-754 double.
func Float64(name string) *Scalar { return newScalar(name, nkFloat64, binary.BE) }

// Float32LE is a little-endian IEEE-754 single.
func Float32LE(name string) *Scalar { return newScalar(name, nkFloat32, binary.LE) }

// Float64LE is a little-endian IEEE-754 double.
func Float64LE(name string) *Scalar { return newScalar(name, nkFloat64, binary.LE) }

// Kind implements Field.Kind().
func (s *Scalar) Kind() field.Kind {
	return field.KScalar
}

// LittleEndian reports if the scalar is stored least significant byte first.
// It is always false for 8 bit scalars.
func (s *Scalar) LittleEndian() bool {
	return s.n > 1 && s.order == binary.LE
}

// ReadValue implements Field.ReadValue().
func (s *Scalar) ReadValue(buf []byte, c *Cursor) (any, error) {
	b, err := s.span(buf, c)
	if err != nil {
		return nil, err
	}
	switch s.num {
	case nkUint8:
		return b[0], nil
	case nkUint16:
		return binary.Get[uint16](b, s.order), nil
	case nkUint32:
		return binary.Get[uint32](b, s.order), nil
	case nkInt8:
		return binary.Get[int8](b, s.order), nil
	case nkInt16:
		return binary.Get[int16](b, s.order), nil
	case nkInt32:
		return binary.Get[int32](b, s.order), nil
	case nkFloat32:
		return binary.Get[float32](b, s.order), nil
	case nkFloat64:
		return binary.Get[float64](b, s.order), nil
	}
	return nil, bug("field %q: unknown scalar kind %d", s.name, s.num)
}

// WriteValue implements Field.WriteValue().
func (s *Scalar) WriteValue(v any, buf []byte, c *Cursor) error {
	b, err := s.span(buf, c)
	if err != nil {
		return err
	}
	switch s.num {
	case nkUint8:
		return putInt[uint8](s, b, v)
	case nkUint16:
		return putInt[uint16](s, b, v)
	case nkUint32:
		return putInt[uint32](s, b, v)
	case nkInt8:
		return putInt[int8](s, b, v)
	case nkInt16:
		return putInt[int16](s, b, v)
	case nkInt32:
		return putInt[int32](s, b, v)
	case nkFloat32, nkFloat64:
		f, err := conversions.Float64(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", s.name, err)
		}
		if s.num == nkFloat32 {
			binary.Put(b, float32(f), s.order)
		} else {
			binary.Put(b, f, s.order)
		}
		return nil
	}
	return bug("field %q: unknown scalar kind %d", s.name, s.num)
}

func putInt[I uint8 | uint16 | uint32 | int8 | int16 | int32](s *Scalar, b []byte, v any) error {
	i, err := conversions.Integer[I](v)
	if err != nil {
		return fmt.Errorf("field %q: %w", s.name, err)
	}
	binary.Put(b, i, s.order)
	return nil
}
