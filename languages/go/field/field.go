// Package field details the kinds of fields a layout is built from.
package field

import "strconv"

// Kind is the closed set of field kinds.
type Kind uint8

const (
	KUnknown  Kind = 0 // Unknown
	KScalar   Kind = 1 // Scalar
	KBitfield Kind = 2 // Bitfield
	KBytes    Kind = 3 // Bytes
	KText     Kind = 4 // Text
	KStruct   Kind = 5 // Struct
	KArray    Kind = 6 // Array
	KDerived  Kind = 7 // Derived
)

var kindNames = [...]string{
	KUnknown:  "Unknown",
	KScalar:   "Scalar",
	KBitfield: "Bitfield",
	KBytes:    "Bytes",
	KText:     "Text",
	KStruct:   "Struct",
	KArray:    "Array",
	KDerived:  "Derived",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsBits reports if fields of this kind are measured in bits rather than bytes. Arrays and
// derived fields take the unit of the field they wrap, so they report false here.
func IsBits(k Kind) bool {
	return k == KBitfield
}
