/*
Package structs describes fixed-layout binary records and packs/unpacks them to and from byte
buffers with bit exact, endian aware semantics.

A layout is a tree of fields built bottom up. Leaves are scalars (Uint8, Int16LE, Float64, ...),
bitfields (Bool, UBit, UBitLE, SBit), byte blobs (Bytes) and fixed size text (Char, Char16LE,
Char16BE). Repeat turns any field into a fixed count array, Derive layers value transforms over
a field, and NewStruct composes an ordered list of fields and PadTo directives into a record:

	entry := structs.MustStruct("",
		structs.Char("filename", 8),
		structs.Char("extension", 3),
		structs.MustStruct("flags",
			structs.UBit("reserved", 2),
			structs.Bool("archive"),
			structs.Bool("directory"),
			structs.Bool("volume"),
			structs.Bool("system"),
			structs.Bool("hidden"),
			structs.Bool("readonly"),
		),
		structs.PadTo(32),
	)

	buf, err := entry.Pack(structs.Record{"filename": "autoexec", "extension": "bat"}, nil, nil)
	...
	rec, err := entry.Unpack(buf, nil)

Every read and write threads a Cursor: a byte offset plus a bit offset inside that byte.
Bitfields advance the bit offset and carry whole bytes; every other field must start on a byte
boundary.

Field definitions are immutable once built. NewStruct records where each child sits in a
Resolved value rather than on the child, so a field or struct can be placed in any number of
parents and used from any number of goroutines.

Structs without a name hoist their named children into the parent: the parent's Fields() lists
them with offsets relative to the parent, and their values are merged into the parent's Record.
*/
package structs
