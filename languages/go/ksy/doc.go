/*
Package ksy builds structs layouts from Kaitai Struct (KSY) YAML schemas.

Only the fixed-layout part of KSY is understood: bit integers (b1 .. b24, with an optional le
or be suffix), u1/s1/u2/s2/u4/s4/f4/f8 scalars, fixed size str/strz in UTF-8, ASCII, UTF-16LE or
UTF-16BE, fixed size byte blobs, user types and repeat: expr with a literal count.

	s, err := ksy.Build(ctx, schema, ksy.WithLogger(logger))
	if err != nil {
		// Unsupported constructs are *errors.UnsupportedFieldError.
	}
	rec, err := s.Unpack(data, nil)

Field ids are converted from snake_case to lowerCamelCase. A user type is built once per
document as an anonymous struct, stored in a TypeCache under its qualified KSY name (outer::inner
for nested types), and placed in each parent as a named struct holding it. Pass WithTypeCache to
share types between schemas: a schema may reference a type it does not declare when an earlier
build cached it. Types a schema declares itself are always built from that schema.

This package only calls the structs construction API. It does no bit arithmetic of its own.
*/
package ksy
