package structs

import (
	"fmt"
	"maps"

	"github.com/bearlytools/bitstruct/internal/conversions"
	"github.com/bearlytools/bitstruct/languages/go/errors"
	"github.com/bearlytools/bitstruct/languages/go/field"
)

// Padding is a directive that moves the layout forward to an absolute byte offset within the
// struct. It is not a field and never appears in Fields().
type Padding struct {
	target int
}

func (Padding) element() {}

// PadTo returns a Padding that moves to byte offset n. If the layout is in the middle of a bit
// run, the gap is measured in bits.
func PadTo(n int) Padding {
	return Padding{target: n}
}

// Target is the byte offset the padding moves to.
func (p Padding) Target() int {
	return p.target
}

func (p Padding) resolve(c Cursor) (extent, error) {
	if c.Bits != 0 {
		w := 8*(p.target-c.Bytes) - c.Bits
		if w < 0 {
			return extent{}, &errors.LayoutError{Reason: errors.PadTarget, Target: p.target, Bytes: c.Bytes, Bits: c.Bits}
		}
		return extent{n: w, bits: true}, nil
	}
	n := p.target - c.Bytes
	if n < 0 {
		return extent{}, &errors.LayoutError{Reason: errors.PadTarget, Target: p.target, Bytes: c.Bytes}
	}
	return extent{n: n}, nil
}

// Resolved is a field together with where it sits in a struct.
type Resolved struct {
	Field
	Offset Offset
}

// member is one entry of a struct's layout in declaration order. Padding has a nil f.
type member struct {
	f   Field
	gap extent
}

// Struct is a composed record. It reads as a Record and writes from a Record or any map with
// string keys.
type Struct struct {
	header
	members []member
	fields  map[string]Resolved
	names   []string
	// merges is set when an unnamed derived field can add members to read records.
	merges bool
}

// NewStruct lays out elems in order and returns the composed struct. An empty name makes the
// struct anonymous: placed in another struct, its named fields are hoisted into the parent.
func NewStruct(name string, elems ...Element) (*Struct, error) {
	s := &Struct{
		header:  header{name: name},
		members: make([]member, 0, len(elems)),
		fields:  make(map[string]Resolved, len(elems)),
	}

	c := Cursor{}
	for i, e := range elems {
		switch x := e.(type) {
		case Padding:
			gap, err := x.resolve(c)
			if err != nil {
				return nil, err
			}
			s.members = append(s.members, member{gap: gap})
			c.skip(gap)
		case Field:
			if err := x.Err(); err != nil {
				return nil, fmt.Errorf("struct %q: %w", name, err)
			}
			s.place(x, c)
			if x.Name() == "" {
				switch sub := x.(type) {
				case *Derived:
					s.merges = true
				case *Struct:
					s.merges = s.merges || sub.merges
				}
			}
			if err := c.advance(extentOf(x), x.Name()); err != nil {
				return nil, err
			}
			s.members = append(s.members, member{f: x})
		default:
			return nil, fmt.Errorf("struct %q: element %d has unknown type %T", name, i, e)
		}
	}
	if c.Bits != 0 {
		return nil, &errors.LayoutError{Reason: errors.MisalignedEnd, Field: name, Bytes: c.Bytes, Bits: c.Bits}
	}
	s.n = c.Bytes
	return s, nil
}

// MustStruct is like NewStruct but panics on error. It is meant for package level layouts.
func MustStruct(name string, elems ...Element) *Struct {
	s, err := NewStruct(name, elems...)
	if err != nil {
		panic(err)
	}
	return s
}

// place records f, or the fields it hoists, at cursor c.
func (s *Struct) place(f Field, c Cursor) {
	if sub, ok := f.(*Struct); ok && sub.name == "" {
		for _, n := range sub.names {
			r := sub.fields[n]
			s.set(n, Resolved{Field: r.Field, Offset: r.Offset.shift(c.Bytes)})
		}
		return
	}
	if f.Name() != "" {
		s.set(f.Name(), Resolved{Field: f, Offset: offsetAt(c, f.IsBits())})
	}
}

// set adds r under name. A later field with the same name replaces the earlier one.
func (s *Struct) set(name string, r Resolved) {
	if _, ok := s.fields[name]; !ok {
		s.names = append(s.names, name)
	}
	s.fields[name] = r
}

// Kind implements Field.Kind().
func (s *Struct) Kind() field.Kind {
	return field.KStruct
}

// Fields returns the struct's named fields, including hoisted ones, keyed by name.
func (s *Struct) Fields() map[string]Resolved {
	return maps.Clone(s.fields)
}

// Field returns the named field.
func (s *Struct) Field(name string) (Resolved, bool) {
	r, ok := s.fields[name]
	return r, ok
}

// Merges reports whether read records can hold members that are not in Names(). They come from
// unnamed derived fields whose unpack returns a record.
func (s *Struct) Merges() bool {
	return s.merges
}

// Names returns the names in Fields() in the order they were first declared.
func (s *Struct) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Pack writes rec into buf at c. See the package level Pack for how nil buf and c are handled.
func (s *Struct) Pack(rec any, buf []byte, c *Cursor) ([]byte, error) {
	return Pack(s, rec, buf, c)
}

// Unpack reads a Record from buf at c. A nil c starts at byte 0.
func (s *Struct) Unpack(buf []byte, c *Cursor) (Record, error) {
	v, err := Unpack(s, buf, c)
	if err != nil {
		return nil, err
	}
	return v.(Record), nil
}

// ReadValue implements Field.ReadValue(). Unnamed members that read as a Record or any other map
// with string keys are merged into the result; other unnamed values are dropped.
func (s *Struct) ReadValue(buf []byte, c *Cursor) (any, error) {
	if !c.Aligned() {
		return nil, &errors.LayoutError{Reason: errors.MisalignedField, Field: s.name, Bytes: c.Bytes, Bits: c.Bits}
	}
	rec := make(Record, len(s.fields))
	for _, m := range s.members {
		if m.f == nil {
			c.skip(m.gap)
			continue
		}
		v, err := m.f.ReadValue(buf, c)
		if err != nil {
			return nil, err
		}
		if n := m.f.Name(); n != "" {
			rec[n] = v
			continue
		}
		if conversions.IsMap(v) {
			sub, _ := conversions.Map(v)
			maps.Copy(rec, sub)
		}
	}
	return rec, nil
}

// WriteValue implements Field.WriteValue(). Unnamed structs and derived fields receive the
// whole record; other unnamed fields write their default.
func (s *Struct) WriteValue(v any, buf []byte, c *Cursor) error {
	if !c.Aligned() {
		return &errors.LayoutError{Reason: errors.MisalignedField, Field: s.name, Bytes: c.Bytes, Bits: c.Bits}
	}
	rec, err := conversions.Map(v)
	if err != nil {
		return fmt.Errorf("struct %q: %w", s.name, err)
	}
	for _, m := range s.members {
		if m.f == nil {
			c.skip(m.gap)
			continue
		}
		var fv any
		switch n := m.f.Name(); {
		case n != "":
			fv = rec[n]
		case rec != nil && takesRecord(m.f):
			fv = rec
		}
		if err := m.f.WriteValue(fv, buf, c); err != nil {
			return err
		}
	}
	return nil
}

func takesRecord(f Field) bool {
	switch f.(type) {
	case *Struct, *Derived:
		return true
	}
	return false
}
