// Package structjson converts structs Records to and from JSON, guided by the Struct that
// describes them. Object members are written in layout order and numbers are read back into
// the same Go types Unpack returns, so a Record survives a JSON round trip unchanged.
package structjson

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitstruct/internal/conversions"
	"github.com/bearlytools/bitstruct/languages/go/structs"
)

// marshalOptions provides options for writing Records as JSON.
type marshalOptions struct {
	Indent string
}

// MarshalOption provides options for marshaling Records to JSON.
type MarshalOption func(marshalOptions) (marshalOptions, error)

// WithIndent writes multi-line JSON, indenting each level with indent. indent may only
// contain spaces and tabs.
func WithIndent(indent string) MarshalOption {
	return func(m marshalOptions) (marshalOptions, error) {
		for _, r := range indent {
			if r != ' ' && r != '\t' {
				return m, fmt.Errorf("indent %q may only contain spaces and tabs", indent)
			}
		}
		m.Indent = indent
		return m, nil
	}
}

func (m marshalOptions) encoder(w io.Writer) *jsontext.Encoder {
	if m.Indent == "" {
		return jsontext.NewEncoder(w)
	}
	return jsontext.NewEncoder(w, jsontext.WithIndent(m.Indent))
}

func marshalOpts(options []MarshalOption) (marshalOptions, error) {
	opts := marshalOptions{}
	for _, opt := range options {
		var err error
		opts, err = opt(opts)
		if err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// Marshal returns rec, laid out by s, as a JSON object.
func Marshal(ctx context.Context, s *structs.Struct, rec structs.Record, options ...MarshalOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := MarshalWriter(ctx, s, rec, &buf, options...); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalWriter writes rec, laid out by s, as a JSON object to w.
func MarshalWriter(ctx context.Context, s *structs.Struct, rec structs.Record, w io.Writer, options ...MarshalOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts, err := marshalOpts(options)
	if err != nil {
		return err
	}
	enc := opts.encoder(w)
	return writeStruct(enc, s, rec)
}

func writeStruct(enc *jsontext.Encoder, s *structs.Struct, v any) error {
	rec, err := conversions.Map(v)
	if err != nil {
		return fmt.Errorf("struct %q: %w", s.Name(), err)
	}
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, name := range s.Names() {
		r, _ := s.Field(name)
		if err := enc.WriteToken(jsontext.String(name)); err != nil {
			return err
		}
		if err := writeValue(enc, r.Field, rec[name]); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	if s.Merges() {
		if err := writeMerged(enc, s, rec); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

// writeMerged writes the members an unnamed derived field merged into rec, sorted by name.
func writeMerged(enc *jsontext.Encoder, s *structs.Struct, rec map[string]any) error {
	for _, name := range slices.Sorted(maps.Keys(rec)) {
		if _, ok := s.Field(name); ok {
			continue
		}
		if err := enc.WriteToken(jsontext.String(name)); err != nil {
			return err
		}
		if err := json.MarshalEncode(enc, rec[name]); err != nil {
			return fmt.Errorf("member %q: %w", name, err)
		}
	}
	return nil
}

// writeValue writes the JSON value of v, which belongs to f.
func writeValue(enc *jsontext.Encoder, f structs.Field, v any) error {
	if v == nil {
		return enc.WriteToken(jsontext.Null)
	}

	switch x := f.(type) {
	case *structs.Struct:
		return writeStruct(enc, x, v)
	case *structs.Array:
		items, err := conversions.Slice(v)
		if err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for i, item := range items {
			if err := writeValue(enc, x.Elem(), item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case *structs.Blob:
		b, err := conversions.Bytes(v)
		if err != nil {
			return err
		}
		// Byte slices marshal as base64.
		return json.MarshalEncode(enc, b)
	case *structs.Text:
		str, err := conversions.String(v)
		if err != nil {
			return err
		}
		return enc.WriteToken(jsontext.String(str))
	case *structs.Derived:
		return json.MarshalEncode(enc, v)
	}
	return writeNumber(enc, v)
}

// writeNumber writes scalar and bitfield values.
func writeNumber(enc *jsontext.Encoder, v any) error {
	switch x := v.(type) {
	case bool:
		return enc.WriteToken(jsontext.Bool(x))
	case float32, float64:
		f, _ := conversions.Float64(x)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return enc.WriteToken(jsontext.Null)
		}
		return enc.WriteToken(jsontext.Float(f))
	}
	i, err := conversions.Int64(v)
	if err != nil {
		return err
	}
	return enc.WriteToken(jsontext.Int(i))
}

// Array is used to write out a JSON array of Records that share a layout.
type Array struct {
	writer  io.Writer
	s       *structs.Struct
	opts    marshalOptions
	written bool
}

// NewArray creates a new Array for streaming Records laid out by s to w.
func NewArray(w io.Writer, s *structs.Struct, options ...MarshalOption) (*Array, error) {
	opts, err := marshalOpts(options)
	if err != nil {
		return nil, err
	}
	return &Array{writer: w, s: s, opts: opts}, nil
}

// Write writes rec as the next element of the array.
func (a *Array) Write(ctx context.Context, rec structs.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sep := ","
	if !a.written {
		sep = "["
		a.written = true
	}
	if _, err := io.WriteString(a.writer, sep); err != nil {
		return err
	}

	// Each element gets its own encoder so the array brackets stay ours.
	var buf bytes.Buffer
	if err := writeStruct(a.opts.encoder(&buf), a.s, rec); err != nil {
		return err
	}
	_, err := a.writer.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// Close finishes writing the JSON array.
func (a *Array) Close() error {
	if !a.written {
		_, err := io.WriteString(a.writer, "[]")
		return err
	}
	_, err := io.WriteString(a.writer, "]")
	return err
}

// Reset resets the Array to write to a new io.Writer.
func (a *Array) Reset(w io.Writer) {
	a.written = false
	a.writer = w
}

// unmarshalOptions provides options for reading JSON into Records.
type unmarshalOptions struct {
	IgnoreUnknownFields bool
}

// UnmarshalOption provides options for unmarshaling JSON to a Record.
type UnmarshalOption func(unmarshalOptions) (unmarshalOptions, error)

// WithIgnoreUnknownFields configures whether JSON members the layout does not name are skipped
// instead of reported.
func WithIgnoreUnknownFields(ignore bool) UnmarshalOption {
	return func(u unmarshalOptions) (unmarshalOptions, error) {
		u.IgnoreUnknownFields = ignore
		return u, nil
	}
}

// Unmarshal parses a JSON object into a Record laid out by s.
func Unmarshal(ctx context.Context, s *structs.Struct, data []byte, options ...UnmarshalOption) (structs.Record, error) {
	return UnmarshalReader(ctx, s, bytes.NewReader(data), options...)
}

// UnmarshalReader parses a JSON object from r into a Record laid out by s. Numbers are
// stored as the Go types Unpack would return for their field, truncated the same way a
// Pack would truncate them. Derived fields receive whatever encoding/json style decoding into
// an any produces. When s.Merges(), members outside the layout are decoded the same way and
// kept, so the record can be packed through its unnamed derived fields.
func UnmarshalReader(ctx context.Context, s *structs.Struct, r io.Reader, options ...UnmarshalOption) (structs.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := unmarshalOptions{}
	for _, opt := range options {
		var err error
		opts, err = opt(opts)
		if err != nil {
			return nil, err
		}
	}

	d := decoder{dec: jsontext.NewDecoder(r), opts: opts}
	rec, err := d.readStruct(s)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type decoder struct {
	dec  *jsontext.Decoder
	opts unmarshalOptions
}

func (d decoder) expect(k jsontext.Kind) error {
	tok, err := d.dec.ReadToken()
	if err != nil {
		return err
	}
	if tok.Kind() != k {
		return fmt.Errorf("at offset %d: got %v, want %v", d.dec.InputOffset(), tok.Kind(), k)
	}
	return nil
}

func (d decoder) readStruct(s *structs.Struct) (structs.Record, error) {
	if err := d.expect('{'); err != nil {
		return nil, fmt.Errorf("struct %q: %w", s.Name(), err)
	}
	rec := structs.Record{}
	for d.dec.PeekKind() != '}' {
		tok, err := d.dec.ReadToken()
		if err != nil {
			return nil, err
		}
		name := tok.String()
		r, ok := s.Field(name)
		if !ok && s.Merges() {
			var v any
			if err := json.UnmarshalDecode(d.dec, &v); err != nil {
				return nil, fmt.Errorf("member %q: %w", name, err)
			}
			rec[name] = v
			continue
		}
		if !ok {
			if !d.opts.IgnoreUnknownFields {
				return nil, fmt.Errorf("struct %q has no field %q", s.Name(), name)
			}
			if err := d.dec.SkipValue(); err != nil {
				return nil, err
			}
			continue
		}
		v, err := d.readValue(r.Field)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		rec[name] = v
	}
	if err := d.expect('}'); err != nil {
		return nil, err
	}
	return rec, nil
}

func (d decoder) readValue(f structs.Field) (any, error) {
	if d.dec.PeekKind() == 'n' {
		_, err := d.dec.ReadToken()
		return nil, err
	}

	switch x := f.(type) {
	case *structs.Struct:
		return d.readStruct(x)
	case *structs.Array:
		if err := d.expect('['); err != nil {
			return nil, err
		}
		var items []any
		for d.dec.PeekKind() != ']' {
			v, err := d.readValue(x.Elem())
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", len(items), err)
			}
			items = append(items, v)
		}
		if err := d.expect(']'); err != nil {
			return nil, err
		}
		return items, nil
	case *structs.Blob:
		var b []byte
		if err := json.UnmarshalDecode(d.dec, &b); err != nil {
			return nil, err
		}
		return b, nil
	case *structs.Text:
		tok, err := d.dec.ReadToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind() != '"' {
			return nil, fmt.Errorf("got %v, want a string", tok.Kind())
		}
		return tok.String(), nil
	case *structs.Derived:
		var v any
		if err := json.UnmarshalDecode(d.dec, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return d.readNumber(f)
}

// readNumber reads a scalar or bitfield value and normalizes it by packing it into a scratch
// buffer and unpacking it again.
func (d decoder) readNumber(f structs.Field) (any, error) {
	tok, err := d.dec.ReadToken()
	if err != nil {
		return nil, err
	}
	var v any
	switch tok.Kind() {
	case '0':
		v = tok.Float()
	case 't', 'f':
		v = tok.Bool()
	default:
		return nil, fmt.Errorf("got %v, want a number or a bool", tok.Kind())
	}
	buf, err := structs.Pack(f, v, nil, nil)
	if err != nil {
		return nil, err
	}
	return structs.Unpack(f, buf, nil)
}
