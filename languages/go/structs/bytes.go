package structs

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/bearlytools/bitstruct/internal/conversions"
	"github.com/bearlytools/bitstruct/languages/go/field"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Blob is a fixed number of raw bytes. It reads as a []byte copy of the span.
type Blob struct {
	header
}

// Bytes is a blob of size bytes. Writes accept a []byte, a string or a sequence of numbers;
// short input is zero filled and long input is cut to size.
func Bytes(name string, size int) *Blob {
	return &Blob{header: header{name: name, n: max(size, 0)}}
}

// Kind implements Field.Kind().
func (b *Blob) Kind() field.Kind {
	return field.KBytes
}

// ReadValue implements Field.ReadValue().
func (b *Blob) ReadValue(buf []byte, c *Cursor) (any, error) {
	span, err := b.span(buf, c)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(span), nil
}

// WriteValue implements Field.WriteValue().
func (b *Blob) WriteValue(v any, buf []byte, c *Cursor) error {
	data, err := conversions.Bytes(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", b.name, err)
	}
	span, err := b.span(buf, c)
	if err != nil {
		return err
	}
	clear(span)
	copy(span, data)
	return nil
}

// Encoding is the character encoding of a Text field.
type Encoding uint8

const (
	// UTF8 stores text as UTF-8 bytes.
	UTF8 Encoding = iota
	// UTF16LE stores text as little-endian 16 bit code units.
	UTF16LE
	// UTF16BE stores text as big-endian 16 bit code units.
	UTF16BE
)

func (e Encoding) String() string {
	switch e {
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	}
	return "UTF-8"
}

// unit is the size of one code unit in bytes.
func (e Encoding) unit() int {
	if e == UTF8 {
		return 1
	}
	return 2
}

func (e Encoding) codec() encoding.Encoding {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF8
}

// Text is fixed size text. Reads stop at the first zero code unit. Writes zero the span and
// then store as many whole code units of the encoded string as fit.
type Text struct {
	header
	enc Encoding
}

func newText(name string, size int, enc Encoding) *Text {
	return &Text{header: header{name: name, n: max(size, 0)}, enc: enc}
}

// Char is UTF-8 text in size bytes.
func Char(name string, size int) *Text {
	return newText(name, size, UTF8)
}

// Char16LE is UTF-16LE text in size bytes.
func Char16LE(name string, size int) *Text {
	return newText(name, size, UTF16LE)
}

// Char16BE is UTF-16BE text in size bytes.
func Char16BE(name string, size int) *Text {
	return newText(name, size, UTF16BE)
}

// Kind implements Field.Kind().
func (t *Text) Kind() field.Kind {
	return field.KText
}

// Encoding returns the text encoding of the field.
func (t *Text) Encoding() Encoding {
	return t.enc
}

// ReadValue implements Field.ReadValue().
func (t *Text) ReadValue(buf []byte, c *Cursor) (any, error) {
	span, err := t.span(buf, c)
	if err != nil {
		return nil, err
	}
	u := t.enc.unit()
	end := len(span) - len(span)%u
	for i := 0; i < end; i += u {
		if span[i] == 0 && (u == 1 || span[i+1] == 0) {
			end = i
			break
		}
	}
	s, err := t.enc.codec().NewDecoder().Bytes(span[:end])
	if err != nil {
		return nil, fmt.Errorf("field %q: decoding %s: %w", t.name, t.enc, err)
	}
	return string(s), nil
}

// WriteValue implements Field.WriteValue().
func (t *Text) WriteValue(v any, buf []byte, c *Cursor) error {
	s, err := conversions.String(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", t.name, err)
	}
	span, err := t.span(buf, c)
	if err != nil {
		return err
	}
	enc, err := t.enc.codec().NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("field %q: encoding %s: %w", t.name, t.enc, err)
	}
	clear(span)
	copy(span, enc[:t.fit(enc, len(span))])
	return nil
}

// fit returns how many bytes of enc fit in size bytes without splitting a character. A UTF-8
// sequence or a UTF-16 surrogate pair is either written whole or left out.
func (t *Text) fit(enc []byte, size int) int {
	if len(enc) <= size {
		return len(enc)
	}
	n := size
	if t.enc == UTF8 {
		for n > 0 && !utf8.RuneStart(enc[n]) {
			n--
		}
		return n
	}
	n -= n % 2
	if n < 2 {
		return n
	}
	u := uint16(enc[n-2])<<8 | uint16(enc[n-1])
	if t.enc == UTF16LE {
		u = uint16(enc[n-1])<<8 | uint16(enc[n-2])
	}
	if utf16.IsSurrogate(rune(u)) && u < 0xDC00 {
		n -= 2
	}
	return n
}
