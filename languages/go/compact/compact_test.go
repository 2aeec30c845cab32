package compact

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gostdlib/base/context"
	"github.com/kylelemons/godebug/pretty"

	"github.com/bearlytools/bitstruct/languages/go/errors"
)

func withHeader(recLen int, body ...byte) []byte {
	b := make([]byte, HeaderSize, HeaderSize+len(body))
	binary.LittleEndian.PutUint64(b[0:8], uint64(recLen))
	binary.LittleEndian.PutUint64(b[8:16], uint64(len(body)))
	return append(b, body...)
}

func TestCompactExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "Success: empty input", input: []byte{}},
		{name: "Success: single zero word", input: make([]byte, 8)},
		{name: "Success: one byte", input: []byte{0x42}},
		{name: "Success: partial last word", input: []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 7, 0}},
		{name: "Success: all non-zero", input: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{name: "Success: many zero words", input: make([]byte, 8*300)},
		{
			name: "Success: mixed zeros and data",
			input: func() []byte {
				b := make([]byte, 83)
				b[0] = 0x42
				b[16] = 0xFF
				b[17] = 0xFF
				b[32] = 0x01
				b[82] = 0x09
				return b
			}(),
		},
		{
			name:  "Success: long literal run",
			input: bytes.Repeat([]byte{0xAB}, 8*300+5),
		},
	}

	for _, test := range tests {
		ctx := t.Context()

		compacted, err := Compact(ctx, test.input)
		if err != nil {
			t.Errorf("[TestCompactExpand(%s)]: got err == %s, want err == nil", test.name, err)
			continue
		}
		defer compacted.Release(ctx)

		if got := RecordLen(compacted.Bytes()); got != len(test.input) {
			t.Errorf("[TestCompactExpand(%s)]: RecordLen() = %d, want %d", test.name, got, len(test.input))
		}
		if got, want := BodyLen(compacted.Bytes()), compacted.Len()-HeaderSize; got != want {
			t.Errorf("[TestCompactExpand(%s)]: BodyLen() = %d, want %d", test.name, got, want)
		}

		expanded, err := Expand(ctx, compacted.Bytes())
		if err != nil {
			t.Errorf("[TestCompactExpand(%s)]: Expand failed: %s", test.name, err)
			continue
		}
		defer expanded.Release(ctx)

		if diff := pretty.Compare(test.input, expanded.Bytes()); diff != "" {
			t.Errorf("[TestCompactExpand(%s)]: roundtrip mismatch (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestCompactBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{
			name:  "Padded single byte",
			input: []byte{0x42},
			want:  withHeader(1, 0x01, 0x42),
		},
		{
			name:  "Zero run",
			input: make([]byte, 16),
			want:  withHeader(16, 0x00, 0x01),
		},
		{
			name: "Copied run ends at a sparse word",
			input: []byte{
				1, 2, 3, 4, 5, 6, 7, 8,
				0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00,
				0, 0, 0, 0, 0, 0, 0, 0,
			},
			want: withHeader(24,
				0xFF, 1, 2, 3, 4, 5, 6, 7, 8, 0x01,
				0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00,
				0x00, 0x00,
			),
		},
		{
			name:  "Sparse word",
			input: []byte{0, 0x11, 0, 0, 0, 0, 0, 0x22},
			want:  withHeader(8, 0x82, 0x11, 0x22),
		},
	}

	for _, test := range tests {
		ctx := t.Context()

		got, err := Compact(ctx, test.input)
		if err != nil {
			t.Errorf("TestCompactBody(%s): got err == %s, want err == nil", test.name, err)
			continue
		}
		if !bytes.Equal(got.Bytes(), test.want) {
			t.Errorf("TestCompactBody(%s): got %x, want %x", test.name, got.Bytes(), test.want)
		}
		got.Release(ctx)
	}
}

func TestExpandErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "Short header", data: []byte{1, 2, 3}},
		{name: "Body longer than data", data: withHeader(8, 0x01)[:HeaderSize]},
		{name: "Word cut short", data: withHeader(8, 0x03, 0x42)},
		{name: "Zero run without count", data: withHeader(8, 0x00)},
		{name: "Zero run past record", data: withHeader(8, 0x00, 0x01)},
		{name: "Copied run cut short", data: withHeader(16, 0xFF, 1, 2, 3, 4, 5, 6, 7, 8, 0x01, 9)},
		{name: "Body too short for record", data: withHeader(16, 0x01, 0x42)},
		{name: "Non-zero padding", data: withHeader(1, 0x03, 0x42, 0x01)},
		{name: "Record too long for body", data: withHeader(1<<40, 0x00, 0xFF)},
	}

	for _, test := range tests {
		ctx := t.Context()

		got, err := Expand(ctx, test.data)
		if err == nil {
			got.Release(ctx)
			t.Errorf("TestExpandErrors(%s): got err == nil, want err != nil", test.name)
			continue
		}
		if !errors.Is(err, ErrShortHeader) && !errors.Is(err, ErrCorrupt) {
			t.Errorf("TestExpandErrors(%s): got err == %s, want ErrShortHeader or ErrCorrupt", test.name, err)
		}
	}
}

func TestRatio(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	if got := Ratio(nil); got != 0 {
		t.Errorf("TestRatio(nil): got %v, want 0", got)
	}

	got, err := Compact(ctx, make([]byte, 96))
	if err != nil {
		t.Fatal(err)
	}
	defer got.Release(ctx)

	// Header plus a zero word tag and its run count.
	want := float64(HeaderSize+2) / 96
	if r := Ratio(got.Bytes()); r != want {
		t.Errorf("TestRatio: got %v, want %v", r, want)
	}
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := Compact(ctx, []byte{1}); err == nil {
		t.Errorf("TestCanceled(Compact): got err == nil, want err != nil")
	}
	if _, err := Expand(ctx, withHeader(0)); err == nil {
		t.Errorf("TestCanceled(Expand): got err == nil, want err != nil")
	}
}

func BenchmarkCompact(b *testing.B) {
	rec := make([]byte, 96)
	for i := 0; i < len(rec); i += 5 {
		rec[i] = byte(i)
	}
	ctx := b.Context()

	b.ReportAllocs()
	for b.Loop() {
		buf, err := Compact(ctx, rec)
		if err != nil {
			b.Fatal(err)
		}
		buf.Release(ctx)
	}
}
