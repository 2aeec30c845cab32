package binary

import (
	"bytes"
	"math"
	"testing"
)

func TestGetPut(t *testing.T) {
	b := make([]byte, 8)

	Put(b, uint16(0x1234), BE)
	if !bytes.Equal(b[:2], []byte{0x12, 0x34}) {
		t.Fatalf("TestGetPut(uint16 BE): got %x", b[:2])
	}
	if got := Get[uint16](b, BE); got != 0x1234 {
		t.Fatalf("TestGetPut(uint16 BE): got %#x, want 0x1234", got)
	}

	Put(b, int32(-2), LE)
	if !bytes.Equal(b[:4], []byte{0xFE, 0xFF, 0xFF, 0xFF}) {
		t.Fatalf("TestGetPut(int32 LE): got %x", b[:4])
	}
	if got := Get[int32](b, LE); got != -2 {
		t.Fatalf("TestGetPut(int32 LE): got %d, want -2", got)
	}

	Put(b, float64(math.Pi), BE)
	if got := Get[float64](b, BE); got != math.Pi {
		t.Fatalf("TestGetPut(float64 BE): got %v, want %v", got, math.Pi)
	}

	Put(b, float32(1.5), LE)
	if got := Get[float32](b, LE); got != 1.5 {
		t.Fatalf("TestGetPut(float32 LE): got %v, want 1.5", got)
	}

	Put(b, int8(-1), BE)
	if b[0] != 0xFF || Get[int8](b, LE) != -1 {
		t.Fatalf("TestGetPut(int8): got %x", b[0])
	}
}

func TestSizeOf(t *testing.T) {
	if SizeOf[uint8]() != 1 || SizeOf[int16]() != 2 || SizeOf[float32]() != 4 || SizeOf[float64]() != 8 {
		t.Fatalf("TestSizeOf: unexpected sizes")
	}
}

func TestTruncatedWords(t *testing.T) {
	tests := []struct {
		name   string
		buf    []byte
		off    int
		wantBE uint32
		wantLE uint32
	}{
		{"full", []byte{0x01, 0x02, 0x03, 0x04}, 0, 0x01020304, 0x04030201},
		{"three", []byte{0x01, 0x02, 0x03}, 0, 0x01020300, 0x00030201},
		{"two", []byte{0xAA, 0x01, 0x02}, 1, 0x01020000, 0x00000201},
		{"one", []byte{0x01}, 0, 0x01000000, 0x00000001},
		{"none", []byte{0x01}, 1, 0, 0},
		{"past end", []byte{0x01}, 5, 0, 0},
	}

	for _, test := range tests {
		if got := ReadWordBE(test.buf, test.off); got != test.wantBE {
			t.Errorf("TestTruncatedWords(%s): ReadWordBE got %#x, want %#x", test.name, got, test.wantBE)
		}
		if got := ReadWordLE(test.buf, test.off); got != test.wantLE {
			t.Errorf("TestTruncatedWords(%s): ReadWordLE got %#x, want %#x", test.name, got, test.wantLE)
		}
	}
}

func TestTruncatedWriteStaysInBuffer(t *testing.T) {
	backing := []byte{0, 0, 0, 0xEE, 0xEE}
	buf := backing[:3]

	WriteWordBE(buf, 1, 0xA1B2C3D4)
	if !bytes.Equal(backing, []byte{0, 0xA1, 0xB2, 0xEE, 0xEE}) {
		t.Fatalf("TestTruncatedWriteStaysInBuffer(BE): got %x", backing)
	}

	WriteWordLE(buf, 1, 0xA1B2C3D4)
	if !bytes.Equal(backing, []byte{0, 0xD4, 0xC3, 0xEE, 0xEE}) {
		t.Fatalf("TestTruncatedWriteStaysInBuffer(LE): got %x", backing)
	}
}
