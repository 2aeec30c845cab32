package conversions

import (
	"errors"
	"math"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

type label string

func TestInt64(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		want    int64
		wantErr bool
	}{
		{name: "nil", v: nil, want: 0},
		{name: "int", v: 42, want: 42},
		{name: "int8", v: int8(-3), want: -3},
		{name: "uint16", v: uint16(0xFFFF), want: 0xFFFF},
		{name: "uint32", v: uint32(0xFFFFFFFF), want: 0xFFFFFFFF},
		{name: "float truncates", v: 3.9, want: 3},
		{name: "negative float truncates", v: -3.9, want: -3},
		{name: "NaN", v: math.NaN(), want: 0},
		{name: "bool", v: true, want: 1},
		{name: "string", v: "1", wantErr: true},
	}

	for _, test := range tests {
		got, err := Int64(test.v)
		switch {
		case err == nil && test.wantErr:
			t.Errorf("TestInt64(%s): got err == nil, want err != nil", test.name)
			continue
		case err != nil && !test.wantErr:
			t.Errorf("TestInt64(%s): got err == %s, want err == nil", test.name, err)
			continue
		case err != nil:
			if !errors.Is(err, ErrType) {
				t.Errorf("TestInt64(%s): got err %v, want ErrType", test.name, err)
			}
			continue
		}
		if got != test.want {
			t.Errorf("TestInt64(%s): got %d, want %d", test.name, got, test.want)
		}
	}
}

func TestInteger(t *testing.T) {
	got, err := Integer[uint8](0x1FF)
	if err != nil {
		t.Fatalf("TestInteger: unexpected error: %s", err)
	}
	if got != 0xFF {
		t.Fatalf("TestInteger: got %#x, want 0xff", got)
	}
}

func TestBool(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{true, true},
		{0, false},
		{uint8(2), true},
		{0.0, false},
		{"", false},
		{"x", true},
	}
	for _, test := range tests {
		got, err := Bool(test.v)
		if err != nil {
			t.Errorf("TestBool(%v): unexpected error: %s", test.v, err)
			continue
		}
		if got != test.want {
			t.Errorf("TestBool(%v): got %v, want %v", test.v, got, test.want)
		}
	}
}

func TestString(t *testing.T) {
	for _, v := range []any{"abc", []byte("abc"), label("abc")} {
		got, err := String(v)
		if err != nil {
			t.Errorf("TestString(%T): unexpected error: %s", v, err)
			continue
		}
		if got != "abc" {
			t.Errorf("TestString(%T): got %q, want %q", v, got, "abc")
		}
	}
	if _, err := String(12); err == nil {
		t.Errorf("TestString(int): got err == nil, want err != nil")
	}
}

func TestBytesAndSlice(t *testing.T) {
	got, err := Bytes([]int{1, 2, 0x103})
	if err != nil {
		t.Fatalf("TestBytesAndSlice: unexpected error: %s", err)
	}
	if diff := pretty.Compare([]byte{1, 2, 3}, got); diff != "" {
		t.Errorf("TestBytesAndSlice(Bytes): -want/+got:\n%s", diff)
	}

	items, err := Slice([2]string{"a", "b"})
	if err != nil {
		t.Fatalf("TestBytesAndSlice: unexpected error: %s", err)
	}
	if diff := pretty.Compare([]any{"a", "b"}, items); diff != "" {
		t.Errorf("TestBytesAndSlice(Slice): -want/+got:\n%s", diff)
	}

	if _, err := Slice(3); !errors.Is(err, ErrType) {
		t.Errorf("TestBytesAndSlice(Slice(3)): got %v, want ErrType", err)
	}
}

func TestMap(t *testing.T) {
	got, err := Map(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("TestMap: unexpected error: %s", err)
	}
	if diff := pretty.Compare(map[string]any{"a": 1}, got); diff != "" {
		t.Errorf("TestMap: -want/+got:\n%s", diff)
	}
	if IsMap(nil) || IsMap(3) || !IsMap(map[string]any{}) {
		t.Errorf("TestMap: IsMap gave the wrong answer")
	}
}
