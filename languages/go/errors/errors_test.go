package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestLayoutErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *LayoutError
		want string
	}{
		{
			name: "pad past bytes",
			err:  &LayoutError{Reason: PadTarget, Target: 3, Bytes: 4},
			want: "invalid PadTo(3): struct is already 4 byte(s)",
		},
		{
			name: "pad past bits",
			err:  &LayoutError{Reason: PadTarget, Target: 0, Bytes: 0, Bits: 3},
			want: "invalid PadTo(0): struct is already 0 byte(s) and 3 bits",
		},
		{
			name: "misaligned field",
			err:  &LayoutError{Reason: MisalignedField, Field: "shouldFail", Bits: 3},
			want: `misaligned bitfield before field "shouldFail"`,
		},
		{
			name: "misaligned end",
			err:  &LayoutError{Reason: MisalignedEnd, Field: "BrokenBitfield", Bits: 5},
			want: `misaligned bitfield at end of struct "BrokenBitfield"`,
		},
		{
			name: "width",
			err:  &LayoutError{Reason: BitWidth, Field: "tooBig", Target: 25},
			want: "width 25 is outside 1..24 bits",
		},
	}

	for _, test := range tests {
		if got := test.err.Error(); !strings.Contains(got, test.want) {
			t.Errorf("TestLayoutErrorMessages(%s): got %q, want it to contain %q", test.name, got, test.want)
		}
	}
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("building: %w", &LayoutError{Reason: MisalignedEnd})
	if got := TypeOf(wrapped); got != TypeLayout {
		t.Errorf("TestTypeOf(layout): got %s, want %s", got, TypeLayout)
	}
	unsupported := fmt.Errorf("building: %w", &UnsupportedFieldError{Field: "x", Detail: "nope"})
	if got := TypeOf(unsupported); got != TypeUnsupported {
		t.Errorf("TestTypeOf(unsupported): got %s, want %s", got, TypeUnsupported)
	}
	if got := TypeOf(New("plain")); got != TypeUnknown {
		t.Errorf("TestTypeOf(plain): got %s, want %s", got, TypeUnknown)
	}
}
