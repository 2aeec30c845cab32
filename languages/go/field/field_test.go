package field

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KUnknown, "Unknown"},
		{KBitfield, "Bitfield"},
		{KDerived, "Derived"},
		{Kind(42), "Kind(42)"},
	}
	for _, test := range tests {
		if got := test.k.String(); got != test.want {
			t.Errorf("TestKindString(%d): got %q, want %q", test.k, got, test.want)
		}
	}
}

func TestIsBits(t *testing.T) {
	for k := KUnknown; k <= KDerived; k++ {
		if got := IsBits(k); got != (k == KBitfield) {
			t.Errorf("TestIsBits(%s): got %v", k, got)
		}
	}
}
