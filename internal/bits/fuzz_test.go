package bits

import (
	"testing"
)

// FuzzSetGetValue fuzzes the SetValue/GetValue round-trip.
func FuzzSetGetValue(f *testing.F) {
	// (value, start, end)
	f.Add(uint64(0), uint64(0), uint64(8))
	f.Add(uint64(255), uint64(0), uint64(8))
	f.Add(uint64(15), uint64(4), uint64(8))
	f.Add(uint64(1), uint64(0), uint64(1))
	f.Add(uint64(1), uint64(7), uint64(8))
	f.Add(uint64(0xFFFF), uint64(0), uint64(16))
	f.Add(uint64(0xFFFFFF), uint64(8), uint64(32))

	f.Fuzz(func(t *testing.T, val, start, end uint64) {
		if start >= end || end > 64 {
			return
		}
		width := end - start
		if width < 64 {
			val &= uint64(1)<<width - 1
		}

		store := SetValue(val, uint64(0), start, end)

		mask := Mask[uint64](start, end)
		retrieved := GetValue[uint64, uint64](store, mask, start)

		if retrieved != val {
			t.Errorf("FuzzSetGetValue: round-trip failed: got %d, want %d (start=%d, end=%d)", retrieved, val, start, end)
		}
		if store&^mask != 0 {
			t.Errorf("FuzzSetGetValue: bits outside [%d, %d) were set: %#x", start, end, store)
		}
	})
}

// FuzzSetGetBit32 fuzzes SetBit/GetBit with uint32.
func FuzzSetGetBit32(f *testing.F) {
	f.Add(uint32(0), uint8(0), true)
	f.Add(uint32(0), uint8(31), true)
	f.Add(uint32(0xFFFFFFFF), uint8(0), false)

	f.Fuzz(func(t *testing.T, store uint32, pos uint8, val bool) {
		if pos > 31 {
			return
		}

		newStore := SetBit(store, pos, val)
		if GetBit(newStore, pos) != val {
			t.Errorf("FuzzSetGetBit32: round-trip failed at pos %d", pos)
		}
		if newStore&^(1<<pos) != store&^(1<<pos) {
			t.Errorf("FuzzSetGetBit32: other bits changed: %#x -> %#x", store, newStore)
		}
	})
}
