package shift_test

import (
	"testing"

	"github.com/klang-rt/klang/shift"
)

func buildLimbs(n int) []uint16 {
	arr := make([]uint16, n)
	for i := range arr {
		arr[i] = uint16((i * 17) & 0xFFFF)
	}
	return arr
}

// naiveShl shifts a little-endian limb window left by s bits one bit at a
// time, used as the reference oracle for the vectorized three-pass form.
func naiveShl(limbs []uint16, from, length, s int, carryIn uint16) ([]uint16, uint16) {
	out := make([]uint16, length)
	copy(out, limbs[from:from+length])
	var carryOut uint16
	for b := 0; b < s; b++ {
		carry := (carryIn >> uint(s-1-b)) & 1
		for i := 0; i < length; i++ {
			bit := (out[i] >> 15) & 1
			out[i] = (out[i] << 1) | carry
			carry = bit
		}
		carryOut = carryOut<<1 | carry
	}
	return out, carryOut
}

func TestScenarioS7VectorEquivalence(t *testing.T) {
	arr1 := buildLimbs(32)
	arr2 := buildLimbs(32)

	carryOut, sticky, err := shift.Shl16LEInPlace(arr1, 0, 32, 9, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sticky {
		t.Errorf("left shift sticky should always be false")
	}

	want, wantCarry := naiveShl(arr2, 0, 32, 9, 0)
	for i := range want {
		if arr1[i] != want[i] {
			t.Errorf("limb %d = 0x%04X, want 0x%04X", i, arr1[i], want[i])
		}
	}
	if carryOut != wantCarry {
		t.Errorf("carryOut = 0x%X, want 0x%X", carryOut, wantCarry)
	}
}

func TestShl16LEInPlaceShortAndLongAgree(t *testing.T) {
	for _, length := range []int{1, 4, 7, 8, 16, 32} {
		short := buildLimbs(length)
		long := buildLimbs(length)

		// short: windows of at most 4 limbs (below VectorThreshold, so the
		// per-limb loop), chaining each window's carry into the next.
		c1 := uint16(3)
		for from := 0; from < length; from += 4 {
			n := length - from
			if n > 4 {
				n = 4
			}
			var err error
			c1, _, err = shift.Shl16LEInPlace(short, from, n, 5, c1)
			if err != nil {
				t.Fatal(err)
			}
		}
		// long: one call over the whole window (three-pass form from
		// VectorThreshold limbs up).
		c2, _, err := shift.Shl16LEInPlace(long, 0, length, 5, 3)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < length; i++ {
			if short[i] != long[i] {
				t.Errorf("length=%d limb %d mismatch: %04X vs %04X", length, i, short[i], long[i])
			}
		}
		if c1 != c2 {
			t.Errorf("length=%d carry mismatch: %X vs %X", length, c1, c2)
		}
	}
}

func TestRsh16LEInPlaceStickyAccumulates(t *testing.T) {
	limbs := []uint16{0x0003, 0x0000} // bits that will be dropped
	carryOut, sticky, err := shift.Rsh16LEInPlace(limbs, 0, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !sticky {
		t.Errorf("expected sticky=true since low 2 bits of limb 0 were dropped")
	}
	if carryOut != 3 {
		t.Errorf("carryOut = %d, want 3", carryOut)
	}
}

func TestInvalidShiftCount(t *testing.T) {
	limbs := []uint16{0, 0}
	if _, _, err := shift.Shl16LEInPlace(limbs, 0, 2, 16, 0); err == nil {
		t.Error("expected error for shift count 16")
	}
	if _, _, err := shift.Shl16LEInPlace(limbs, 0, 2, -1, 0); err == nil {
		t.Error("expected error for shift count -1")
	}
}

func TestShl16LEWordsInPlace(t *testing.T) {
	limbs := []uint16{1, 2, 3, 4}
	shift.Shl16LEWordsInPlace(limbs, 0, 4, 1)
	want := []uint16{2, 3, 4, 0}
	for i := range want {
		if limbs[i] != want[i] {
			t.Errorf("limb %d = %d, want %d", i, limbs[i], want[i])
		}
	}
}
