package swar_test

import (
	"testing"

	"github.com/klang-rt/klang/swar"
)

func TestAddCarry(t *testing.T) {
	a := swar.FromUint64(0xFFFFFFFFFFFFFFFF)
	b := swar.FromUint64(1)
	sum, carry := swar.Add(a, b)
	if carry != 0 {
		t.Errorf("carry = %d, want 0 (sum still fits in 128 bits)", carry)
	}
	want := swar.FromUint64(0)
	want.Limbs[4] = 1 // 2^64
	if sum != want {
		t.Errorf("sum = %+v, want %+v", sum, want)
	}
}

func TestSubBorrow(t *testing.T) {
	a := swar.FromUint64(0)
	b := swar.FromUint64(1)
	diff, borrow := swar.Sub(a, b)
	if borrow != 1 {
		t.Errorf("borrow = %d, want 1", borrow)
	}
	for _, l := range diff.Limbs {
		if l != 0xFFFF {
			t.Errorf("diff limb = 0x%04X, want 0xFFFF (two's complement -1)", l)
		}
	}
}

func TestShiftLeftRightRoundTrip(t *testing.T) {
	a := swar.FromUint64(0x0123456789ABCDEF)
	for _, n := range []int{0, 1, 4, 15, 16, 17, 63, 64, 65, 100} {
		shifted, spill := swar.ShiftLeft(a, n)
		back, backSpill := swar.ShiftRight(shifted, n)
		if n < 64 && back != a {
			t.Errorf("n=%d: ShiftRight(ShiftLeft(a,n),n) = %+v, want %+v", n, back, a)
		}
		_ = spill
		_ = backSpill
	}
}

func TestShiftLeftByWholeLimb(t *testing.T) {
	a := swar.Value128{Limbs: [8]uint16{1, 0, 0, 0, 0, 0, 0, 0}}
	result, spill := swar.ShiftLeft(a, 16)
	want := swar.Value128{Limbs: [8]uint16{0, 1, 0, 0, 0, 0, 0, 0}}
	if result != want {
		t.Errorf("result = %+v, want %+v", result, want)
	}
	if !spill.IsZero() {
		t.Errorf("spill = %+v, want zero", spill)
	}
}

func TestShiftRightSpillCapturesDroppedBits(t *testing.T) {
	a := swar.Value128{Limbs: [8]uint16{0x0003, 0, 0, 0, 0, 0, 0, 0}}
	result, spill := swar.ShiftRight(a, 2)
	if result.Limbs[0] != 0 {
		t.Errorf("result low limb = 0x%04X, want 0", result.Limbs[0])
	}
	if spill.Limbs[0]&0x3 != 0x3 {
		t.Errorf("spill low bits = 0x%X, want 0x3", spill.Limbs[0]&0x3)
	}
}

func TestCompare(t *testing.T) {
	a := swar.FromUint64(5)
	b := swar.FromUint64(10)
	if swar.Compare(a, b) >= 0 {
		t.Error("Compare(5,10) should be negative")
	}
	if swar.Compare(b, a) <= 0 {
		t.Error("Compare(10,5) should be positive")
	}
	if swar.Compare(a, a) != 0 {
		t.Error("Compare(5,5) should be 0")
	}
}

func TestMulSmall(t *testing.T) {
	a := swar.FromUint64(0x10000) // 2^16
	product, carry := swar.MulSmall(a, 3)
	want := swar.FromUint64(0x30000)
	if product != want || carry != 0 {
		t.Errorf("product = %+v carry=%d, want %+v carry=0", product, carry, want)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	a := swar.FromUint64(0xDEADBEEFCAFEBABE)
	b := swar.FromBytes(a.Bytes())
	if a != b {
		t.Errorf("FromBytes(a.Bytes()) = %+v, want %+v", b, a)
	}
}
