package bitwise_test

import (
	"testing"

	"github.com/klang-rt/klang/bitwise"
)

func TestNewInvalidWidth(t *testing.T) {
	for _, w := range []int{0, -1, 33, 64} {
		if _, err := bitwise.New(w); err == nil {
			t.Errorf("New(%d) expected error, got nil", w)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	o, err := bitwise.New(8)
	if err != nil {
		t.Fatal(err)
	}
	inputs := []int64{0, 1, 255, 256, -1, -256, 1000, -1000}
	for _, v := range inputs {
		n1 := o.Normalize(v)
		n2 := o.Normalize(n1)
		if n1 != n2 {
			t.Errorf("Normalize(Normalize(%d)) = %d, want %d", v, n2, n1)
		}
		if n1 < 0 || n1 > o.MaxValue() {
			t.Errorf("Normalize(%d) = %d out of range [0,%d]", v, n1, o.MaxValue())
		}
	}
}

func TestLeftShiftMulConsistency(t *testing.T) {
	o, err := bitwise.New(8)
	if err != nil {
		t.Fatal(err)
	}
	for v := int64(0); v < 256; v += 17 {
		for n := 0; n < 8; n++ {
			got := o.LeftShift(v, n)
			want := (v * o.PowerOfTwo(n)) % 256
			if got != want {
				t.Errorf("LeftShift(%d,%d) = %d, want %d", v, n, got, want)
			}
		}
	}
}

func TestRightShiftDivConsistency(t *testing.T) {
	o, err := bitwise.New(8)
	if err != nil {
		t.Fatal(err)
	}
	for v := int64(0); v < 256; v += 13 {
		for n := 0; n < 8; n++ {
			got := o.RightShift(v, n)
			want := o.Normalize(v) / o.PowerOfTwo(n)
			if got != want {
				t.Errorf("RightShift(%d,%d) = %d, want %d", v, n, got, want)
			}
		}
	}
}

func TestShiftOutOfRangeReturnsZero(t *testing.T) {
	o, err := bitwise.New(8)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.LeftShift(5, 8); got != 0 {
		t.Errorf("LeftShift(5,8) = %d, want 0", got)
	}
	if got := o.RightShift(5, -1); got != 0 {
		t.Errorf("RightShift(5,-1) = %d, want 0", got)
	}
}

func TestAndOrXorNot(t *testing.T) {
	o, err := bitwise.New(8)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.And(0xF0, 0x3C); got != 0x30 {
		t.Errorf("And(0xF0,0x3C) = 0x%X, want 0x30", got)
	}
	if got := o.Or(0xF0, 0x0F); got != 0xFF {
		t.Errorf("Or(0xF0,0x0F) = 0x%X, want 0xFF", got)
	}
	if got := o.Xor(0xFF, 0x0F); got != 0xF0 {
		t.Errorf("Xor(0xFF,0x0F) = 0x%X, want 0xF0", got)
	}
	if got := o.Not(0x0F); got != 0xF0 {
		t.Errorf("Not(0x0F) = 0x%X, want 0xF0", got)
	}
}

func TestCreateMask(t *testing.T) {
	o, err := bitwise.New(8)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[int]int64{0: 0, 1: 1, 4: 0xF, 8: 0xFF, 9: 0xFF}
	for k, want := range cases {
		if got := o.CreateMask(k); got != want {
			t.Errorf("CreateMask(%d) = 0x%X, want 0x%X", k, got, want)
		}
	}
}

func TestRotateLeftRight(t *testing.T) {
	o, err := bitwise.New(8)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.RotateLeft(0x01, 1); got != 0x02 {
		t.Errorf("RotateLeft(0x01,1) = 0x%X, want 0x02", got)
	}
	if got := o.RotateLeft(0x80, 1); got != 0x01 {
		t.Errorf("RotateLeft(0x80,1) = 0x%X, want 0x01", got)
	}
	if got := o.RotateRight(0x01, 1); got != 0x80 {
		t.Errorf("RotateRight(0x01,1) = 0x%X, want 0x80", got)
	}
}

func TestToSigned(t *testing.T) {
	o, err := bitwise.New(8)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.ToSigned(0x7F); got != 127 {
		t.Errorf("ToSigned(0x7F) = %d, want 127", got)
	}
	if got := o.ToSigned(0x80); got != -128 {
		t.Errorf("ToSigned(0x80) = %d, want -128", got)
	}
	if got := o.ToSigned(0xFF); got != -1 {
		t.Errorf("ToSigned(0xFF) = %d, want -1", got)
	}
}
