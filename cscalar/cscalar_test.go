package cscalar_test

import (
	"math"
	"testing"

	"github.com/klang-rt/klang/cscalar"
	"github.com/klang-rt/klang/heap"
)

func TestIntScalarsRoundTrip(t *testing.T) {
	h := heap.New(64)

	i8 := cscalar.Int8At(h, 0)
	if err := i8.Set(-5); err != nil {
		t.Fatal(err)
	}
	if v, err := i8.Get(); err != nil || v != -5 {
		t.Errorf("Int8Scalar.Get() = %v,%v, want -5,nil", v, err)
	}

	u32 := cscalar.UInt32At(h, 8)
	if err := u32.Set(0xCAFEBABE); err != nil {
		t.Fatal(err)
	}
	if v, err := u32.Get(); err != nil || v != 0xCAFEBABE {
		t.Errorf("UInt32Scalar.Get() = 0x%X,%v, want 0xCAFEBABE,nil", v, err)
	}

	i64 := cscalar.Int64At(h, 16)
	if err := i64.Set(-123456789012); err != nil {
		t.Fatal(err)
	}
	if v, err := i64.Get(); err != nil || v != -123456789012 {
		t.Errorf("Int64Scalar.Get() = %v,%v, want -123456789012,nil", v, err)
	}
}

func TestFloatScalarsStoreBitPatterns(t *testing.T) {
	h := heap.New(64)

	f32 := cscalar.Float32At(h, 0)
	bits := math.Float32bits(3.5)
	if err := f32.Set(bits); err != nil {
		t.Fatal(err)
	}
	if v, err := f32.Get(); err != nil || v != bits {
		t.Errorf("Float32Scalar.Get() = 0x%X,%v, want 0x%X,nil", v, err, bits)
	}

	f64 := cscalar.Float64At(h, 8)
	dbits := math.Float64bits(-2.25)
	if err := f64.Set(dbits); err != nil {
		t.Fatal(err)
	}
	if v, err := f64.Get(); err != nil || v != dbits {
		t.Errorf("Float64Scalar.Get() = 0x%X,%v, want 0x%X,nil", v, err, dbits)
	}
}

func TestScalarAddr(t *testing.T) {
	h := heap.New(32)
	s := cscalar.UInt16At(h, 20)
	if s.Addr() != 20 {
		t.Errorf("Addr() = %d, want 20", s.Addr())
	}
}
