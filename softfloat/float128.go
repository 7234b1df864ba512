package softfloat

import "github.com/klang-rt/klang/swar"

// Float128 bit-layout (spec.md §4.5, §6): 8 little-endian 16-bit limbs.
// Limb 7 holds the sign bit (bit 15) and the 15-bit exponent (bits 0..14);
// limbs 0..6 hold the 112-bit mantissa, little-endian.
type Float128 struct {
	Limbs [8]uint16
}

const (
	ExpBits128  = 15
	FracBits128 = 112
	ExpBias128  = 16383
	ExpMax128   = 0x7FFF
)

func sign128(f Float128) bool { return f.Limbs[7]&0x8000 != 0 }
func exp128(f Float128) int32 { return int32(f.Limbs[7] & 0x7FFF) }

func fracIsZero128(f Float128) bool {
	for i := 0; i < 7; i++ {
		if f.Limbs[i] != 0 {
			return false
		}
	}
	return true
}

// IsZero128 reports whether f encodes +/-zero.
func IsZero128(f Float128) bool {
	if exp128(f) != 0 {
		return false
	}
	for i := 0; i < 7; i++ {
		if f.Limbs[i] != 0 {
			return false
		}
	}
	return f.Limbs[7]&0x4000 == 0
}

// IsInf128 reports whether f encodes +/-infinity.
func IsInf128(f Float128) bool {
	if exp128(f) != ExpMax128 {
		return false
	}
	for i := 0; i < 7; i++ {
		if f.Limbs[i] != 0 {
			return false
		}
	}
	return true
}

// IsNaN128 reports whether f encodes a NaN.
func IsNaN128(f Float128) bool {
	if exp128(f) != ExpMax128 {
		return false
	}
	for i := 0; i < 7; i++ {
		if f.Limbs[i] != 0 {
			return true
		}
	}
	return false
}

// IsNegative128 reports whether the sign bit is set.
func IsNegative128(f Float128) bool { return sign128(f) }

// QuietNaN128 returns the canonical quiet NaN (spec.md §4.5: quiet NaN with
// the top mantissa bit set).
func QuietNaN128() Float128 {
	return Float128{Limbs: [8]uint16{0, 0, 0, 0, 0, 0, 0x8000, ExpMax128}}
}

// NegateBits128 flips the sign bit.
func NegateBits128(f Float128) Float128 {
	f.Limbs[7] ^= 0x8000
	return f
}

// AbsBits128 clears the sign bit.
func AbsBits128(f Float128) Float128 {
	f.Limbs[7] &^= 0x8000
	return f
}

// CopySignBits128 returns the magnitude of a with the sign of b.
func CopySignBits128(a, b Float128) Float128 {
	a.Limbs[7] = (a.Limbs[7] &^ 0x8000) | (b.Limbs[7] & 0x8000)
	return a
}

// mantissaLimbs returns the 112-bit mantissa as a swar.Value128 (limbs 0..6
// copied in, limb 7 zero), with the implicit bit set at bit 112 (limb 7 bit
// 0) for normal numbers.
func mantissaLimbs(f Float128) swar.Value128 {
	var v swar.Value128
	copy(v.Limbs[0:7], f.Limbs[0:7])
	if exp128(f) != 0 {
		v.Limbs[7] = 1 // implicit bit at position 112
	}
	return v
}

// EqualBits128 reports bit-pattern equality (not IEEE equality — NaNs are
// never IEEE-equal to anything, callers needing that semantics should check
// IsNaN128 first).
func EqualBits128(a, b Float128) bool {
	return a.Limbs == b.Limbs
}

// CompareBits128 orders two non-NaN Float128 values as IEEE-754 <= would,
// treating -0 == +0.
func CompareBits128(a, b Float128) int {
	aNeg, bNeg := sign128(a), sign128(b)
	if IsZero128(a) && IsZero128(b) {
		return 0
	}
	if aNeg != bNeg {
		if aNeg {
			return -1
		}
		return 1
	}
	magA, magB := mantissaLimbs(a), mantissaLimbs(b)
	expCmp := exp128(a) - exp128(b)
	var cmp int
	switch {
	case expCmp < 0:
		cmp = -1
	case expCmp > 0:
		cmp = 1
	default:
		cmp = swar.Compare(magA, magB)
	}
	if aNeg {
		cmp = -cmp
	}
	return cmp
}

// Float128FromFloat64Bits widens a binary64 bit pattern into Float128,
// exactly (every binary64 value is exactly representable in binary128).
// Extended-precision types compose the narrower kernels rather than
// reimplementing rounding from scratch (spec.md §9 Non-goals), so Mul/Div/
// Sqrt below round-trip through binary64.
func Float128FromFloat64Bits(bits uint64) Float128 {
	var f Float128
	if IsNaN64(bits) {
		nf := QuietNaN128()
		if IsNegative64(bits) {
			nf.Limbs[7] |= 0x8000
		}
		return nf
	}
	neg := IsNegative64(bits)
	if IsZero64(bits) {
		if neg {
			f.Limbs[7] = 0x8000
		}
		return f
	}
	if IsInf64(bits) {
		f.Limbs[7] = ExpMax128
		if neg {
			f.Limbs[7] |= 0x8000
		}
		return f
	}

	mant, exp := significand64(bits) // up to 53-bit mantissa, unbiased exp
	// Binary64 subnormals are normal in binary128's much wider exponent
	// range: renormalize so bit 52 (the implicit bit) is set before
	// widening, the way any subnormal-to-wider-format promotion must.
	for mant&ImplicitBit64 == 0 {
		mant <<= 1
		exp--
	}
	// Place the 53-bit mantissa (minus implicit bit) left-aligned into the
	// 112-bit field: shift left by 112-52=60 bits.
	frac := mant &^ ImplicitBit64 // 52 fraction bits
	shifted, _ := swar.ShiftLeft(swar.FromUint64(frac), 112-52)

	f.Limbs[0] = shifted.Limbs[0]
	f.Limbs[1] = shifted.Limbs[1]
	f.Limbs[2] = shifted.Limbs[2]
	f.Limbs[3] = shifted.Limbs[3]
	f.Limbs[4] = shifted.Limbs[4]
	f.Limbs[5] = shifted.Limbs[5]
	f.Limbs[6] = shifted.Limbs[6]
	f.Limbs[7] = uint16(exp+ExpBias128) & 0x7FFF
	if neg {
		f.Limbs[7] |= 0x8000
	}
	return f
}

// ToFloat64Bits narrows f to the nearest binary64 bit pattern (lossy: drops
// mantissa bits beyond 52, rounding to nearest even).
func ToFloat64Bits(f Float128) uint64 {
	if IsNaN128(f) {
		if sign128(f) {
			return QuietNaN64 | SignMask64
		}
		return QuietNaN64
	}
	neg := sign128(f)
	if IsZero128(f) {
		if neg {
			return SignMask64
		}
		return 0
	}
	if IsInf128(f) {
		if neg {
			return infBits64(SignMask64)
		}
		return infBits64(0)
	}

	e := exp128(f) - ExpBias128

	// Top 53 bits (implicit + 52 fraction) of the 112-bit mantissa become
	// the float64 significand; the dropped 60 bits split into one guard
	// bit (the highest dropped bit) and a sticky OR of the rest.
	const dropBits = FracBits128 - 52
	mantWide := mantissaLimbs(f) // implicit bit at bit 112 (limb7 bit0) when normal
	shifted, spill := swar.ShiftRight(mantWide, dropBits)
	fracBits := uint64(0)
	for i := 3; i >= 0; i-- {
		fracBits = fracBits<<16 | uint64(shifted.Limbs[i])
	}

	guardLimb, guardBitInLimb := (dropBits-1)/16, uint((dropBits-1)%16)
	guard := uint64((spill.Limbs[guardLimb] >> guardBitInLimb) & 1)
	sticky := uint64(0)
	if spill.Limbs[guardLimb]&((1<<guardBitInLimb)-1) != 0 {
		sticky = 1
	}
	for i := 0; i < guardLimb; i++ {
		if spill.Limbs[i] != 0 {
			sticky = 1
		}
	}

	sign := uint64(0)
	if neg {
		sign = SignMask64
	}
	return roundPack64(sign, int64(e)+ExpBias64, (fracBits<<2)|(guard<<1)|sticky, 2)
}

// AddBits128 computes a+b by round-tripping through binary64 (spec.md §9:
// extended-precision types compose the core's narrower kernels rather than
// reimplementing IEEE rounding at every width).
func AddBits128(a, b Float128) Float128 {
	return Float128FromFloat64Bits(AddBits64(ToFloat64Bits(a), ToFloat64Bits(b)))
}

// SubBits128 computes a-b via AddBits128(a, -b).
func SubBits128(a, b Float128) Float128 {
	return AddBits128(a, NegateBits128(b))
}

// MulBits128 computes a*b by round-tripping through binary64.
func MulBits128(a, b Float128) Float128 {
	return Float128FromFloat64Bits(MulBits64(ToFloat64Bits(a), ToFloat64Bits(b)))
}

// DivBits128 computes a/b by round-tripping through binary64.
func DivBits128(a, b Float128) Float128 {
	return Float128FromFloat64Bits(DivBits64(ToFloat64Bits(a), ToFloat64Bits(b)))
}

// SqrtBits128 computes sqrt(a) by round-tripping through binary64.
func SqrtBits128(a Float128) Float128 {
	return Float128FromFloat64Bits(SqrtBits64(ToFloat64Bits(a)))
}
