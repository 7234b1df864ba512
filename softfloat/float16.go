package softfloat

// Float16 bit-layout constants (spec.md §4.5): 1 sign bit, 5 exponent bits,
// 10 fraction bits.
const (
	SignMask16    uint16 = 0x8000
	ExpMask16     uint16 = 0x7C00
	FracMask16    uint16 = 0x03FF
	ImplicitBit16 uint16 = 1 << 10
	ExpBias16     int32  = 15
	ExpMax16      int32  = 0x1F
	QuietNaN16    uint16 = 0x7E00
	FracBits16           = 10
	QuietBitPos16        = 9
)

func exp16(bits uint16) int32   { return int32((bits & ExpMask16) >> FracBits16) }
func frac16(bits uint16) uint16 { return bits & FracMask16 }
func sign16(bits uint16) uint16 { return bits & SignMask16 }

// IsNaN16 reports whether bits encodes a NaN.
func IsNaN16(bits uint16) bool { return exp16(bits) == ExpMax16 && frac16(bits) != 0 }

// IsSignalingNaN16 reports whether bits is a signaling NaN.
func IsSignalingNaN16(bits uint16) bool {
	return IsNaN16(bits) && bits&(1<<QuietBitPos16) == 0
}

// IsInf16 reports whether bits encodes +/-infinity.
func IsInf16(bits uint16) bool { return exp16(bits) == ExpMax16 && frac16(bits) == 0 }

// IsZero16 reports whether bits encodes +/-zero.
func IsZero16(bits uint16) bool { return bits&^SignMask16 == 0 }

// IsNegative16 reports whether the sign bit is set.
func IsNegative16(bits uint16) bool { return sign16(bits) != 0 }

// IsSubnormal16 reports whether bits encodes a subnormal value.
func IsSubnormal16(bits uint16) bool { return exp16(bits) == 0 && frac16(bits) != 0 }

// IsNormal16 reports whether bits encodes a normal value.
func IsNormal16(bits uint16) bool {
	e := exp16(bits)
	return e != 0 && e != ExpMax16
}

func quiet16(bits uint16) uint16 { return bits | (1 << QuietBitPos16) }

func infBits16(sign uint16) uint16 { return sign | ExpMask16 }

func pack16(sign uint16, exp int32, frac uint16) uint16 {
	return sign | (uint16(exp) << FracBits16) | (frac & FracMask16)
}

// significand16 returns the 11-bit significand (implicit bit included) and
// the unbiased exponent for a finite bits pattern.
func significand16(bits uint16) (mant uint16, exp int32) {
	e := exp16(bits)
	f := frac16(bits)
	if e == 0 {
		return f, 1 - ExpBias16
	}
	return f | ImplicitBit16, e - ExpBias16
}

// AddBits16 computes a+b for IEEE-754 binary16 bit patterns, rounding to
// nearest even.
func AddBits16(a, b uint16) uint16 {
	if IsNaN16(a) {
		return quiet16(a)
	}
	if IsNaN16(b) {
		return quiet16(b)
	}
	aInf, bInf := IsInf16(a), IsInf16(b)
	if aInf && bInf {
		if sign16(a) != sign16(b) {
			return QuietNaN16
		}
		return a
	}
	if aInf {
		return a
	}
	if bInf {
		return b
	}
	if IsZero16(a) && IsZero16(b) {
		if sign16(a) == sign16(b) {
			return a
		}
		return 0
	}
	if IsZero16(a) {
		return b
	}
	if IsZero16(b) {
		return a
	}

	signA, signB := sign16(a), sign16(b)
	mantA, expA := significand16(a)
	mantB, expB := significand16(b)

	const guardBits = 3
	wideA := uint32(mantA) << guardBits
	wideB := uint32(mantB) << guardBits

	if expA < expB {
		signA, signB = signB, signA
		wideA, wideB = wideB, wideA
		expA, expB = expB, expA
	}

	diff := expA - expB
	var sticky uint32
	if diff > 0 {
		if diff >= 32 {
			sticky = 1
			wideB = 0
		} else {
			dropped := wideB & ((1 << uint(diff)) - 1)
			if dropped != 0 {
				sticky = 1
			}
			wideB >>= uint(diff)
		}
		wideB |= sticky
	}

	var resultSign uint16
	var sum uint32
	if signA == signB {
		sum = wideA + wideB
		resultSign = signA
	} else {
		if wideA >= wideB {
			sum = wideA - wideB
			resultSign = signA
		} else {
			sum = wideB - wideA
			resultSign = signB
		}
	}

	if sum == 0 {
		return 0
	}

	exp := expA
	for sum >= (uint32(1) << (FracBits16 + 1 + guardBits)) {
		odd := sum & 1
		sum >>= 1
		sum |= odd
		exp++
	}
	for sum != 0 && sum < (uint32(1)<<(FracBits16+guardBits)) {
		sum <<= 1
		exp--
	}

	return roundPack16(resultSign, exp+ExpBias16, sum, guardBits)
}

func roundPack16(sign uint16, exp int32, sigWithGuard uint32, guardBits int) uint16 {
	if exp >= ExpMax16 {
		return infBits16(sign)
	}
	if exp <= 0 {
		shift := 1 - exp
		if shift > 31 {
			return sign
		}
		var sticky uint32
		if shift > 0 {
			dropped := sigWithGuard & ((1 << uint(shift)) - 1)
			if dropped != 0 {
				sticky = 1
			}
			sigWithGuard >>= uint(shift)
			sigWithGuard |= sticky
		}
		exp = 0
	}

	roundMask := uint32(1)<<uint(guardBits) - 1
	half := uint32(1) << uint(guardBits-1)
	roundBits := sigWithGuard & roundMask
	mant := sigWithGuard >> uint(guardBits)

	if roundBits > half || (roundBits == half && mant&1 == 1) {
		mant++
		if mant == (uint32(1) << (FracBits16 + 1)) {
			mant >>= 1
			exp++
			if exp >= ExpMax16 {
				return infBits16(sign)
			}
		}
	}

	return pack16(sign, exp, uint16(mant))
}

// SubBits16 computes a-b as AddBits16(a, b with sign flipped).
func SubBits16(a, b uint16) uint16 {
	return AddBits16(a, b^SignMask16)
}

// MulBits16 computes a*b for IEEE-754 binary16 bit patterns, rounding to
// nearest even.
func MulBits16(a, b uint16) uint16 {
	signA, signB := sign16(a), sign16(b)
	resultSign := signA ^ signB

	if IsNaN16(a) {
		return quiet16(a)
	}
	if IsNaN16(b) {
		return quiet16(b)
	}
	aInf, bInf := IsInf16(a), IsInf16(b)
	aZero, bZero := IsZero16(a), IsZero16(b)
	if (aInf && bZero) || (bInf && aZero) {
		return QuietNaN16
	}
	if aInf || bInf {
		return infBits16(resultSign)
	}
	if aZero || bZero {
		return resultSign
	}

	mantA, expA := significand16(a)
	mantB, expB := significand16(b)

	product := uint32(mantA) * uint32(mantB) // up to 22 bits, in [2^20, 2^22)
	exp := expA + expB

	topBit := 20
	if product&(1<<21) != 0 {
		topBit = 21
		exp++
	}
	shift := topBit - FracBits16

	dropped := product & (uint32(1)<<uint(shift) - 1)
	mant := product >> uint(shift)
	guard := (dropped >> uint(shift-1)) & 1
	stickyRest := dropped & (uint32(1)<<uint(shift-1) - 1)
	sticky := uint32(0)
	if stickyRest != 0 {
		sticky = 1
	}

	if guard == 1 && (sticky == 1 || mant&1 == 1) {
		mant++
		if mant == (1 << (FracBits16 + 1)) {
			mant >>= 1
			exp++
		}
	}

	biasedExp := exp + ExpBias16
	if biasedExp >= ExpMax16 {
		return infBits16(resultSign)
	}
	if biasedExp <= 0 {
		return roundPack16(resultSign, biasedExp, mant<<1|guard, 1)
	}
	return pack16(resultSign, biasedExp, uint16(mant))
}

// DivBits16 computes a/b for IEEE-754 binary16 bit patterns, rounding to
// nearest even.
func DivBits16(a, b uint16) uint16 {
	signA, signB := sign16(a), sign16(b)
	resultSign := signA ^ signB

	if IsNaN16(a) {
		return quiet16(a)
	}
	if IsNaN16(b) {
		return quiet16(b)
	}
	aInf, bInf := IsInf16(a), IsInf16(b)
	aZero, bZero := IsZero16(a), IsZero16(b)
	if aInf && bInf {
		return QuietNaN16
	}
	if aZero && bZero {
		return QuietNaN16
	}
	if aInf {
		return infBits16(resultSign)
	}
	if bInf {
		return resultSign
	}
	if bZero {
		return infBits16(resultSign)
	}
	if aZero {
		return resultSign
	}

	mantA, expA := significand16(a)
	mantB, expB := significand16(b)

	const quotBits = 13
	num := uint32(mantA) << quotBits
	den := uint32(mantB)
	quot := num / den
	rem := num % den

	exp := expA - expB + ExpBias16

	topBit := 31 - leadingZeros32(quot)
	shift := topBit - FracBits16
	var guard, sticky uint32
	var mant uint32
	if shift >= 0 {
		dropped := quot & (uint32(1)<<uint(shift) - 1)
		mant = quot >> uint(shift)
		if shift > 0 {
			guard = (dropped >> uint(shift-1)) & 1
			stickyRest := dropped & (uint32(1)<<uint(shift-1) - 1)
			if stickyRest != 0 || rem != 0 {
				sticky = 1
			}
		} else if rem != 0 {
			sticky = 1
		}
	} else {
		mant = quot << uint(-shift)
		if rem != 0 {
			sticky = 1
		}
	}
	exp += int32(topBit - quotBits)

	if guard == 1 && (sticky == 1 || mant&1 == 1) {
		mant++
		if mant == (1 << (FracBits16 + 1)) {
			mant >>= 1
			exp++
		}
	}

	if exp >= ExpMax16 {
		return infBits16(resultSign)
	}
	if exp <= 0 {
		return roundPack16(resultSign, exp, mant<<1|guard, 1)
	}
	return pack16(resultSign, exp, uint16(mant))
}

func leadingZeros32(v uint32) int {
	if v == 0 {
		return 32
	}
	n := 0
	for v&(1<<31) == 0 {
		n++
		v <<= 1
	}
	return n
}

// SqrtBits16 computes sqrt(a) for an IEEE-754 binary16 bit pattern, rounding
// to nearest even.
func SqrtBits16(a uint16) uint16 {
	if IsNaN16(a) {
		return quiet16(a)
	}
	if IsZero16(a) {
		return a
	}
	if IsNegative16(a) {
		return QuietNaN16
	}
	if IsInf16(a) {
		return a
	}

	mant, exp := significand16(a)
	if exp&1 != 0 {
		mant <<= 1
		exp--
	}

	root, rem := isqrt64(uint64(mant) << 20) // for a normal input, root has 16 bits: 5 beyond FracBits16+implicit

	topBit := 63 - leadingZeros64(root)
	shift := topBit - FracBits16
	dropped := root & (uint64(1)<<uint(shift) - 1)
	mantOut := root >> uint(shift)
	guard := (dropped >> uint(shift-1)) & 1
	sticky := uint64(0)
	if dropped&(uint64(1)<<uint(shift-1)-1) != 0 || rem != 0 {
		sticky = 1
	}

	// exp is already even, so sqrt(mant*2^exp) lands in [2^exp, 2^(exp+1)),
	// giving an exact result exponent of exp/2 independent of topBit.
	resultExp := exp/2 + ExpBias16

	if guard == 1 && (sticky == 1 || mantOut&1 == 1) {
		mantOut++
		if mantOut == (1 << (FracBits16 + 1)) {
			mantOut >>= 1
			resultExp++
		}
	}

	if resultExp >= ExpMax16 {
		return infBits16(0)
	}
	if resultExp <= 0 {
		return roundPack16(0, resultExp, uint32(mantOut<<1|guard), 1)
	}
	return pack16(0, resultExp, uint16(mantOut))
}

// MinBits16 implements IEEE 754-2008 minNum semantics for binary16.
func MinBits16(a, b uint16) uint16 {
	if IsNaN16(a) && IsNaN16(b) {
		return QuietNaN16
	}
	if IsNaN16(a) {
		return b
	}
	if IsNaN16(b) {
		return a
	}
	if IsZero16(a) && IsZero16(b) {
		if IsNegative16(a) || IsNegative16(b) {
			return SignMask16
		}
		return 0
	}
	if lessBits16(a, b) {
		return a
	}
	return b
}

// MaxBits16 implements IEEE 754-2008 maxNum semantics for binary16.
func MaxBits16(a, b uint16) uint16 {
	if IsNaN16(a) && IsNaN16(b) {
		return QuietNaN16
	}
	if IsNaN16(a) {
		return b
	}
	if IsNaN16(b) {
		return a
	}
	if IsZero16(a) && IsZero16(b) {
		if !IsNegative16(a) || !IsNegative16(b) {
			return 0
		}
		return SignMask16
	}
	if lessBits16(a, b) {
		return b
	}
	return a
}

func lessBits16(a, b uint16) bool {
	as, bs := IsNegative16(a), IsNegative16(b)
	if as != bs {
		return as
	}
	if as {
		return a > b
	}
	return a < b
}

// CopySignBits16 returns a value with the magnitude of a and the sign of b.
func CopySignBits16(a, b uint16) uint16 {
	return (a &^ SignMask16) | sign16(b)
}
