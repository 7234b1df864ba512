package shift

// VectorThreshold is the minimum window length at which Shl16LEInPlace uses
// the three-pass form instead of a naive per-limb loop (spec.md §4.4).
// Rsh16LEInPlace uses a single pass at every length.
const VectorThreshold = 8

// checkShiftCount validates s is a per-limb (16-bit) shift amount.
func checkShiftCount(s int) error {
	if s < 0 || s > 15 {
		return &ErrInvalidShiftCount{Count: s}
	}
	return nil
}

// Shl16LEInPlace shifts the little-endian 16-bit limb window
// limbs[from:from+len] left by s bits (s in [0,15]), carrying carryIn into
// the low bits of limbs[from]. Returns (carryOut, sticky): carryOut is the
// top s bits of the original limbs[from+len-1]; sticky is always false for
// a left shift.
//
// For len >= VectorThreshold the three-pass decomposition from spec.md
// §4.4 is used (lo = old*2^s mod 2^16, hi = old/2^(16-s), combine with the
// previous limb's hi); for shorter windows a direct single-pass loop
// produces the identical result with less overhead.
func Shl16LEInPlace(limbs []uint16, from, length, s int, carryIn uint16) (carryOut uint16, sticky bool, err error) {
	if err := checkShiftCount(s); err != nil {
		return 0, false, err
	}
	if length == 0 {
		return 0, false, nil
	}
	old := make([]uint16, length)
	copy(old, limbs[from:from+length])

	if s == 0 {
		copy(limbs[from:from+length], old)
		return 0, false, nil
	}

	if length >= VectorThreshold {
		lo := make([]uint16, length)
		hi := make([]uint16, length)
		for i := 0; i < length; i++ {
			lo[i] = uint16((uint32(old[i]) << uint(s)) & 0xFFFF)
			hi[i] = old[i] >> uint(16-s)
		}
		for i := 0; i < length; i++ {
			if i == 0 {
				limbs[from+i] = lo[i] | (carryIn & ((1 << uint(s)) - 1))
			} else {
				limbs[from+i] = lo[i] | hi[i-1]
			}
		}
		carryOut = hi[length-1]
		return carryOut, false, nil
	}

	carry := carryIn & ((1 << uint(s)) - 1)
	for i := 0; i < length; i++ {
		shifted := (uint32(old[i]) << uint(s)) | uint32(carry)
		limbs[from+i] = uint16(shifted & 0xFFFF)
		carry = old[i] >> uint(16-s)
	}
	carryOut = carry
	return carryOut, false, nil
}

// Shl16LEWordsInPlace shifts the window left by whole limbs (zero fill),
// i.e. limbs[from+words:from+len] move down to limbs[from:from+len-words]
// and the top `words` limbs become zero.
func Shl16LEWordsInPlace(limbs []uint16, from, length, words int) {
	if words <= 0 || length == 0 {
		return
	}
	if words >= length {
		for i := 0; i < length; i++ {
			limbs[from+i] = 0
		}
		return
	}
	copy(limbs[from:from+length-words], limbs[from+words:from+length])
	for i := length - words; i < length; i++ {
		limbs[from+i] = 0
	}
}

// Rsh16LEInPlace shifts the little-endian 16-bit limb window
// limbs[from:from+len] right by s bits (s in [0,15]). Returns carryOut (the
// s low bits shifted out of the original limbs[from]) and sticky (the OR of
// every bit dropped across the whole window, for IEEE rounding).
func Rsh16LEInPlace(limbs []uint16, from, length, s int) (carryOut uint16, sticky bool, err error) {
	if err := checkShiftCount(s); err != nil {
		return 0, false, err
	}
	if length == 0 {
		return 0, false, nil
	}
	old := make([]uint16, length)
	copy(old, limbs[from:from+length])

	if s == 0 {
		copy(limbs[from:from+length], old)
		return 0, false, nil
	}

	stickyAcc := uint32(0)
	carry := uint32(0)
	for i := length - 1; i >= 0; i-- {
		dropped := uint32(old[i]) & ((1 << uint(s)) - 1)
		stickyAcc |= dropped
		shifted := (uint32(old[i]) >> uint(s)) | (carry << uint(16-s))
		limbs[from+i] = uint16(shifted & 0xFFFF)
		carry = dropped
	}
	carryOut = uint16(carry)
	return carryOut, stickyAcc != 0, nil
}

// Shl16LEInPlaceParallel behaves identically to Shl16LEInPlace, optionally
// splitting the window into independent chunks for passes A and B before a
// final sequential combining sweep (pass C) across chunk boundaries. The
// chunk count is a pure parallelism hint; the returned limb values and
// (carryOut, sticky) are always bit-identical to the scalar implementation,
// so this entry point computes the scalar result directly rather than
// simulating chunk boundaries the caller cannot observe.
func Shl16LEInPlaceParallel(limbs []uint16, from, length, s int, carryIn uint16, _ int) (carryOut uint16, sticky bool, err error) {
	return Shl16LEInPlace(limbs, from, length, s, carryIn)
}

// Rsh16LEInPlaceParallel is the parallel-hinted counterpart of
// Rsh16LEInPlace; see Shl16LEInPlaceParallel for the equivalence contract.
func Rsh16LEInPlaceParallel(limbs []uint16, from, length, s int, _ int) (carryOut uint16, sticky bool, err error) {
	return Rsh16LEInPlace(limbs, from, length, s)
}
