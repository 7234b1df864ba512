package heap

import (
	"github.com/klang-rt/klang/shift"
	"github.com/klang-rt/klang/swar"
)

// LoadValue128 reads a packed little-endian SwAR128 value from 16 bytes at
// addr (spec.md §4.10: "Heap-backed variants read and write packed
// little-endian bytes at given addresses").
func (h *Heap) LoadValue128(addr int) (swar.Value128, error) {
	if err := h.checkRange(addr, swar.NumLimbs*2); err != nil {
		return swar.Value128{}, err
	}
	return swar.FromBytes(h.bytes[addr : addr+swar.NumLimbs*2]), nil
}

// StoreValue128 writes v as 16 packed little-endian bytes at addr.
func (h *Heap) StoreValue128(addr int, v swar.Value128) error {
	if err := h.checkRange(addr, swar.NumLimbs*2); err != nil {
		return err
	}
	copy(h.bytes[addr:addr+swar.NumLimbs*2], v.Bytes())
	return nil
}

// limbsAt views length little-endian 16-bit limbs starting at addr as a
// []uint16, for in-place composition with the shift package's
// ArrayBitShifts primitives.
func (h *Heap) limbsAt(addr, length int) ([]uint16, error) {
	if err := h.checkRange(addr, length*2); err != nil {
		return nil, err
	}
	limbs := make([]uint16, length)
	for i := 0; i < length; i++ {
		limbs[i] = uint16(h.bytes[addr+2*i]) | uint16(h.bytes[addr+2*i+1])<<8
	}
	return limbs, nil
}

func (h *Heap) storeLimbsAt(addr int, limbs []uint16) {
	for i, l := range limbs {
		h.bytes[addr+2*i] = byte(l)
		h.bytes[addr+2*i+1] = byte(l >> 8)
	}
}

// ShiftLeftLE shifts the little-endian 16-bit limb window of length limbs
// found at byte address addr left by s bits (s in [0,15]), writing the
// result back in place, composing shift.Shl16LEInPlace over a heap-backed
// limb window instead of an in-memory slice.
func (h *Heap) ShiftLeftLE(addr, length, s int, carryIn uint16) (carryOut uint16, sticky bool, err error) {
	limbs, err := h.limbsAt(addr, length)
	if err != nil {
		return 0, false, err
	}
	carryOut, sticky, err = shift.Shl16LEInPlace(limbs, 0, length, s, carryIn)
	if err != nil {
		return 0, false, err
	}
	h.storeLimbsAt(addr, limbs)
	return carryOut, sticky, nil
}

// ShiftRightLE is the heap-addressed counterpart of ShiftLeftLE for
// shift.Rsh16LEInPlace.
func (h *Heap) ShiftRightLE(addr, length, s int) (carryOut uint16, sticky bool, err error) {
	limbs, err := h.limbsAt(addr, length)
	if err != nil {
		return 0, false, err
	}
	carryOut, sticky, err = shift.Rsh16LEInPlace(limbs, 0, length, s)
	if err != nil {
		return 0, false, err
	}
	h.storeLimbsAt(addr, limbs)
	return carryOut, sticky, nil
}

// AddValue128At loads the 128-bit values at addrA and addrB, adds them, and
// returns the sum and carry without writing to the heap (callers store the
// result with StoreValue128 where it belongs).
func (h *Heap) AddValue128At(addrA, addrB int) (sum swar.Value128, carryOut uint16, err error) {
	a, err := h.LoadValue128(addrA)
	if err != nil {
		return swar.Value128{}, 0, err
	}
	b, err := h.LoadValue128(addrB)
	if err != nil {
		return swar.Value128{}, 0, err
	}
	sum, carryOut = swar.Add(a, b)
	return sum, carryOut, nil
}

// SubValue128At is the Sub analogue of AddValue128At.
func (h *Heap) SubValue128At(addrA, addrB int) (diff swar.Value128, borrowOut uint16, err error) {
	a, err := h.LoadValue128(addrA)
	if err != nil {
		return swar.Value128{}, 0, err
	}
	b, err := h.LoadValue128(addrB)
	if err != nil {
		return swar.Value128{}, 0, err
	}
	diff, borrowOut = swar.Sub(a, b)
	return diff, borrowOut, nil
}
