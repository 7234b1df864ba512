package mem

import (
	"fmt"

	"github.com/klang-rt/klang/heap"
)

// BitTwiddle provides single-bit and arbitrary-width (<=64) bit-field
// access at arbitrary bit offsets into a heap, independent of byte
// boundaries — the heap-addressed generalization of shift's in-register
// bit primitives.
type BitTwiddle struct {
	h *heap.Heap
}

// NewBitTwiddle wraps h.
func NewBitTwiddle(h *heap.Heap) *BitTwiddle {
	return &BitTwiddle{h: h}
}

// InvalidWidthError is returned when a bit-field width falls outside
// [1,64].
type InvalidWidthError struct {
	Width int
}

func (e *InvalidWidthError) Error() string {
	return fmt.Sprintf("mem: bit-field width %d out of range (must be 1..64)", e.Width)
}

// GetBit reads the single bit at absolute bit offset bitOffset (bit 0 is
// the LSB of the byte at address bitOffset/8).
func (t *BitTwiddle) GetBit(bitOffset int) (bool, error) {
	byteAddr := bitOffset / 8
	bitInByte := uint(bitOffset % 8)
	b, err := t.h.LBU(byteAddr)
	if err != nil {
		return false, err
	}
	return (b>>bitInByte)&1 != 0, nil
}

// SetBit sets or clears the single bit at absolute bit offset bitOffset.
func (t *BitTwiddle) SetBit(bitOffset int, val bool) error {
	byteAddr := bitOffset / 8
	bitInByte := uint(bitOffset % 8)
	b, err := t.h.LBU(byteAddr)
	if err != nil {
		return err
	}
	if val {
		b |= 1 << bitInByte
	} else {
		b &^= 1 << bitInByte
	}
	return t.h.SB(byteAddr, int8(b))
}

// ToggleBit flips the single bit at absolute bit offset bitOffset.
func (t *BitTwiddle) ToggleBit(bitOffset int) error {
	byteAddr := bitOffset / 8
	bitInByte := uint(bitOffset % 8)
	b, err := t.h.LBU(byteAddr)
	if err != nil {
		return err
	}
	b ^= 1 << bitInByte
	return t.h.SB(byteAddr, int8(b))
}

// GetBitField reads a width-bit (1..64) unsigned field starting at absolute
// bit offset bitOffset, least-significant bit first, spanning byte
// boundaries as needed.
func (t *BitTwiddle) GetBitField(bitOffset, width int) (uint64, error) {
	if width < 1 || width > 64 {
		return 0, &InvalidWidthError{Width: width}
	}
	var result uint64
	for i := 0; i < width; i++ {
		bit, err := t.GetBit(bitOffset + i)
		if err != nil {
			return 0, err
		}
		if bit {
			result |= 1 << uint(i)
		}
	}
	return result, nil
}

// SetBitField writes the low width bits of value into a width-bit field
// starting at absolute bit offset bitOffset, leaving surrounding bits in
// partial boundary bytes untouched.
func (t *BitTwiddle) SetBitField(bitOffset, width int, value uint64) error {
	if width < 1 || width > 64 {
		return &InvalidWidthError{Width: width}
	}
	for i := 0; i < width; i++ {
		bit := (value>>uint(i))&1 != 0
		if err := t.SetBit(bitOffset+i, bit); err != nil {
			return err
		}
	}
	return nil
}
