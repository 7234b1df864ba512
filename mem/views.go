package mem

import (
	"fmt"

	"github.com/klang-rt/klang/heap"
)

// ViewBoundsError is returned when a typed view index falls outside
// [0, count).
type ViewBoundsError struct {
	Index int
	Count int
}

func (e *ViewBoundsError) Error() string {
	return fmt.Sprintf("mem: view index %d out of bounds (count %d)", e.Index, e.Count)
}

// U8View is a bounds-checked view of count bytes starting at base.
type U8View struct {
	h     *heap.Heap
	base  int
	count int
}

// NewU8View constructs a view over count bytes at base.
func NewU8View(h *heap.Heap, base, count int) *U8View {
	return &U8View{h: h, base: base, count: count}
}

// Len returns the element count.
func (v *U8View) Len() int { return v.count }

func (v *U8View) checkIndex(i int) error {
	if i < 0 || i >= v.count {
		return &ViewBoundsError{Index: i, Count: v.count}
	}
	return nil
}

// Get returns element i.
func (v *U8View) Get(i int) (uint8, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}
	return v.h.LBU(v.base + i)
}

// Set writes element i.
func (v *U8View) Set(i int, val uint8) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	return v.h.SB(v.base+i, int8(val))
}

// U16View is a bounds-checked view of count little-endian uint16 elements
// starting at base.
type U16View struct {
	h     *heap.Heap
	base  int
	count int
}

// NewU16View constructs a view over count 16-bit elements at base.
func NewU16View(h *heap.Heap, base, count int) *U16View {
	return &U16View{h: h, base: base, count: count}
}

// Len returns the element count.
func (v *U16View) Len() int { return v.count }

func (v *U16View) checkIndex(i int) error {
	if i < 0 || i >= v.count {
		return &ViewBoundsError{Index: i, Count: v.count}
	}
	return nil
}

// Get returns element i.
func (v *U16View) Get(i int) (uint16, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}
	return v.h.LHU(v.base + i*2)
}

// Set writes element i.
func (v *U16View) Set(i int, val uint16) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	return v.h.SH(v.base+i*2, int16(val))
}

// U32View is a bounds-checked view of count little-endian uint32 elements
// starting at base.
type U32View struct {
	h     *heap.Heap
	base  int
	count int
}

// NewU32View constructs a view over count 32-bit elements at base.
func NewU32View(h *heap.Heap, base, count int) *U32View {
	return &U32View{h: h, base: base, count: count}
}

// Len returns the element count.
func (v *U32View) Len() int { return v.count }

func (v *U32View) checkIndex(i int) error {
	if i < 0 || i >= v.count {
		return &ViewBoundsError{Index: i, Count: v.count}
	}
	return nil
}

// Get returns element i.
func (v *U32View) Get(i int) (uint32, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}
	return v.h.LWU(v.base + i*4)
}

// Set writes element i.
func (v *U32View) Set(i int, val uint32) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	return v.h.SW(v.base+i*4, int32(val))
}
