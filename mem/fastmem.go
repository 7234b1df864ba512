// Package mem implements FastMem/FastStringMem/CLib/CString, the typed
// views (U8View/U16View/U32View), and BitTwiddle — the C-convention memory
// helpers layered over a heap.Heap (spec.md §2).
package mem

import "github.com/klang-rt/klang/heap"

// FastMem is a thin C-memory-API facade over a heap.Heap: the word-at-a-time
// memset/memcpy/memmove algorithms themselves live in heap.Heap (mirroring
// the teacher's vm/inst_memory.go fast-path-then-scalar-tail structure for
// load/store multiple); FastMem exists as the named collaborator spec.md's
// package map expects callers to reach for.
type FastMem struct {
	h *heap.Heap
}

// NewFastMem wraps h.
func NewFastMem(h *heap.Heap) *FastMem {
	return &FastMem{h: h}
}

// Memset fills n bytes at addr with v.
func (m *FastMem) Memset(addr int, v byte, n int) error {
	return m.h.Memset(addr, v, n)
}

// Memcpy copies n bytes from src to dst (undefined on overlap).
func (m *FastMem) Memcpy(dst, src, n int) error {
	return m.h.Memcpy(dst, src, n)
}

// Memmove copies n bytes from src to dst, correct under overlap.
func (m *FastMem) Memmove(dst, src, n int) error {
	return m.h.Memmove(dst, src, n)
}

// Memcmp compares n bytes at a and b, returning <0, 0, or >0 like C's
// memcmp (the first differing byte, compared unsigned).
func (m *FastMem) Memcmp(a, b, n int) (int, error) {
	for i := 0; i < n; i++ {
		va, err := m.h.LBU(a + i)
		if err != nil {
			return 0, err
		}
		vb, err := m.h.LBU(b + i)
		if err != nil {
			return 0, err
		}
		if va != vb {
			return int(va) - int(vb), nil
		}
	}
	return 0, nil
}

// Memchr scans n bytes starting at addr for c, returning its address and
// true, or (0,false) if not found — C's memchr.
func (m *FastMem) Memchr(addr int, c byte, n int) (int, bool, error) {
	for i := 0; i < n; i++ {
		v, err := m.h.LBU(addr + i)
		if err != nil {
			return 0, false, err
		}
		if v == c {
			return addr + i, true, nil
		}
	}
	return 0, false, nil
}
