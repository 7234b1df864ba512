package mem

import (
	"github.com/klang-rt/klang/heap"
	"github.com/klang-rt/klang/malloc"
)

// FastStringMem is CString/CLib: null-terminated-byte-sequence helpers
// matching ISO-C conventions (spec.md §6 "CString format").
type FastStringMem struct {
	h *heap.Heap
}

// NewFastStringMem wraps h.
func NewFastStringMem(h *heap.Heap) *FastStringMem {
	return &FastStringMem{h: h}
}

// Strlen returns the number of bytes before the NUL terminator at addr.
func (s *FastStringMem) Strlen(addr int) (int, error) {
	n := 0
	for {
		b, err := s.h.LBU(addr + n)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return n, nil
		}
		n++
	}
}

// Strcmp compares two NUL-terminated strings byte by byte (unsigned),
// stopping at the first difference or either terminator, like C's strcmp.
func (s *FastStringMem) Strcmp(a, b int) (int, error) {
	for {
		ca, err := s.h.LBU(a)
		if err != nil {
			return 0, err
		}
		cb, err := s.h.LBU(b)
		if err != nil {
			return 0, err
		}
		if ca != cb {
			return int(ca) - int(cb), nil
		}
		if ca == 0 {
			return 0, nil
		}
		a++
		b++
	}
}

// Memchr scans n bytes starting at addr for c (C's memchr, re-exposed here
// since it's as much a string primitive as a memory one).
func (s *FastStringMem) Memchr(addr int, c byte, n int) (int, bool, error) {
	return (&FastMem{h: s.h}).Memchr(addr, c, n)
}

// Memcmp compares n bytes at a and b (C's memcmp).
func (s *FastStringMem) Memcmp(a, b, n int) (int, error) {
	return (&FastMem{h: s.h}).Memcmp(a, b, n)
}

// Strdup allocates a copy of the NUL-terminated string at addr via alloc,
// returning the new string's address (C's strdup).
func (s *FastStringMem) Strdup(alloc *malloc.Allocator, addr int) (int, error) {
	n, err := s.Strlen(addr)
	if err != nil {
		return 0, err
	}
	dst, err := alloc.Malloc(n + 1)
	if err != nil {
		return 0, err
	}
	if err := s.h.Memcpy(dst, addr, n+1); err != nil {
		return 0, err
	}
	return dst, nil
}
