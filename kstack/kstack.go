// Package kstack implements KStack (spec.md §4.9): a frame allocator owning
// a single heap region acquired from KMalloc, with its stack pointer
// counting down from the top of that region the way the teacher's ARM SP
// (vm/cpu.go's GetSP/SetSP) grows down from a high address.
package kstack

import "github.com/klang-rt/klang/malloc"

// Stack is KStack: sp is an offset within [0,size], counting down as frames
// and allocas push data onto the stack.
type Stack struct {
	alloc *malloc.Allocator
	base  int
	size  int
	sp    int
}

// New acquires a size-byte region from alloc and initializes sp to size (an
// empty, fully-available stack). The region's base is a malloc payload
// address, which lies 4 bytes past an 8-byte boundary, so the alignment that
// PushFrame and Alloca apply to sp is relative to base, not to absolute heap
// addresses.
func New(alloc *malloc.Allocator, size int) (*Stack, error) {
	base, err := alloc.Malloc(size)
	if err != nil {
		return nil, err
	}
	return &Stack{alloc: alloc, base: base, size: size, sp: size}, nil
}

// Dispose returns the stack's region to the underlying allocator. The Stack
// must not be used afterward.
func (s *Stack) Dispose() error {
	return s.alloc.Free(s.base)
}

// Size returns the stack's total capacity in bytes.
func (s *Stack) Size() int { return s.size }

// SP returns the current offset of the stack pointer from the base of the
// region (not a heap address).
func (s *Stack) SP() int { return s.sp }

func alignDown(v, align int) int {
	if align <= 1 {
		return v
	}
	return v &^ (align - 1)
}

// PushFrame aligns sp down to align and returns the resulting value as a
// marker suitable for a later PopFrame.
func (s *Stack) PushFrame(align int) int {
	s.sp = alignDown(s.sp, align)
	return s.sp
}

// Alloca moves sp down by bytes and aligns the new sp down to align, and
// returns the heap address (base+sp) of the reserved region. Fails with ErrStackOverflow if
// sp would go negative.
func (s *Stack) Alloca(bytes, align int) (int, error) {
	newSP := alignDown(s.sp-bytes, align)
	if newSP < 0 {
		return 0, ErrStackOverflow
	}
	s.sp = newSP
	return s.base + s.sp, nil
}

// PopFrame restores sp to marker, which must lie in [0, size].
func (s *Stack) PopFrame(marker int) error {
	if marker < 0 || marker > s.size {
		return ErrInvalidMarker
	}
	s.sp = marker
	return nil
}

// WithFrame runs fn between a PushFrame/PopFrame pair, guaranteeing the pop
// happens even if fn panics, mirroring the teacher's general defer-based
// cleanup convention (e.g. config/config.go's `defer f.Close()`).
func (s *Stack) WithFrame(align int, fn func(s *Stack) error) error {
	marker := s.PushFrame(align)
	defer func() {
		_ = s.PopFrame(marker)
	}()
	return fn(s)
}
