// Package cscalar implements CScalars/CPrimitives (spec.md §2): named,
// typed C-style scalar variables layered over a heap.Heap address, the way
// the teacher's vm/register_trace.go wraps a register name with typed
// access methods over the underlying store.
package cscalar

import "github.com/klang-rt/klang/heap"

// Int8Scalar is a signed 8-bit C scalar at a fixed heap address.
type Int8Scalar struct {
	h    *heap.Heap
	addr int
}

// Int8At constructs an Int8Scalar at addr.
func Int8At(h *heap.Heap, addr int) *Int8Scalar { return &Int8Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *Int8Scalar) Addr() int { return s.addr }

// Get reads the current value.
func (s *Int8Scalar) Get() (int8, error) { return s.h.LB(s.addr) }

// Set writes a new value.
func (s *Int8Scalar) Set(v int8) error { return s.h.SB(s.addr, v) }

// UInt8Scalar is an unsigned 8-bit C scalar at a fixed heap address.
type UInt8Scalar struct {
	h    *heap.Heap
	addr int
}

// UInt8At constructs a UInt8Scalar at addr.
func UInt8At(h *heap.Heap, addr int) *UInt8Scalar { return &UInt8Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *UInt8Scalar) Addr() int { return s.addr }

// Get reads the current value.
func (s *UInt8Scalar) Get() (uint8, error) { return s.h.LBU(s.addr) }

// Set writes a new value.
func (s *UInt8Scalar) Set(v uint8) error { return s.h.SB(s.addr, int8(v)) }

// Int16Scalar is a signed 16-bit C scalar at a fixed heap address.
type Int16Scalar struct {
	h    *heap.Heap
	addr int
}

// Int16At constructs an Int16Scalar at addr.
func Int16At(h *heap.Heap, addr int) *Int16Scalar { return &Int16Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *Int16Scalar) Addr() int { return s.addr }

// Get reads the current value.
func (s *Int16Scalar) Get() (int16, error) { return s.h.LH(s.addr) }

// Set writes a new value.
func (s *Int16Scalar) Set(v int16) error { return s.h.SH(s.addr, v) }

// UInt16Scalar is an unsigned 16-bit C scalar at a fixed heap address.
type UInt16Scalar struct {
	h    *heap.Heap
	addr int
}

// UInt16At constructs a UInt16Scalar at addr.
func UInt16At(h *heap.Heap, addr int) *UInt16Scalar { return &UInt16Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *UInt16Scalar) Addr() int { return s.addr }

// Get reads the current value.
func (s *UInt16Scalar) Get() (uint16, error) { return s.h.LHU(s.addr) }

// Set writes a new value.
func (s *UInt16Scalar) Set(v uint16) error { return s.h.SH(s.addr, int16(v)) }

// Int32Scalar is a signed 32-bit C scalar at a fixed heap address.
type Int32Scalar struct {
	h    *heap.Heap
	addr int
}

// Int32At constructs an Int32Scalar at addr.
func Int32At(h *heap.Heap, addr int) *Int32Scalar { return &Int32Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *Int32Scalar) Addr() int { return s.addr }

// Get reads the current value.
func (s *Int32Scalar) Get() (int32, error) { return s.h.LW(s.addr) }

// Set writes a new value.
func (s *Int32Scalar) Set(v int32) error { return s.h.SW(s.addr, v) }

// UInt32Scalar is an unsigned 32-bit C scalar at a fixed heap address.
type UInt32Scalar struct {
	h    *heap.Heap
	addr int
}

// UInt32At constructs a UInt32Scalar at addr.
func UInt32At(h *heap.Heap, addr int) *UInt32Scalar { return &UInt32Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *UInt32Scalar) Addr() int { return s.addr }

// Get reads the current value.
func (s *UInt32Scalar) Get() (uint32, error) { return s.h.LWU(s.addr) }

// Set writes a new value.
func (s *UInt32Scalar) Set(v uint32) error { return s.h.SW(s.addr, int32(v)) }

// Int64Scalar is a signed 64-bit C scalar at a fixed heap address.
type Int64Scalar struct {
	h    *heap.Heap
	addr int
}

// Int64At constructs an Int64Scalar at addr.
func Int64At(h *heap.Heap, addr int) *Int64Scalar { return &Int64Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *Int64Scalar) Addr() int { return s.addr }

// Get reads the current value.
func (s *Int64Scalar) Get() (int64, error) { return s.h.LD(s.addr) }

// Set writes a new value.
func (s *Int64Scalar) Set(v int64) error { return s.h.SD(s.addr, v) }

// UInt64Scalar is an unsigned 64-bit C scalar at a fixed heap address.
type UInt64Scalar struct {
	h    *heap.Heap
	addr int
}

// UInt64At constructs a UInt64Scalar at addr.
func UInt64At(h *heap.Heap, addr int) *UInt64Scalar { return &UInt64Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *UInt64Scalar) Addr() int { return s.addr }

// Get reads the current value.
func (s *UInt64Scalar) Get() (uint64, error) { return s.h.LDU(s.addr) }

// Set writes a new value.
func (s *UInt64Scalar) Set(v uint64) error { return s.h.SD(s.addr, int64(v)) }

// Float32Scalar is a binary32 C scalar, stored and accessed as its raw IEEE
// bit pattern (spec.md §1: arithmetic goes through the software kernel, not
// the host's float type).
type Float32Scalar struct {
	h    *heap.Heap
	addr int
}

// Float32At constructs a Float32Scalar at addr.
func Float32At(h *heap.Heap, addr int) *Float32Scalar { return &Float32Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *Float32Scalar) Addr() int { return s.addr }

// Get reads the current binary32 bit pattern.
func (s *Float32Scalar) Get() (uint32, error) { return s.h.LWF(s.addr) }

// Set writes a binary32 bit pattern.
func (s *Float32Scalar) Set(bits uint32) error { return s.h.SWF(s.addr, bits) }

// Float64Scalar is a binary64 C scalar, stored and accessed as its raw IEEE
// bit pattern.
type Float64Scalar struct {
	h    *heap.Heap
	addr int
}

// Float64At constructs a Float64Scalar at addr.
func Float64At(h *heap.Heap, addr int) *Float64Scalar { return &Float64Scalar{h: h, addr: addr} }

// Addr returns the scalar's heap address.
func (s *Float64Scalar) Addr() int { return s.addr }

// Get reads the current binary64 bit pattern.
func (s *Float64Scalar) Get() (uint64, error) { return s.h.LDF(s.addr) }

// Set writes a binary64 bit pattern.
func (s *Float64Scalar) Set(bits uint64) error { return s.h.SDF(s.addr, bits) }
