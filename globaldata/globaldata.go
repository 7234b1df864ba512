// Package globaldata implements GlobalData (spec.md §3, §4): a name ->
// aligned-address map for DATA/BSS symbols, structurally parallel to the
// teacher's vm/symbol_resolver.go name<->address table, generalized to also
// own the backing storage and its initializer payload.
package globaldata

import "github.com/klang-rt/klang/malloc"

// Table is GlobalData: a single malloc'd region (acquired at New, like
// kstack.Stack) bump-allocated into as symbols are defined, plus the
// name->address map used to look them up.
type Table struct {
	alloc     *malloc.Allocator
	base      int
	size      int
	next      int
	addresses map[string]int
}

// New acquires a size-byte region from alloc to hold every symbol this
// table will define.
func New(alloc *malloc.Allocator, size int) (*Table, error) {
	base, err := alloc.Malloc(size)
	if err != nil {
		return nil, err
	}
	return &Table{
		alloc:     alloc,
		base:      base,
		size:      size,
		addresses: make(map[string]int),
	}, nil
}

// Dispose releases the table's entire region back to the allocator via its
// retained base address.
func (t *Table) Dispose() error {
	return t.alloc.Free(t.base)
}

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

func (t *Table) reserve(name string, size, align int) (int, error) {
	if _, exists := t.addresses[name]; exists {
		return 0, &DuplicateNameError{Name: name}
	}
	addr := alignUp(t.base+t.next, align)
	off := addr - t.base
	if off+size > t.size {
		return 0, &OutOfSpaceError{Name: name, Size: size}
	}
	t.next = off + size
	t.addresses[name] = addr
	return addr, nil
}

// DefineBSS reserves size bytes aligned to align for name and zero-fills
// them (spec.md §3: "BSS symbols are zeroed on definition").
func (t *Table) DefineBSS(name string, size, align int) (int, error) {
	addr, err := t.reserve(name, size, align)
	if err != nil {
		return 0, err
	}
	if err := t.alloc.Heap().Memset(addr, 0, size); err != nil {
		return 0, err
	}
	return addr, nil
}

// DefineData reserves len(data) bytes aligned to align for name and copies
// data into it (spec.md §3: "DATA symbols hold a copy of an initializer
// byte sequence").
func (t *Table) DefineData(name string, data []byte, align int) (int, error) {
	addr, err := t.reserve(name, len(data), align)
	if err != nil {
		return 0, err
	}
	h := t.alloc.Heap()
	for i, b := range data {
		if err := h.SB(addr+i, int8(b)); err != nil {
			return 0, err
		}
	}
	return addr, nil
}

// Lookup returns the address of a previously-defined symbol.
func (t *Table) Lookup(name string) (addr int, ok bool) {
	addr, ok = t.addresses[name]
	return addr, ok
}

// Base returns the table's retained base address.
func (t *Table) Base() int { return t.base }
