package malloc

// Aligned layers over-aligned allocation (KAligned, spec.md §4.8) on top of
// an Allocator (KMalloc).
type Aligned struct {
	a *Allocator
}

// NewAligned wraps an Allocator with the over-allocation scheme AlignedAlloc
// needs.
func NewAligned(a *Allocator) *Aligned {
	return &Aligned{a: a}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// AlignedAlloc over-allocates alignment-1+4 extra bytes from the underlying
// Allocator, returning an interior pointer aligned to alignment, with the
// original base address recorded in the 4 bytes immediately preceding the
// returned payload.
func (al *Aligned) AlignedAlloc(alignment, size int) (int, error) {
	if !isPowerOfTwo(alignment) {
		return 0, &PosixMemalignError{Errno: EINVAL}
	}
	base, err := al.a.Malloc(size + alignment - 1 + 4)
	if err != nil {
		return 0, err
	}
	interior := (base + 4 + alignment - 1) &^ (alignment - 1)
	if err := al.a.h.SW(interior-4, int32(base)); err != nil {
		return 0, err
	}
	return interior, nil
}

// AlignedFree reads the base address recorded by AlignedAlloc and returns it
// to the underlying Allocator.
func (al *Aligned) AlignedFree(addr int) error {
	v, err := al.a.h.LWU(addr - 4)
	if err != nil {
		return err
	}
	return al.a.Free(int(v))
}

// PosixMemalign additionally requires alignment be a multiple of 8,
// returning (EINVAL,0), (ENOMEM,0), or (0,addr) per the POSIX contract.
func (al *Aligned) PosixMemalign(alignment, size int) (Errno, int) {
	if !isPowerOfTwo(alignment) || alignment%8 != 0 {
		return EINVAL, 0
	}
	addr, err := al.AlignedAlloc(alignment, size)
	if err != nil {
		return ENOMEM, 0
	}
	return 0, addr
}
