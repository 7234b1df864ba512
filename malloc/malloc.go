// Package malloc implements KMalloc (spec.md §4.7): a segregated-bin,
// first-fit allocator with in-band header/footer chunk metadata, layered
// over a heap.Heap the way a C allocator is layered over sbrk'd memory.
package malloc

import (
	"github.com/klang-rt/klang/heap"
	"github.com/klang-rt/klang/trace"
)

const (
	// HeaderSize and FooterSize are the in-band (size<<1)|inUse metadata
	// words bracketing every chunk's payload (spec.md §4.7).
	HeaderSize = 4
	FooterSize = 4
	Overhead   = HeaderSize + FooterSize

	// MinChunk is the smallest payload a free chunk can hold: enough for
	// the next/prev free-list pointers (4 bytes each) written in-band into
	// the payload while the chunk is free.
	MinChunk = 12

	// SplitThreshold is the minimum leftover (payload + Overhead) a split
	// must leave behind to be worth carving into its own chunk.
	SplitThreshold = MinChunk + Overhead // 20

	// BinSize is the granularity of the small segregated bins.
	BinSize = 16
	// BinCount is the number of small bins, covering payloads
	// BinSize..BinCount*BinSize (16..1024).
	BinCount = 64
	// SmallBinLimit is the largest payload size routed to a small bin;
	// anything larger uses the large free list (spec.md §4.1 [malloc]
	// small_bin_limit).
	SmallBinLimit = BinCount * BinSize

	inUseBit = 1
)

// Allocator is KMalloc: bump-allocates from a heap.Heap on first touch, then
// reuses freed chunks via segregated bins (small) and a single free list
// (large), coalescing neighbors on free.
type Allocator struct {
	h     *heap.Heap
	brk   int
	bins  [BinCount]int // head address (payload start) of each small free list; 0 = empty
	large int           // head address of the large free list; 0 = empty
	tr    *trace.AllocTrace
}

// New constructs an Allocator bump-allocating into h starting at offset 0.
func New(h *heap.Heap) *Allocator {
	return &Allocator{h: h}
}

// Heap returns the backing heap so callers can read/write payload bytes at
// the addresses Malloc/Calloc/Realloc return.
func (a *Allocator) Heap() *heap.Heap { return a.h }

// SetTrace attaches an AllocTrace to record Malloc/Free/coalesce/split
// events. Passing nil detaches it; a nil *trace.AllocTrace is itself a
// no-op, so callers never need to branch on whether tracing is enabled.
func (a *Allocator) SetTrace(tr *trace.AllocTrace) { a.tr = tr }

// normalize rounds a requested byte count up to the allocator's granularity.
func normalize(bytes int) int {
	if bytes <= 0 {
		bytes = 1
	}
	n := ((bytes + BinSize - 1) / BinSize) * BinSize
	if n < BinSize {
		n = BinSize
	}
	return n
}

// binIndex maps a payload size to its small-bin index, clamped to the valid
// range; callers must check size <= SmallBinLimit before trusting the exact
// bin boundary.
func binIndex(size int) int {
	idx := size/BinSize - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= BinCount {
		idx = BinCount - 1
	}
	return idx
}

func packHeader(size int, inUse bool) uint32 {
	v := uint32(size) << 1
	if inUse {
		v |= inUseBit
	}
	return v
}

func unpackHeader(v uint32) (size int, inUse bool) {
	return int(v >> 1), v&inUseBit != 0
}

func (a *Allocator) readHeader(headerAddr int) (size int, inUse bool, err error) {
	v, err := a.h.LWU(headerAddr)
	if err != nil {
		return 0, false, err
	}
	size, inUse = unpackHeader(v)
	return size, inUse, nil
}

func (a *Allocator) writeHeader(headerAddr, size int, inUse bool) error {
	return a.h.SW(headerAddr, int32(packHeader(size, inUse)))
}

// headerAddrOf, footerAddrOf and nextHeaderAddr return this chunk's header
// address, its footer address and the following chunk's header address,
// given its payload address (addr) and payload size.
func headerAddrOf(addr int) int        { return addr - HeaderSize }
func footerAddrOf(addr, size int) int  { return addr + size }
func nextHeaderAddr(addr, size int) int { return addr + size + FooterSize }

func (a *Allocator) setChunk(addr, size int, inUse bool) error {
	if err := a.writeHeader(headerAddrOf(addr), size, inUse); err != nil {
		return err
	}
	return a.writeHeader(footerAddrOf(addr, size), size, inUse)
}

// The free-list links read and written by getNext/setNext and
// getPrev/setPrev live in-band in a free chunk's own payload (it's not
// holding user data while free), mirroring classic in-band free-list
// allocators: next at payload+0, prev at payload+4.
func (a *Allocator) getNext(addr int) (int, error) {
	v, err := a.h.LWU(addr)
	return int(int32(v)), err
}

func (a *Allocator) setNext(addr, next int) error {
	return a.h.SW(addr, int32(next))
}

func (a *Allocator) getPrev(addr int) (int, error) {
	v, err := a.h.LWU(addr + 4)
	return int(int32(v)), err
}

func (a *Allocator) setPrev(addr, prev int) error {
	return a.h.SW(addr+4, int32(prev))
}

func (a *Allocator) listHead(size int) *int {
	if size <= SmallBinLimit {
		return &a.bins[binIndex(size)]
	}
	return &a.large
}

// pushFree inserts addr at the head of the free list appropriate for size.
func (a *Allocator) pushFree(size, addr int) error {
	head := a.listHead(size)
	if err := a.setNext(addr, *head); err != nil {
		return err
	}
	if err := a.setPrev(addr, 0); err != nil {
		return err
	}
	if *head != 0 {
		if err := a.setPrev(*head, addr); err != nil {
			return err
		}
	}
	*head = addr
	return nil
}

// removeFree unlinks addr from the free list appropriate for size.
func (a *Allocator) removeFree(size, addr int) error {
	next, err := a.getNext(addr)
	if err != nil {
		return err
	}
	prev, err := a.getPrev(addr)
	if err != nil {
		return err
	}
	head := a.listHead(size)
	if prev != 0 {
		if err := a.setNext(prev, next); err != nil {
			return err
		}
	} else {
		*head = next
	}
	if next != 0 {
		if err := a.setPrev(next, prev); err != nil {
			return err
		}
	}
	return nil
}

// findFit scans free lists from the requested size's bin upward (first
// small bins, then the large list), returning the first chunk whose
// payload is at least requested bytes. Bins are approximate size classes
// (a chunk's bin is its own floor(size/16)-1, which need not equal the
// requested size's bin after coalescing produces non-multiple-of-16
// sizes), so each bin's list is scanned in full rather than just its head.
func (a *Allocator) findFit(requested int) (addr, size int, found bool, err error) {
	start := 0
	if requested <= SmallBinLimit {
		start = binIndex(requested)
	} else {
		start = BinCount // skip straight to the large list
	}
	for b := start; b < BinCount; b++ {
		addr, size, found, err = a.scanList(a.bins[b], requested)
		if err != nil || found {
			return addr, size, found, err
		}
	}
	return a.scanList(a.large, requested)
}

func (a *Allocator) scanList(head, requested int) (addr, size int, found bool, err error) {
	for cur := head; cur != 0; {
		curSize, inUse, err := a.readHeader(headerAddrOf(cur))
		if err != nil {
			return 0, 0, false, err
		}
		if inUse {
			return 0, 0, false, nil // corrupted free list; stop rather than loop
		}
		if curSize >= requested {
			return cur, curSize, true, nil
		}
		cur, err = a.getNext(cur)
		if err != nil {
			return 0, 0, false, err
		}
	}
	return 0, 0, false, nil
}

// Malloc allocates at least bytes usable payload bytes, returning the
// payload's heap address.
func (a *Allocator) Malloc(bytes int) (int, error) {
	requested := normalize(bytes)

	addr, chunkSize, found, err := a.findFit(requested)
	if err != nil {
		return 0, err
	}
	if found {
		if err := a.removeFree(chunkSize, addr); err != nil {
			return 0, err
		}
		return a.carveAndUse(addr, chunkSize, requested)
	}

	// Bump-allocate: ensure heap capacity for header+payload+footer, then
	// advance brk (spec.md §4.7 step 3).
	headerAddr := a.brk
	addr = headerAddr + HeaderSize
	total := Overhead + requested
	a.h.EnsureCapacity(headerAddr + total)
	if err := a.setChunk(addr, requested, true); err != nil {
		return 0, err
	}
	a.brk = headerAddr + total
	a.tr.Record(trace.OpBump, addr, requested)
	return addr, nil
}

// carveAndUse marks [addr,addr+chunkSize) in use, splitting off a trailing
// free chunk first if the leftover meets SplitThreshold.
func (a *Allocator) carveAndUse(addr, chunkSize, requested int) (int, error) {
	leftover := chunkSize - requested
	if leftover >= SplitThreshold {
		tailPayload := leftover - Overhead
		tailAddr := addr + requested + Overhead
		if err := a.setChunk(tailAddr, tailPayload, false); err != nil {
			return 0, err
		}
		if err := a.pushFree(tailPayload, tailAddr); err != nil {
			return 0, err
		}
		if err := a.setChunk(addr, requested, true); err != nil {
			return 0, err
		}
		a.tr.Record(trace.OpSplit, addr, requested)
		a.tr.Record(trace.OpMalloc, addr, requested)
		return addr, nil
	}
	if err := a.setChunk(addr, chunkSize, true); err != nil {
		return 0, err
	}
	a.tr.Record(trace.OpMalloc, addr, chunkSize)
	return addr, nil
}

// Calloc allocates count*size bytes, zeroed.
func (a *Allocator) Calloc(count, size int) (int, error) {
	n := count * size
	addr, err := a.Malloc(n)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := a.h.Memset(addr, 0, n); err != nil {
			return 0, err
		}
	}
	return addr, nil
}

// Free releases addr, coalescing with an in-bounds free neighbor on either
// side (spec.md §4.7 free algorithm).
func (a *Allocator) Free(addr int) error {
	size, _, err := a.readHeader(headerAddrOf(addr))
	if err != nil {
		return err
	}

	// Merge with the next chunk if it's in-bounds and free.
	nextHdr := nextHeaderAddr(addr, size)
	if nextHdr < a.brk {
		nextSize, nextInUse, err := a.readHeader(nextHdr)
		if err != nil {
			return err
		}
		if !nextInUse {
			nextAddr := nextHdr + HeaderSize
			if err := a.removeFree(nextSize, nextAddr); err != nil {
				return err
			}
			size = size + Overhead + nextSize
			a.tr.Record(trace.OpCoalesce, addr, size)
		}
	}

	// Merge with the previous chunk via its footer if it's free.
	prevFooterAddr := headerAddrOf(addr) - FooterSize
	if prevFooterAddr >= 0 {
		prevSize, prevInUse, err := a.readHeader(prevFooterAddr)
		if err == nil && !prevInUse {
			prevAddr := prevFooterAddr - prevSize
			if err := a.removeFree(prevSize, prevAddr); err != nil {
				return err
			}
			size = prevSize + Overhead + size
			addr = prevAddr
			a.tr.Record(trace.OpCoalesce, addr, size)
		}
	}

	if err := a.setChunk(addr, size, false); err != nil {
		return err
	}
	a.tr.Record(trace.OpFree, addr, size)
	return a.pushFree(size, addr)
}

// Realloc resizes the allocation at addr. ptr==0 behaves as Malloc. Shrinks
// may split in place; growth always allocates new, copies min(old,new)
// bytes, and frees the old chunk — in-place growth is permitted by spec.md
// §4.7 but not required, and this allocator does not attempt it.
func (a *Allocator) Realloc(addr, newSize int) (int, error) {
	if addr == 0 {
		return a.Malloc(newSize)
	}
	requested := normalize(newSize)
	oldSize, _, err := a.readHeader(headerAddrOf(addr))
	if err != nil {
		return 0, err
	}
	if requested <= oldSize {
		leftover := oldSize - requested
		if leftover >= SplitThreshold {
			tailPayload := leftover - Overhead
			tailAddr := addr + requested + Overhead
			if err := a.setChunk(tailAddr, tailPayload, false); err != nil {
				return 0, err
			}
			if err := a.pushFree(tailPayload, tailAddr); err != nil {
				return 0, err
			}
			if err := a.setChunk(addr, requested, true); err != nil {
				return 0, err
			}
		}
		return addr, nil
	}

	newAddr, err := a.Malloc(newSize)
	if err != nil {
		return 0, err
	}
	if err := a.h.Memcpy(newAddr, addr, oldSize); err != nil {
		return 0, err
	}
	if err := a.Free(addr); err != nil {
		return 0, err
	}
	return newAddr, nil
}
