package trace

import (
	"fmt"
	"io"
)

// AllocOp names the allocator event an AllocEntry records.
type AllocOp string

const (
	OpMalloc   AllocOp = "MALLOC"
	OpFree     AllocOp = "FREE"
	OpCoalesce AllocOp = "COALESCE"
	OpSplit    AllocOp = "SPLIT"
	OpBump     AllocOp = "BUMP"
)

// AllocEntry is a single recorded KMalloc event.
type AllocEntry struct {
	Sequence uint64
	Op       AllocOp
	Addr     int // payload address the event concerns
	Size     int // chunk payload size involved
}

// AllocTrace records KMalloc allocation/free/coalesce/split events: the
// analogue of the teacher's StackTrace, which recorded push/pop stack
// operations — here it records chunk lifecycle events instead. A nil
// *AllocTrace is safe to call Record on.
type AllocTrace struct {
	Enabled    bool
	Writer     io.Writer
	MaxEntries int

	entries  []AllocEntry
	sequence uint64
}

// NewAllocTrace creates an enabled AllocTrace writing to w.
func NewAllocTrace(w io.Writer) *AllocTrace {
	return &AllocTrace{
		Enabled:    true,
		Writer:     w,
		MaxEntries: 100000,
		entries:    make([]AllocEntry, 0, 1000),
	}
}

// Record appends an AllocEntry, dropping it once MaxEntries is already
// reached. Safe to call on a nil *AllocTrace.
func (t *AllocTrace) Record(op AllocOp, addr, size int) {
	if t == nil || !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}

	t.entries = append(t.entries, AllocEntry{
		Sequence: t.sequence,
		Op:       op,
		Addr:     addr,
		Size:     size,
	})
	t.sequence++
}

// Entries returns all recorded entries.
func (t *AllocTrace) Entries() []AllocEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Clear discards all recorded entries.
func (t *AllocTrace) Clear() {
	if t == nil {
		return
	}
	t.entries = t.entries[:0]
	t.sequence = 0
}

// Flush writes all entries to Writer. Safe to call on a nil *AllocTrace
// or one with a nil Writer.
func (t *AllocTrace) Flush() error {
	if t == nil || t.Writer == nil {
		return nil
	}
	for _, e := range t.entries {
		if err := t.writeEntry(e); err != nil {
			return err
		}
	}
	return nil
}

func (t *AllocTrace) writeEntry(e AllocEntry) error {
	line := fmt.Sprintf("[%06d] %-8s addr=%d size=%d\n", e.Sequence, e.Op, e.Addr, e.Size)
	_, err := t.Writer.Write([]byte(line))
	return err
}
