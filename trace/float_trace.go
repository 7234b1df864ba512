// Package trace implements FloatTrace and AllocTrace: capped, Enabled-gated
// event logs adapted from the teacher's vm/flag_trace.go and
// vm/stack_trace.go. Record stops appending once MaxEntries is reached
// rather than wrapping over the oldest entries — a cap on log size, not a
// ring buffer. Both are optional collaborators — nil-safe no-ops when not
// attached — the way the teacher's traces gate everything on an Enabled
// flag rather than requiring callers to check for a nil trace.
package trace

import (
	"fmt"
	"io"
)

// FloatOp names the software-float operation a FloatEntry records.
type FloatOp string

const (
	OpAdd  FloatOp = "ADD"
	OpSub  FloatOp = "SUB"
	OpMul  FloatOp = "MUL"
	OpDiv  FloatOp = "DIV"
	OpSqrt FloatOp = "SQRT"
	OpCmp  FloatOp = "CMP"
)

// FloatEntry is a single recorded software-float operation: its operand
// and result bit patterns and whether IEEE rounding or a special case
// (NaN, infinity, subnormal) applied.
type FloatEntry struct {
	Sequence uint64
	Width    int // 16, 32, 64, or 128
	Op       FloatOp
	A, B     uint64 // operand bit patterns (B unused for unary ops)
	Result   uint64 // result bit pattern
	Rounded  bool   // true if the result differs from the exact mathematical value
	Special  string // "", "nan", "inf", "subnormal"
}

// FloatTrace records software-float operation boundaries: the analogue of
// the teacher's FlagTrace, which recorded CPSR flag transitions — here it
// records IEEE-754 rounding and special-case transitions instead. A nil
// *FloatTrace is safe to call Record on: every method checks for nil
// first, so kernel code can unconditionally call trace.Record(...) without
// a caller having to guard it.
type FloatTrace struct {
	Enabled    bool
	Writer     io.Writer
	MaxEntries int

	entries  []FloatEntry
	sequence uint64
}

// NewFloatTrace creates an enabled FloatTrace writing to w.
func NewFloatTrace(w io.Writer) *FloatTrace {
	return &FloatTrace{
		Enabled:    true,
		Writer:     w,
		MaxEntries: 100000,
		entries:    make([]FloatEntry, 0, 1000),
	}
}

// Record appends a FloatEntry, dropping it once MaxEntries is already
// reached. Safe to call on a nil *FloatTrace.
func (t *FloatTrace) Record(width int, op FloatOp, a, b, result uint64, rounded bool, special string) {
	if t == nil || !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}

	t.entries = append(t.entries, FloatEntry{
		Sequence: t.sequence,
		Width:    width,
		Op:       op,
		A:        a,
		B:        b,
		Result:   result,
		Rounded:  rounded,
		Special:  special,
	})
	t.sequence++
}

// Entries returns all recorded entries.
func (t *FloatTrace) Entries() []FloatEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Clear discards all recorded entries.
func (t *FloatTrace) Clear() {
	if t == nil {
		return
	}
	t.entries = t.entries[:0]
	t.sequence = 0
}

// Flush writes all entries to Writer. Safe to call on a nil *FloatTrace
// or one with a nil Writer.
func (t *FloatTrace) Flush() error {
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

func (t *FloatTrace) writeEntry(e FloatEntry) error {
	line := fmt.Sprintf("[%06d] f%-3d %-4s a=0x%X b=0x%X -> 0x%X",
		e.Sequence, e.Width, e.Op, e.A, e.B, e.Result)
	if e.Rounded {
		line += " | rounded"
	}
	if e.Special != "" {
		line += " | " + e.Special
	}
	line += "\n"

	_, err := t.Writer.Write([]byte(line))
	return err
}
