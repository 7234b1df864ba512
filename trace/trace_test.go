package trace_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klang-rt/klang/trace"
)

func TestFloatTraceRecordsAndFlushes(t *testing.T) {
	var buf bytes.Buffer
	ft := trace.NewFloatTrace(&buf)
	ft.Record(32, trace.OpAdd, 0x40000000, 0x3F800000, 0x40400000, false, "")
	ft.Record(32, trace.OpDiv, 0x7F800000, 0, 0x7FC00000, false, "nan")

	if len(ft.Entries()) != 2 {
		t.Fatalf("Entries() len = %d, want 2", len(ft.Entries()))
	}
	if err := ft.Flush(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "ADD") || !strings.Contains(out, "nan") {
		t.Errorf("flushed output missing expected content: %q", out)
	}
}

func TestFloatTraceNilSafe(t *testing.T) {
	var ft *trace.FloatTrace
	ft.Record(32, trace.OpAdd, 0, 0, 0, false, "")
	if err := ft.Flush(); err != nil {
		t.Errorf("Flush on nil trace should not error, got %v", err)
	}
	if ft.Entries() != nil {
		t.Error("Entries() on nil trace should be nil")
	}
}

func TestFloatTraceMaxEntriesCap(t *testing.T) {
	ft := trace.NewFloatTrace(nil)
	ft.MaxEntries = 2
	ft.Record(32, trace.OpAdd, 0, 0, 0, false, "")
	ft.Record(32, trace.OpAdd, 0, 0, 0, false, "")
	ft.Record(32, trace.OpAdd, 0, 0, 0, false, "")
	if len(ft.Entries()) != 2 {
		t.Errorf("Entries() len = %d, want 2 (capped)", len(ft.Entries()))
	}
}

func TestAllocTraceRecordsAndFlushes(t *testing.T) {
	var buf bytes.Buffer
	at := trace.NewAllocTrace(&buf)
	at.Record(trace.OpMalloc, 4, 48)
	at.Record(trace.OpFree, 4, 48)
	at.Record(trace.OpCoalesce, 4, 96)

	if len(at.Entries()) != 3 {
		t.Fatalf("Entries() len = %d, want 3", len(at.Entries()))
	}
	if err := at.Flush(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "MALLOC") || !strings.Contains(out, "COALESCE") {
		t.Errorf("flushed output missing expected content: %q", out)
	}
}

func TestAllocTraceNilSafe(t *testing.T) {
	var at *trace.AllocTrace
	at.Record(trace.OpMalloc, 0, 0)
	at.Clear()
	if err := at.Flush(); err != nil {
		t.Errorf("Flush on nil trace should not error, got %v", err)
	}
}

func TestAllocTraceClear(t *testing.T) {
	at := trace.NewAllocTrace(nil)
	at.Record(trace.OpMalloc, 0, 16)
	at.Clear()
	if len(at.Entries()) != 0 {
		t.Errorf("Entries() len = %d after Clear, want 0", len(at.Entries()))
	}
}
