package globaldata_test

import (
	"errors"
	"testing"

	"github.com/klang-rt/klang/globaldata"
	"github.com/klang-rt/klang/heap"
	"github.com/klang-rt/klang/malloc"
)

func newTable(t *testing.T, size int) *globaldata.Table {
	t.Helper()
	h := heap.New(4096)
	a := malloc.New(h)
	tbl, err := globaldata.New(a, size)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestDefineBSSZeroesMemory(t *testing.T) {
	h := heap.New(4096)
	tbl, err := globaldata.New(malloc.New(h), 256)
	if err != nil {
		t.Fatal(err)
	}
	// Dirty the whole region first so the zero-fill is observable.
	if err := h.Memset(tbl.Base(), 0xFF, 256); err != nil {
		t.Fatal(err)
	}
	addr, err := tbl.DefineBSS("counter", 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if addr%8 != 0 {
		t.Errorf("BSS address %d not 8-byte aligned", addr)
	}
	if got, ok := tbl.Lookup("counter"); !ok || got != addr {
		t.Errorf("Lookup(counter) = %d,%v, want %d,true", got, ok, addr)
	}
	for i := 0; i < 8; i++ {
		if b, err := h.LBU(addr + i); err != nil || b != 0 {
			t.Errorf("BSS byte %d = 0x%X,%v, want 0,nil", i, b, err)
		}
	}
}

func TestDefineDataCopiesInitializer(t *testing.T) {
	h := heap.New(4096)
	tbl, err := globaldata.New(malloc.New(h), 256)
	if err != nil {
		t.Fatal(err)
	}
	addr, err := tbl.DefineData("greeting", []byte("hi"), 4)
	if err != nil {
		t.Fatal(err)
	}
	if addr%4 != 0 {
		t.Errorf("DATA address %d not 4-byte aligned", addr)
	}
	for i, want := range []byte("hi") {
		if b, err := h.LBU(addr + i); err != nil || b != want {
			t.Errorf("DATA byte %d = %q,%v, want %q,nil", i, b, err, want)
		}
	}
}

func TestDuplicateNameRejected(t *testing.T) {
	tbl := newTable(t, 256)
	if _, err := tbl.DefineBSS("x", 4, 4); err != nil {
		t.Fatal(err)
	}
	_, err := tbl.DefineBSS("x", 4, 4)
	var dup *globaldata.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Errorf("second DefineBSS(x) error = %v, want DuplicateNameError", err)
	}
}

func TestOutOfSpace(t *testing.T) {
	tbl := newTable(t, 8)
	if _, err := tbl.DefineBSS("a", 4, 4); err != nil {
		t.Fatal(err)
	}
	_, err := tbl.DefineBSS("b", 16, 4)
	var oos *globaldata.OutOfSpaceError
	if !errors.As(err, &oos) {
		t.Errorf("DefineBSS(b,16) error = %v, want OutOfSpaceError", err)
	}
}

func TestLookupMissingSymbol(t *testing.T) {
	tbl := newTable(t, 64)
	if _, ok := tbl.Lookup("nope"); ok {
		t.Error("Lookup(nope) should report not found")
	}
}
