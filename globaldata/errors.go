package globaldata

import "fmt"

// DuplicateNameError is returned when DefineBSS/DefineData is called twice
// with the same symbol name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("globaldata: symbol %q already defined", e.Name)
}

// OutOfSpaceError is returned when the table's reserved region cannot fit a
// new symbol.
type OutOfSpaceError struct {
	Name string
	Size int
}

func (e *OutOfSpaceError) Error() string {
	return fmt.Sprintf("globaldata: no room for symbol %q (%d bytes)", e.Name, e.Size)
}
