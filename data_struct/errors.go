package data_struct

import "fmt"

var (
	ErrStaleReference         = fmt.Errorf("stale reference, node already erased")
	ErrConcurrentModification = fmt.Errorf("concurrent modification, retry budget exhausted")
	ErrEmptyListAccess        = fmt.Errorf("access to end() of an empty list")
	ErrEndDereference         = fmt.Errorf("dereference of end()")
	ErrOutOfRange             = fmt.Errorf("iterator moved out of range")
	ErrForeignIterator        = fmt.Errorf("iterator used outside its owning goroutine or list")
)
