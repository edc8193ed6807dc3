package data_struct

import "clist/sync2"

// Iterator names a position in a ConcurrentList. It holds no lock between
// calls and does not keep its element alive in the list: once the element
// is erased, Value, Set and Update fail with ErrStaleReference while Next and
// Prev keep working from the element's last known neighbours.
//
// An Iterator belongs to the goroutine that created it. Using it from any
// other goroutine fails with ErrForeignIterator unless the list was built
// with Options.SkipOwnerCheck.
type Iterator[T any] struct {
	list  *ConcurrentList[T]
	node  *node[T]
	owner int64
}

func (it *Iterator[T]) checkOwner() error {
	if it == nil || it.node == nil {
		return ErrForeignIterator
	}
	if it.list.opts.SkipOwnerCheck {
		return nil
	}
	if sync2.GoroutineID() != it.owner {
		return ErrForeignIterator
	}
	return nil
}

func (it *Iterator[T]) Value() (T, error) {
	var zero T
	if err := it.checkOwner(); err != nil {
		return zero, err
	}
	if it.node.sentinel {
		return zero, endError(it.node)
	}
	return it.node.load()
}

// Update runs fn on the element under its lock. fn must not keep the
// pointer it is given.
func (it *Iterator[T]) Update(fn func(*T)) error {
	if err := it.checkOwner(); err != nil {
		return err
	}
	if it.node.sentinel {
		return endError(it.node)
	}
	return it.node.update(fn)
}

func (it *Iterator[T]) Set(value T) error {
	return it.Update(func(v *T) {
		*v = value
	})
}

func (it *Iterator[T]) Next() error {
	if err := it.checkOwner(); err != nil {
		return err
	}
	if it.node.sentinel {
		return ErrOutOfRange
	}
	_, next := it.node.links()
	it.node = next
	return nil
}

func (it *Iterator[T]) Prev() error {
	if err := it.checkOwner(); err != nil {
		return err
	}
	prev, _ := it.node.links()
	if prev == nil {
		return ErrOutOfRange
	}
	it.node = prev
	return nil
}

// Equal reports whether both iterators name the same position.
func (it *Iterator[T]) Equal(other *Iterator[T]) bool {
	if it == nil || other == nil {
		return it == other
	}
	return it.node == other.node
}

func (it *Iterator[T]) IsEnd() bool {
	return it != nil && it.node != nil && it.node.sentinel
}

// Stale reports whether the element was erased.
func (it *Iterator[T]) Stale() bool {
	return it != nil && it.node != nil && it.node.isDead()
}

// Clone copies the iterator for use by the same goroutine.
func (it *Iterator[T]) Clone() (*Iterator[T], error) {
	if err := it.checkOwner(); err != nil {
		return nil, err
	}
	cloned := *it
	return &cloned, nil
}
