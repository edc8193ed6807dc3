package data_struct

import "sync"

// node is a link of a ConcurrentList. mu guards prev, next, value and dead.
// An erased node keeps its last links so iterators parked on it can still
// move forward or backward in chain order.
type node[T any] struct {
	mu       sync.RWMutex
	prev     *node[T]
	next     *node[T]
	value    T
	dead     bool
	sentinel bool
}

func (n *node[T]) load() (T, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.dead {
		var zero T
		return zero, ErrStaleReference
	}
	return n.value, nil
}

func (n *node[T]) update(fn func(*T)) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.dead {
		return ErrStaleReference
	}
	fn(&n.value)
	return nil
}

func (n *node[T]) links() (prev, next *node[T]) {
	n.mu.RLock()
	prev, next = n.prev, n.next
	n.mu.RUnlock()
	return
}

func (n *node[T]) isDead() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.dead
}
