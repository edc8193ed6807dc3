package data_struct

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"clist/assert"
	"clist/sync2"
)

// errRetry reports that a neighbourhood changed between the unlocked
// snapshot and lock acquisition.
var errRetry = fmt.Errorf("neighbourhood changed, retry")

// ConcurrentList is a doubly-linked list with one lock per node.
//
// Lock order is global: the anchor first, then node locks in chain order
// (prev before cur before next, the tail sentinel last). Insert and Erase
// both follow it, so no two operations ever wait on each other in a cycle.
// The anchor only guards head and the sentinel identity, never the interior
// of the chain, so operations on disjoint ranges run in parallel.
//
// The zero value is an empty list ready to use.
type ConcurrentList[T any] struct {
	anchor   sync.Mutex
	head     *node[T]
	sentinel *node[T]

	size    sync2.AtomicInt64
	opts    Options
	tracker *lockTracker
}

func NewConcurrentList[T any](opts ...Options) *ConcurrentList[T] {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0].normalize()
	}
	l := &ConcurrentList[T]{opts: o}
	if o.TrackLocks {
		l.tracker = newLockTracker()
	}
	l.sentinel = &node[T]{sentinel: true}
	return l
}

func (l *ConcurrentList[T]) Len() int {
	return int(l.size.Get())
}

func (l *ConcurrentList[T]) maxRetries() int {
	if l.opts.MaxRetries <= 0 {
		return defaultMaxRetries
	}
	return l.opts.MaxRetries
}

func (l *ConcurrentList[T]) ownerTag() int64 {
	if l.opts.SkipOwnerCheck {
		return 0
	}
	return sync2.GoroutineID()
}

func (l *ConcurrentList[T]) lockAnchor() {
	l.tracker.acquireAnchor()
	l.anchor.Lock()
}

func (l *ConcurrentList[T]) unlockAnchor() {
	l.anchor.Unlock()
	l.tracker.releaseAnchor()
}

func (l *ConcurrentList[T]) lockNode(n *node[T]) {
	l.tracker.acquireNode(n)
	n.mu.Lock()
}

func (l *ConcurrentList[T]) unlockNode(n *node[T]) {
	n.mu.Unlock()
	l.tracker.releaseNode(n)
}

// sentinelLocked must be called with the anchor held.
func (l *ConcurrentList[T]) sentinelLocked() *node[T] {
	if l.sentinel == nil {
		l.sentinel = &node[T]{sentinel: true}
	}
	return l.sentinel
}

func (l *ConcurrentList[T]) beginNode() *node[T] {
	l.lockAnchor()
	defer l.unlockAnchor()
	s := l.sentinelLocked()
	if l.head == nil {
		return s
	}
	return l.head
}

func (l *ConcurrentList[T]) endNode() *node[T] {
	l.lockAnchor()
	defer l.unlockAnchor()
	return l.sentinelLocked()
}

// Begin returns an iterator to the first element, or End() if the list is
// empty.
func (l *ConcurrentList[T]) Begin() *Iterator[T] {
	owner := l.ownerTag()
	return &Iterator[T]{list: l, node: l.beginNode(), owner: owner}
}

// End returns an iterator to the tail sentinel. Its identity never changes
// for the lifetime of the list.
func (l *ConcurrentList[T]) End() *Iterator[T] {
	owner := l.ownerTag()
	return &Iterator[T]{list: l, node: l.endNode(), owner: owner}
}

func (l *ConcurrentList[T]) checkIterator(it *Iterator[T]) error {
	if it == nil || it.list != l || it.node == nil {
		return ErrForeignIterator
	}
	return it.checkOwner()
}

// Insert puts value immediately before position and returns an iterator to
// the new element. position may be End().
func (l *ConcurrentList[T]) Insert(position *Iterator[T], value T) (*Iterator[T], error) {
	if err := l.checkIterator(position); err != nil {
		return nil, err
	}
	n, err := l.insertBefore(position.node, value)
	if err != nil {
		return nil, err
	}
	return &Iterator[T]{list: l, node: n, owner: position.owner}, nil
}

func (l *ConcurrentList[T]) PushBack(value T) (*Iterator[T], error) {
	owner := l.ownerTag()
	n, err := l.insertBefore(l.endNode(), value)
	if err != nil {
		return nil, err
	}
	return &Iterator[T]{list: l, node: n, owner: owner}, nil
}

func (l *ConcurrentList[T]) PushFront(value T) (*Iterator[T], error) {
	owner := l.ownerTag()
	for attempt := 0; attempt < l.maxRetries(); attempt++ {
		n, err := l.insertBefore(l.beginNode(), value)
		if err == ErrStaleReference {
			// The head we read was erased before we locked it.
			continue
		}
		if err != nil {
			return nil, err
		}
		return &Iterator[T]{list: l, node: n, owner: owner}, nil
	}
	return nil, ErrConcurrentModification
}

func (l *ConcurrentList[T]) insertBefore(cur *node[T], value T) (*node[T], error) {
	for attempt := 0; attempt < l.maxRetries(); attempt++ {
		prev, _ := cur.links()

		var (
			n   *node[T]
			err error
		)
		if prev == nil {
			n, err = l.insertFront(cur, value)
		} else {
			n, err = l.insertBetween(prev, cur, value)
		}
		if err == errRetry {
			glog.V(glogLevelRetry).Infof("insert: neighbourhood changed, attempt %d", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		l.size.Add(1)
		return n, nil
	}
	glog.V(glogLevelRetry).Infof("insert: gave up after %d attempts", l.maxRetries())
	return nil, ErrConcurrentModification
}

func (l *ConcurrentList[T]) insertFront(cur *node[T], value T) (*node[T], error) {
	l.lockAnchor()
	defer l.unlockAnchor()
	l.lockNode(cur)
	defer l.unlockNode(cur)

	if cur.dead {
		return nil, ErrStaleReference
	}
	if cur.prev != nil {
		return nil, errRetry
	}
	assert.Mustf(l.head == cur || (l.head == nil && cur.sentinel), "first node of the chain is not head")

	n := &node[T]{next: cur, value: value}
	cur.prev = n
	l.head = n
	glog.V(glogLevelSplice).Infof("insert: new head")
	return n, nil
}

func (l *ConcurrentList[T]) insertBetween(prev, cur *node[T], value T) (*node[T], error) {
	l.lockNode(prev)
	defer l.unlockNode(prev)
	l.lockNode(cur)
	defer l.unlockNode(cur)

	if cur.dead {
		return nil, ErrStaleReference
	}
	if prev.dead || prev.next != cur || cur.prev != prev {
		return nil, errRetry
	}

	n := &node[T]{prev: prev, next: cur, value: value}
	prev.next = n
	cur.prev = n
	glog.V(glogLevelSplice).Infof("insert: spliced between neighbours")
	return n, nil
}

// Erase unlinks the element at position. Iterators parked on it stay usable
// for navigation, but reading through them yields ErrStaleReference.
func (l *ConcurrentList[T]) Erase(position *Iterator[T]) error {
	if err := l.checkIterator(position); err != nil {
		return err
	}
	cur := position.node
	if cur.sentinel {
		return endError(cur)
	}
	for attempt := 0; attempt < l.maxRetries(); attempt++ {
		prev, next := cur.links()
		err := l.unlink(prev, cur, next)
		if err == errRetry {
			glog.V(glogLevelRetry).Infof("erase: neighbourhood changed, attempt %d", attempt)
			continue
		}
		if err != nil {
			return err
		}
		l.size.Add(-1)
		return nil
	}
	glog.V(glogLevelRetry).Infof("erase: gave up after %d attempts", l.maxRetries())
	return ErrConcurrentModification
}

func (l *ConcurrentList[T]) unlink(prev, cur, next *node[T]) error {
	assert.Mustf(next != nil, "non-sentinel node without successor")

	if prev == nil {
		l.lockAnchor()
		defer l.unlockAnchor()
	} else {
		l.lockNode(prev)
		defer l.unlockNode(prev)
	}
	l.lockNode(cur)
	defer l.unlockNode(cur)
	l.lockNode(next)
	defer l.unlockNode(next)

	if cur.dead {
		return ErrStaleReference
	}
	if cur.prev != prev || cur.next != next || next.prev != cur {
		return errRetry
	}
	if prev == nil {
		if l.head != cur {
			return errRetry
		}
		if next.sentinel {
			l.head = nil
		} else {
			l.head = next
		}
	} else {
		if prev.dead || prev.next != cur {
			return errRetry
		}
		prev.next = next
	}
	next.prev = prev

	// Tombstone before the lock is released: whoever locks cur next sees it.
	cur.dead = true
	glog.V(glogLevelSplice).Infof("erase: unlinked node")
	return nil
}

// walk visits live nodes from Begin() to End(), following frozen links
// through erased nodes. It stops when fn returns false.
func (l *ConcurrentList[T]) walk(fn func(n *node[T], v T) bool) {
	for n := l.beginNode(); !n.sentinel; _, n = n.links() {
		v, err := n.load()
		if err != nil {
			continue
		}
		if !fn(n, v) {
			return
		}
	}
}

// Find returns an iterator to the first live element matching pred.
func (l *ConcurrentList[T]) Find(pred func(T) bool) (*Iterator[T], bool) {
	owner := l.ownerTag()
	var found *node[T]
	l.walk(func(n *node[T], v T) bool {
		if pred(v) {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return &Iterator[T]{list: l, node: found, owner: owner}, true
}

// ForEachLoosed calls cb for each live element in chain order. It does not
// take a consistent snapshot: elements inserted or erased concurrently may
// or may not be visited.
func (l *ConcurrentList[T]) ForEachLoosed(cb func(T) bool) {
	l.walk(func(_ *node[T], v T) bool {
		return cb(v)
	})
}

func (l *ConcurrentList[T]) Values() []T {
	values := make([]T, 0, l.Len())
	l.ForEachLoosed(func(v T) bool {
		values = append(values, v)
		return true
	})
	return values
}

func endError[T any](sentinel *node[T]) error {
	if prev, _ := sentinel.links(); prev == nil {
		return ErrEmptyListAccess
	}
	return ErrEndDereference
}
