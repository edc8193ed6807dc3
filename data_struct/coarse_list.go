package data_struct

import (
	"container/list"
	"sync"
)

type coarseEntry[T any] struct {
	value T
	dead  bool
}

// CoarseList is a goroutine-safe list serialized by a single mutex.
type CoarseList[T any] struct {
	mu sync.Mutex
	l  *list.List
}

func NewCoarseList[T any]() *CoarseList[T] {
	return &CoarseList[T]{
		l: list.New(),
	}
}

type CoarseElement[T any] struct {
	cl  *CoarseList[T]
	ele *list.Element
}

func (cl *CoarseList[T]) wrap(ele *list.Element) *CoarseElement[T] {
	return &CoarseElement[T]{cl: cl, ele: ele}
}

func entryOf[T any](ele *list.Element) *coarseEntry[T] {
	return ele.Value.(*coarseEntry[T])
}

func (cl *CoarseList[T]) Len() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.l.Len()
}

func (cl *CoarseList[T]) PushBack(v T) *CoarseElement[T] {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.wrap(cl.l.PushBack(&coarseEntry[T]{value: v}))
}

func (cl *CoarseList[T]) PushFront(v T) *CoarseElement[T] {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.wrap(cl.l.PushFront(&coarseEntry[T]{value: v}))
}

func (cl *CoarseList[T]) InsertBefore(v T, mark *CoarseElement[T]) (*CoarseElement[T], error) {
	if mark == nil || mark.cl != cl {
		return nil, ErrForeignIterator
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if entryOf[T](mark.ele).dead {
		return nil, ErrStaleReference
	}
	return cl.wrap(cl.l.InsertBefore(&coarseEntry[T]{value: v}, mark.ele)), nil
}

func (cl *CoarseList[T]) Remove(e *CoarseElement[T]) error {
	if e == nil || e.cl != cl {
		return ErrForeignIterator
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()
	entry := entryOf[T](e.ele)
	if entry.dead {
		return ErrStaleReference
	}
	entry.dead = true
	cl.l.Remove(e.ele)
	return nil
}

func (cl *CoarseList[T]) Value(e *CoarseElement[T]) (T, error) {
	var zero T
	if e == nil || e.cl != cl {
		return zero, ErrForeignIterator
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()
	entry := entryOf[T](e.ele)
	if entry.dead {
		return zero, ErrStaleReference
	}
	return entry.value, nil
}

func (cl *CoarseList[T]) Find(pred func(T) bool) (*CoarseElement[T], bool) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for ele := cl.l.Front(); ele != nil; ele = ele.Next() {
		if pred(entryOf[T](ele).value) {
			return cl.wrap(ele), true
		}
	}
	return nil, false
}

func (cl *CoarseList[T]) Values() []T {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	values := make([]T, 0, cl.l.Len())
	for ele := cl.l.Front(); ele != nil; ele = ele.Next() {
		values = append(values, entryOf[T](ele).value)
	}
	return values
}
