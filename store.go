package clist

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/lists/doublylinkedlist"

	"clist/data_struct"
)

// Store is a list of unique int64 values addressed by value.
type Store interface {
	PushFront(v int64) error
	PushBack(v int64) error
	// InsertBefore inserts v right before the element holding anchor.
	InsertBefore(anchor, v int64) error
	Erase(v int64) error
	Values() []int64
	Len() int
}

const (
	StoreFine   = "fine"
	StoreCoarse = "coarse"
)

func NewStore(kind string, opts data_struct.Options) (Store, error) {
	switch kind {
	case StoreFine, "":
		return NewFineStore(opts), nil
	case StoreCoarse:
		return NewCoarseStore(), nil
	default:
		return nil, fmt.Errorf("unknown store '%s'", kind)
	}
}

// classifyListError maps a list error to an OpError.
func classifyListError(err error) error {
	if err == nil {
		return nil
	}
	return NewOpError(err, errors.Is(err, data_struct.ErrConcurrentModification))
}

// fineStore runs on the per-node locked list.
type fineStore struct {
	l *data_struct.ConcurrentList[int64]
}

func NewFineStore(opts data_struct.Options) Store {
	return &fineStore{l: data_struct.NewConcurrentList[int64](opts)}
}

func (s *fineStore) PushFront(v int64) error {
	_, err := s.l.PushFront(v)
	return classifyListError(err)
}

func (s *fineStore) PushBack(v int64) error {
	_, err := s.l.PushBack(v)
	return classifyListError(err)
}

// withValue finds the element holding v and runs fn on it. fn failing with
// ErrStaleReference means the element was erased after the lookup; the
// lookup is redone, and normally reports ErrValueNotFound next.
func (s *fineStore) withValue(v int64, fn func(it *data_struct.Iterator[int64]) error) error {
	for {
		it, ok := s.l.Find(func(x int64) bool { return x == v })
		if !ok {
			return NewOpError(ErrValueNotFound, false)
		}
		err := fn(it)
		if errors.Is(err, data_struct.ErrStaleReference) {
			continue
		}
		return classifyListError(err)
	}
}

func (s *fineStore) InsertBefore(anchor, v int64) error {
	return s.withValue(anchor, func(it *data_struct.Iterator[int64]) error {
		_, err := s.l.Insert(it, v)
		return err
	})
}

func (s *fineStore) Erase(v int64) error {
	return s.withValue(v, func(it *data_struct.Iterator[int64]) error {
		return s.l.Erase(it)
	})
}

func (s *fineStore) Values() []int64 {
	return s.l.Values()
}

func (s *fineStore) Len() int {
	return s.l.Len()
}

// coarseStore runs on the single mutex list.
type coarseStore struct {
	cl *data_struct.CoarseList[int64]
}

func NewCoarseStore() Store {
	return &coarseStore{cl: data_struct.NewCoarseList[int64]()}
}

func (s *coarseStore) PushFront(v int64) error {
	s.cl.PushFront(v)
	return nil
}

func (s *coarseStore) PushBack(v int64) error {
	s.cl.PushBack(v)
	return nil
}

func (s *coarseStore) withValue(v int64, fn func(e *data_struct.CoarseElement[int64]) error) error {
	for {
		e, ok := s.cl.Find(func(x int64) bool { return x == v })
		if !ok {
			return NewOpError(ErrValueNotFound, false)
		}
		err := fn(e)
		if errors.Is(err, data_struct.ErrStaleReference) {
			continue
		}
		return classifyListError(err)
	}
}

func (s *coarseStore) InsertBefore(anchor, v int64) error {
	return s.withValue(anchor, func(e *data_struct.CoarseElement[int64]) error {
		_, err := s.cl.InsertBefore(v, e)
		return err
	})
}

func (s *coarseStore) Erase(v int64) error {
	return s.withValue(v, func(e *data_struct.CoarseElement[int64]) error {
		return s.cl.Remove(e)
	})
}

func (s *coarseStore) Values() []int64 {
	return s.cl.Values()
}

func (s *coarseStore) Len() int {
	return s.cl.Len()
}

// referenceStore is a plain doubly-linked list. Not goroutine-safe: only
// EngineNaive may drive it.
type referenceStore struct {
	l *doublylinkedlist.List
}

func NewReferenceStore() Store {
	return &referenceStore{l: doublylinkedlist.New()}
}

func (s *referenceStore) PushFront(v int64) error {
	s.l.Prepend(v)
	return nil
}

func (s *referenceStore) PushBack(v int64) error {
	s.l.Append(v)
	return nil
}

func (s *referenceStore) InsertBefore(anchor, v int64) error {
	idx := s.l.IndexOf(anchor)
	if idx < 0 {
		return NewOpError(ErrValueNotFound, false)
	}
	s.l.Insert(idx, v)
	return nil
}

func (s *referenceStore) Erase(v int64) error {
	idx := s.l.IndexOf(v)
	if idx < 0 {
		return NewOpError(ErrValueNotFound, false)
	}
	s.l.Remove(idx)
	return nil
}

func (s *referenceStore) Values() []int64 {
	values := make([]int64, 0, s.l.Size())
	s.l.Each(func(_ int, v interface{}) {
		values = append(values, v.(int64))
	})
	return values
}

func (s *referenceStore) Len() int {
	return s.l.Size()
}
