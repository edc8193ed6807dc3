package data_struct

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"
)

// advance moves it up to steps positions forward, stopping at end().
func advance[T any](it *Iterator[T], steps int) error {
	for i := 0; i < steps; i++ {
		if err := it.Next(); err != nil {
			if errors.Is(err, ErrOutOfRange) {
				return nil
			}
			return err
		}
	}
	return nil
}

func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("did not complete within %s, possible deadlock", timeout)
	}
}

func TestConcurrentList_ConcurrentInsertsNoLoss(t *testing.T) {
	const (
		threadNum = 8
		perThread = 500
	)
	l := NewConcurrentList[int](Options{TrackLocks: true})

	runWithTimeout(t, time.Minute, func() {
		var wg sync.WaitGroup
		for g := 0; g < threadNum; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				rng := rand.New(rand.NewSource(int64(g)))
				for i := 0; i < perThread; i++ {
					v := g*perThread + i
					for {
						it := l.Begin()
						if err := advance(it, rng.Intn(l.Len()+1)); err != nil {
							t.Errorf("advance: %v", err)
							return
						}
						_, err := l.Insert(it, v)
						if err == nil {
							break
						}
						if !errors.Is(err, ErrConcurrentModification) {
							t.Errorf("insert %d: %v", v, err)
							return
						}
					}
				}
			}(g)
		}
		wg.Wait()
	})

	values := l.Values()
	if len(values) != threadNum*perThread || l.Len() != threadNum*perThread {
		t.Fatalf("expect %d values, got %d (Len %d)", threadNum*perThread, len(values), l.Len())
	}
	sort.Ints(values)
	for i, v := range values {
		if v != i {
			t.Fatalf("value %d missing or duplicated (got %d at %d)", i, v, i)
		}
	}
	checkChain(t, l)
}

func TestConcurrentList_EraseRacesDereference(t *testing.T) {
	for round := 0; round < 300; round++ {
		l := NewConcurrentList[int]()
		for i := 0; i < 3; i++ {
			_, _ = l.PushBack(i * 100)
		}

		var wg, ready sync.WaitGroup
		start := make(chan struct{})
		wg.Add(2)
		ready.Add(2)
		go func() {
			defer wg.Done()
			it, ok := l.Find(func(v int) bool { return v == 100 })
			ready.Done()
			if !ok {
				t.Errorf("round %d: 100 not found", round)
				return
			}
			<-start
			if err := l.Erase(it); err != nil {
				t.Errorf("round %d: erase: %v", round, err)
			}
		}()
		go func() {
			defer wg.Done()
			it := l.Begin()
			err := it.Next()
			ready.Done()
			if err != nil {
				t.Errorf("round %d: next: %v", round, err)
				return
			}
			<-start
			for i := 0; i < 3; i++ {
				v, err := it.Value()
				if err != nil && !errors.Is(err, ErrStaleReference) {
					t.Errorf("round %d: unexpected error %v", round, err)
				}
				if err == nil && v != 100 {
					t.Errorf("round %d: read %d, want 100 or ErrStaleReference", round, v)
				}
			}
		}()
		// Both iterators sit on 100 before either side goes.
		ready.Wait()
		close(start)
		wg.Wait()

		values := l.Values()
		if len(values) != 2 || values[0] != 0 || values[1] != 200 {
			t.Fatalf("round %d: got %v", round, values)
		}
	}
}

func TestConcurrentList_RandomizedStressNoDeadlock(t *testing.T) {
	const (
		threadNum = 16
		opsNum    = 2000
	)
	l := NewConcurrentList[int](Options{TrackLocks: true})
	for i := 0; i < 64; i++ {
		_, _ = l.PushBack(-i)
	}

	var inserted, erased [threadNum]int
	runWithTimeout(t, 2*time.Minute, func() {
		var wg sync.WaitGroup
		for g := 0; g < threadNum; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				rng := rand.New(rand.NewSource(int64(1000 + g)))
				for i := 0; i < opsNum; i++ {
					it := l.Begin()
					if err := advance(it, rng.Intn(8)); err != nil {
						t.Errorf("advance: %v", err)
						return
					}
					switch rng.Intn(3) {
					case 0:
						err := l.Erase(it)
						switch {
						case err == nil:
							erased[g]++
						case errors.Is(err, ErrStaleReference),
							errors.Is(err, ErrEndDereference),
							errors.Is(err, ErrEmptyListAccess),
							errors.Is(err, ErrConcurrentModification):
						default:
							t.Errorf("erase: %v", err)
						}
					case 1:
						_, _ = it.Value()
						_ = it.Update(func(v *int) { *v++ })
						_ = it.Prev()
					default:
						_, err := l.Insert(it, g*opsNum+i)
						switch {
						case err == nil:
							inserted[g]++
						case errors.Is(err, ErrStaleReference),
							errors.Is(err, ErrConcurrentModification):
						default:
							t.Errorf("insert: %v", err)
						}
					}
				}
			}(g)
		}
		wg.Wait()
	})

	expect := 64
	for g := 0; g < threadNum; g++ {
		expect += inserted[g] - erased[g]
	}
	if l.Len() != expect || len(l.Values()) != expect {
		t.Errorf("expect %d elements, Len %d, walked %d", expect, l.Len(), len(l.Values()))
	}
	if anchor, nodes := l.tracker.heldCount(); anchor || nodes != 0 {
		t.Errorf("locks still held by test goroutine: anchor=%v nodes=%d", anchor, nodes)
	}
	if sz := l.tracker.held.Size(); sz != 0 {
		t.Errorf("lock tracker still records %d goroutines", sz)
	}
	checkChain(t, l)
}

func TestConcurrentList_ConcurrentFrontAndBack(t *testing.T) {
	const perThread = 1000
	l := NewConcurrentList[int](Options{TrackLocks: true})
	runWithTimeout(t, time.Minute, func() {
		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			for i := 0; i < perThread; i++ {
				if _, err := l.PushFront(i); err != nil {
					t.Errorf("PushFront: %v", err)
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < perThread; i++ {
				if _, err := l.PushBack(perThread + i); err != nil {
					t.Errorf("PushBack: %v", err)
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < perThread; i++ {
				it := l.Begin()
				if it.IsEnd() {
					continue
				}
				if err := l.Erase(it); err != nil && !errors.Is(err, ErrStaleReference) {
					t.Errorf("Erase: %v", err)
				}
			}
		}()
		wg.Wait()
	})
	checkChain(t, l)
	// Back pushes keep their relative order whatever the front did.
	last := -1
	for _, v := range l.Values() {
		if v < perThread {
			continue
		}
		if v <= last {
			t.Fatalf("back pushes out of order: %d after %d", v, last)
		}
		last = v
	}
}

func benchmarkParallelInsertErase(b *testing.B, insert func(v int) func() error) {
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			erase := insert(i)
			if err := erase(); err != nil {
				b.Error(err)
			}
			i++
		}
	})
}

func BenchmarkConcurrentList_PushBackErase(b *testing.B) {
	l := NewConcurrentList[int](Options{SkipOwnerCheck: true})
	benchmarkParallelInsertErase(b, func(v int) func() error {
		it, err := l.PushBack(v)
		if err != nil {
			return func() error { return err }
		}
		return func() error { return l.Erase(it) }
	})
}

func BenchmarkCoarseList_PushBackErase(b *testing.B) {
	l := NewCoarseList[int]()
	benchmarkParallelInsertErase(b, func(v int) func() error {
		e := l.PushBack(v)
		return func() error { return l.Remove(e) }
	})
}
