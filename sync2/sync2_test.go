package sync2

import (
	"sync"
	"testing"
)

func TestAtomicInt64(t *testing.T) {
	ai := NewAtomicInt64(3)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				ai.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := ai.Get(); got != 8003 {
		t.Errorf("expect 8003, got %d", got)
	}
	if !ai.CompareAndSwap(8003, 1) || ai.Get() != 1 {
		t.Errorf("CompareAndSwap failed")
	}
}

func TestGoroutineIDDiffers(t *testing.T) {
	self := GoroutineID()
	if self <= 0 {
		t.Fatalf("expect positive id, got %d", self)
	}
	if again := GoroutineID(); again != self {
		t.Errorf("id changed within one goroutine: %d vs %d", self, again)
	}
	ch := make(chan int64)
	go func() { ch <- GoroutineID() }()
	if other := <-ch; other == self || other <= 0 {
		t.Errorf("expect a different positive id, got %d (self %d)", other, self)
	}
}
