package sync2

import "sync/atomic"

type AtomicInt64 struct {
	int64
}

func NewAtomicInt64(n int64) AtomicInt64 {
	return AtomicInt64{n}
}

func (ai *AtomicInt64) Add(n int64) int64 {
	return atomic.AddInt64(&ai.int64, n)
}

func (ai *AtomicInt64) Set(n int64) {
	atomic.StoreInt64(&ai.int64, n)
}

func (ai *AtomicInt64) Get() int64 {
	return atomic.LoadInt64(&ai.int64)
}

func (ai *AtomicInt64) CompareAndSwap(oldval, newval int64) (swapped bool) {
	return atomic.CompareAndSwapInt64(&ai.int64, oldval, newval)
}

type AtomicInt32 struct {
	int32
}

func NewAtomicInt32(n int32) AtomicInt32 {
	return AtomicInt32{n}
}

func (ai *AtomicInt32) Add(n int32) int32 {
	return atomic.AddInt32(&ai.int32, n)
}

func (ai *AtomicInt32) Set(n int32) {
	atomic.StoreInt32(&ai.int32, n)
}

func (ai *AtomicInt32) Get() int32 {
	return atomic.LoadInt32(&ai.int32)
}

func (ai *AtomicInt32) CompareAndSwap(oldval, newval int32) (swapped bool) {
	return atomic.CompareAndSwapInt32(&ai.int32, oldval, newval)
}
