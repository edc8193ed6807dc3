package clist

import "clist/sync2"

// Clock hands out strictly increasing stamps.
type Clock struct {
	c sync2.AtomicInt64
}

func NewClock() *Clock {
	return &Clock{c: sync2.NewAtomicInt64(0)}
}

func (c *Clock) Tick() int64 {
	return c.c.Add(1)
}

func (c *Clock) Now() int64 {
	return c.c.Get()
}
