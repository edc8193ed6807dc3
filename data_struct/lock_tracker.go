package data_struct

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"clist/assert"
	"clist/sync2"
)

const maxHeldNodeLocks = 3

// heldLocks is only touched by the goroutine it belongs to.
type heldLocks struct {
	anchor bool
	nodes  []interface{}
}

// lockTracker validates the list's lock protocol at runtime: the anchor
// comes before every node lock, at most three adjacent node locks are held
// at once, and locks are released in reverse acquisition order.
// A nil *lockTracker is valid and does nothing.
type lockTracker struct {
	held ConcurrentMap[*heldLocks]
}

func newLockTracker() *lockTracker {
	return &lockTracker{held: NewConcurrentMap[*heldLocks](64)}
}

func goroutineKey() string {
	return strconv.FormatInt(sync2.GoroutineID(), 10)
}

func (lt *lockTracker) current() (string, *heldLocks) {
	key := goroutineKey()
	return key, lt.held.GetLazy(key, func() *heldLocks {
		return &heldLocks{nodes: make([]interface{}, 0, maxHeldNodeLocks)}
	})
}

// check panics with the locks every goroutine holds when cond is false.
func (lt *lockTracker) check(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	assert.Mustf(false, format+"; held locks: %s", append(args, lt.dump())...)
}

// dump renders the lock records of all goroutines, sorted by goroutine id.
// Only called on the way to a panic: records of other goroutines may be
// mid-update.
func (lt *lockTracker) dump() string {
	var records []string
	lt.held.ForEachStrict(func(key string, h *heldLocks) {
		records = append(records, fmt.Sprintf("g%s{anchor=%v nodes=%d}", key, h.anchor, len(h.nodes)))
	})
	sort.Strings(records)
	return "[" + strings.Join(records, " ") + "]"
}

func (lt *lockTracker) gc(key string, h *heldLocks) {
	if !h.anchor && len(h.nodes) == 0 {
		lt.held.Del(key)
	}
}

func (lt *lockTracker) acquireAnchor() {
	if lt == nil {
		return
	}
	_, h := lt.current()
	lt.check(!h.anchor, "anchor acquired twice")
	lt.check(len(h.nodes) == 0, "anchor acquired while holding %d node locks", len(h.nodes))
	h.anchor = true
}

func (lt *lockTracker) releaseAnchor() {
	if lt == nil {
		return
	}
	key, h := lt.current()
	lt.check(h.anchor, "anchor released but not held")
	lt.check(len(h.nodes) == 0, "anchor released before %d node locks", len(h.nodes))
	h.anchor = false
	lt.gc(key, h)
}

func (lt *lockTracker) acquireNode(n interface{}) {
	if lt == nil {
		return
	}
	_, h := lt.current()
	for _, held := range h.nodes {
		lt.check(held != n, "node lock acquired twice")
	}
	lt.check(len(h.nodes) < maxHeldNodeLocks, "more than %d node locks held", maxHeldNodeLocks)
	h.nodes = append(h.nodes, n)
}

func (lt *lockTracker) releaseNode(n interface{}) {
	if lt == nil {
		return
	}
	key, h := lt.current()
	last := len(h.nodes) - 1
	lt.check(last >= 0 && h.nodes[last] == n, "node lock released out of order")
	h.nodes[last] = nil
	h.nodes = h.nodes[:last]
	lt.gc(key, h)
}

// heldCount reports the locks held by the calling goroutine.
func (lt *lockTracker) heldCount() (anchor bool, nodes int) {
	if lt == nil {
		return false, 0
	}
	h, ok := lt.held.Get(goroutineKey())
	if !ok {
		return false, 0
	}
	return h.anchor, len(h.nodes)
}
