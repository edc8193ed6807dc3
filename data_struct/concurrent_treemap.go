package data_struct

import (
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

type ConcurrentTreeMap struct {
	mutex sync.RWMutex
	tm    *treemap.Map
}

func NewConcurrentTreeMap(comparator utils.Comparator) *ConcurrentTreeMap {
	return &ConcurrentTreeMap{
		tm: treemap.NewWith(comparator),
	}
}

func (ctm *ConcurrentTreeMap) Put(key interface{}, val interface{}) {
	ctm.mutex.Lock()
	ctm.tm.Put(key, val)
	ctm.mutex.Unlock()
}

func (ctm *ConcurrentTreeMap) Size() int {
	ctm.mutex.RLock()
	defer ctm.mutex.RUnlock()
	return ctm.tm.Size()
}

func (ctm *ConcurrentTreeMap) Max() (interface{}, interface{}) {
	ctm.mutex.RLock()
	defer ctm.mutex.RUnlock()
	return ctm.tm.Max()
}

// ForEach visits entries in ascending key order while holding the read lock.
func (ctm *ConcurrentTreeMap) ForEach(cb func(key interface{}, val interface{})) {
	ctm.mutex.RLock()
	defer ctm.mutex.RUnlock()
	ctm.tm.Each(cb)
}
