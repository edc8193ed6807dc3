package data_struct

import (
	"hash/crc32"
	"sync"
)

type concurrentMapPartition[V any] struct {
	mutex sync.RWMutex
	m     map[string]V
}

func (cmp *concurrentMapPartition[V]) get(key string) (V, bool) {
	cmp.mutex.RLock()
	defer cmp.mutex.RUnlock()
	val, ok := cmp.m[key]
	return val, ok
}

func (cmp *concurrentMapPartition[V]) getLazy(key string, constructor func() V) V {
	if val, ok := cmp.get(key); ok {
		return val
	}
	cmp.mutex.Lock()
	defer cmp.mutex.Unlock()
	if val, ok := cmp.m[key]; ok {
		return val
	}
	val := constructor()
	cmp.m[key] = val
	return val
}

func (cmp *concurrentMapPartition[V]) del(key string) {
	cmp.mutex.Lock()
	defer cmp.mutex.Unlock()
	delete(cmp.m, key)
}

func (cmp *concurrentMapPartition[V]) forEachLocked(cb func(string, V)) {
	for key, val := range cmp.m {
		cb(key, val)
	}
}

// ConcurrentMap is a string keyed map sharded over crc32 partitions.
type ConcurrentMap[V any] struct {
	partitions []concurrentMapPartition[V]
}

func NewConcurrentMap[V any](partitionNum int) ConcurrentMap[V] {
	cm := ConcurrentMap[V]{partitions: make([]concurrentMapPartition[V], partitionNum)}
	for i := 0; i < partitionNum; i++ {
		cm.partitions[i].m = make(map[string]V)
	}
	return cm
}

func (cm *ConcurrentMap[V]) hash(s string) int {
	return int(crc32.ChecksumIEEE([]byte(s)) % uint32(len(cm.partitions)))
}

func (cm *ConcurrentMap[V]) RLock() {
	for i := 0; i < len(cm.partitions); i++ {
		cm.partitions[i].mutex.RLock()
	}
}

func (cm *ConcurrentMap[V]) RUnlock() {
	for i := len(cm.partitions) - 1; i >= 0; i-- {
		cm.partitions[i].mutex.RUnlock()
	}
}

func (cm *ConcurrentMap[V]) Get(key string) (V, bool) {
	return cm.partitions[cm.hash(key)].get(key)
}

// GetLazy returns the value for key, creating it with constructor if absent.
func (cm *ConcurrentMap[V]) GetLazy(key string, constructor func() V) V {
	return cm.partitions[cm.hash(key)].getLazy(key, constructor)
}

func (cm *ConcurrentMap[V]) Del(key string) {
	cm.partitions[cm.hash(key)].del(key)
}

// ForEachStrict visits every entry with all partitions read locked.
func (cm *ConcurrentMap[V]) ForEachStrict(cb func(string, V)) {
	cm.RLock()
	for i := range cm.partitions {
		cm.partitions[i].forEachLocked(cb)
	}
	cm.RUnlock()
}

func (cm *ConcurrentMap[V]) Size() (sz int) {
	cm.RLock()
	for i := range cm.partitions {
		sz += len(cm.partitions[i].m)
	}
	cm.RUnlock()
	return
}
