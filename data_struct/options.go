package data_struct

import "github.com/golang/glog"

const (
	glogLevelRetry  = glog.Level(8)
	glogLevelSplice = glog.Level(12)
)

const defaultMaxRetries = 1024

type Options struct {
	// MaxRetries bounds how many times Insert and Erase re-snapshot a
	// neighbourhood that changed under them before giving up with
	// ErrConcurrentModification.
	MaxRetries int

	// SkipOwnerCheck disables the goroutine affinity check on iterators.
	SkipOwnerCheck bool

	// TrackLocks records held locks per goroutine and panics when the anchor
	// is taken while a node lock is held, a lock is taken twice, more than
	// three node locks are held, or locks are released out of LIFO order.
	TrackLocks bool
}

func DefaultOptions() Options {
	return Options{
		MaxRetries: defaultMaxRetries,
	}
}

func (o Options) normalize() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetries
	}
	return o
}
