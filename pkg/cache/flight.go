package cache

import (
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Flight deduplicates concurrent computations of the same key.
//
// Callers asking for a key while its computation runs wait for it and share
// the result. Nothing is kept once the computation returns: persistence
// belongs to a [Cache] backend, which fn is expected to consult before doing
// the work. Checking the backend inside the flight gives at-most-once
// computation per key as long as the backend keeps the entry. The zero Flight
// is ready to use.
type Flight[V any] struct {
	group    singleflight.Group
	inflight atomic.Int64
}

// Do runs fn for key unless a computation for key is already running, in
// which case it waits for that one. shared reports whether the result was
// delivered to more than one caller.
func (f *Flight[V]) Do(key string, fn func() (V, error)) (v V, shared bool, err error) {
	res, err, shared := f.group.Do(key, func() (any, error) {
		f.inflight.Add(1)
		defer f.inflight.Add(-1)
		v, err := fn()
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, shared, err
	}
	return res.(V), shared, nil
}

// InFlight returns the number of computations currently running.
func (f *Flight[V]) InFlight() int {
	return int(f.inflight.Load())
}
