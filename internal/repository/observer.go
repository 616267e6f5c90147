package repository

import (
	"sync/atomic"
	"time"
)

// QueryObserver receives a label and the elapsed duration for every
// repository query. Wired to the metrics service at startup.
type QueryObserver func(label string, duration time.Duration)

var queryObserver atomic.Value

// SetQueryObserver installs the process-wide query observer. A nil observer
// disables timing.
func SetQueryObserver(fn QueryObserver) {
	queryObserver.Store(fn)
}

func observeQuery(label string, start time.Time) {
	if fn, ok := queryObserver.Load().(QueryObserver); ok && fn != nil {
		fn(label, time.Since(start))
	}
}
