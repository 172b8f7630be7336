package workload

import (
	"sync"

	"github.com/yndnr/dictcore/pkg/dict"
	"github.com/yndnr/dictcore/pkg/mapping"
)

// Locked guards a Dict with a mutex so it can be shared between goroutines.
type Locked struct {
	mu sync.Mutex
	d  *mapping.Dict
}

// NewLocked wraps d. d must not be used directly afterwards.
func NewLocked(d *mapping.Dict) *Locked {
	return &Locked{d: d}
}

// Do runs fn with exclusive access to the dict.
func (l *Locked) Do(fn func(d *mapping.Dict) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.d)
}

// Unwrap returns the dict without locking. It is for single-goroutine
// owners that store one dict inside another.
func (l *Locked) Unwrap() *mapping.Dict {
	return l.d
}

// Stats returns the dict's statistics.
func (l *Locked) Stats() dict.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.d.Stats()
}

// Close closes the dict.
func (l *Locked) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.d.Close()
}
