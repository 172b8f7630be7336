package rc

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrExpired is returned by Weak.Upgrade once the last strong holder
	// has released the object.
	ErrExpired = errors.New("rc: object already dropped")

	// ErrReleased is returned when a released holder is used.
	ErrReleased = errors.New("rc: use of released handle")
)

// cell is the shared allocation behind every handle of one object.
type cell[T any] struct {
	strong atomic.Int64
	weak   atomic.Int64
	value  T
	drop   func(T)
}

// Handle is a strong holder of a shared object.
type Handle[T any] struct {
	c        *cell[T]
	released atomic.Bool
}

// New returns the first strong handle to v.
func New[T any](v T) *Handle[T] {
	return NewWithDrop(v, nil)
}

// NewWithDrop returns the first strong handle to v. drop runs once, when
// the last strong holder releases.
func NewWithDrop[T any](v T, drop func(T)) *Handle[T] {
	c := &cell[T]{value: v, drop: drop}
	c.strong.Store(1)
	return &Handle[T]{c: c}
}

// Value returns the shared object. It panics if h has been released.
func (h *Handle[T]) Value() T {
	if h.released.Load() {
		panic(ErrReleased)
	}
	return h.c.value
}

// Clone adds a strong holder and returns it.
func (h *Handle[T]) Clone() *Handle[T] {
	if h.released.Load() {
		panic(ErrReleased)
	}
	h.c.strong.Add(1)
	return &Handle[T]{c: h.c}
}

// Release drops this holder's reference. It reports whether this was the
// last strong reference. Releasing the same holder twice is a no-op.
func (h *Handle[T]) Release() bool {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return false
	}
	if h.c.strong.Add(-1) != 0 {
		return false
	}
	v := h.c.value
	var zero T
	h.c.value = zero
	if h.c.drop != nil {
		h.c.drop(v)
	}
	return true
}

// Released reports whether this holder has been released.
func (h *Handle[T]) Released() bool {
	return h.released.Load()
}

// Same reports whether h and other hold the same object.
func (h *Handle[T]) Same(other *Handle[T]) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.c == other.c
}

// StrongCount returns the number of live strong holders.
func (h *Handle[T]) StrongCount() int64 {
	return h.c.strong.Load()
}

// WeakCount returns the number of live weak holders.
func (h *Handle[T]) WeakCount() int64 {
	return h.c.weak.Load()
}

// Downgrade returns a weak holder of the same object.
func (h *Handle[T]) Downgrade() *Weak[T] {
	if h.released.Load() {
		panic(ErrReleased)
	}
	h.c.weak.Add(1)
	return &Weak[T]{c: h.c}
}

// String implements fmt.Stringer.
func (h *Handle[T]) String() string {
	if h.released.Load() {
		return "rc.Handle(released)"
	}
	return fmt.Sprintf("rc.Handle(%v)", h.c.value)
}

// Weak is a non-owning holder of a shared object.
type Weak[T any] struct {
	c        *cell[T]
	released atomic.Bool
}

// Upgrade returns a new strong handle if the object is still alive.
func (w *Weak[T]) Upgrade() (*Handle[T], error) {
	if w.released.Load() {
		return nil, ErrReleased
	}
	for {
		n := w.c.strong.Load()
		if n == 0 {
			return nil, ErrExpired
		}
		if w.c.strong.CompareAndSwap(n, n+1) {
			return &Handle[T]{c: w.c}, nil
		}
	}
}

// Alive reports whether any strong holder remains.
func (w *Weak[T]) Alive() bool {
	return w.c.strong.Load() > 0
}

// Release drops this weak holder. Releasing twice is a no-op.
func (w *Weak[T]) Release() {
	if w == nil || !w.released.CompareAndSwap(false, true) {
		return
	}
	w.c.weak.Add(-1)
}
