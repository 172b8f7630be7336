package rc

import (
	"errors"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	h := New(42)
	if h.Value() != 42 {
		t.Errorf("Value() = %d, want 42", h.Value())
	}
	if h.StrongCount() != 1 {
		t.Errorf("StrongCount() = %d, want 1", h.StrongCount())
	}
	if h.WeakCount() != 0 {
		t.Errorf("WeakCount() = %d, want 0", h.WeakCount())
	}
}

func TestHandle_CloneRelease(t *testing.T) {
	drops := 0
	h := NewWithDrop("obj", func(string) { drops++ })

	c := h.Clone()
	if !h.Same(c) {
		t.Error("clone should hold the same object")
	}
	if h.StrongCount() != 2 {
		t.Errorf("StrongCount() = %d, want 2", h.StrongCount())
	}

	if h.Release() {
		t.Error("first Release() should not be the last")
	}
	if drops != 0 {
		t.Errorf("drop ran early: %d", drops)
	}
	if c.Value() != "obj" {
		t.Errorf("clone Value() = %q, want obj", c.Value())
	}

	if !c.Release() {
		t.Error("second Release() should be the last")
	}
	if drops != 1 {
		t.Errorf("drops = %d, want 1", drops)
	}
}

func TestHandle_ReleaseIdempotent(t *testing.T) {
	drops := 0
	h := NewWithDrop(1, func(int) { drops++ })
	keep := h.Clone()

	h.Release()
	h.Release()
	if keep.StrongCount() != 1 {
		t.Errorf("double release decremented twice: StrongCount() = %d", keep.StrongCount())
	}
	keep.Release()
	if drops != 1 {
		t.Errorf("drops = %d, want 1", drops)
	}
}

func TestHandle_ValueAfterRelease(t *testing.T) {
	h := New("x")
	h.Release()
	if !h.Released() {
		t.Fatal("Released() should be true")
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Value() on released handle should panic")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, ErrReleased) {
			t.Errorf("panic = %v, want ErrReleased", r)
		}
	}()
	_ = h.Value()
}

func TestHandle_Same(t *testing.T) {
	a := New(1)
	b := New(1)
	if a.Same(b) {
		t.Error("distinct objects with equal values should not be Same")
	}
	var nilHandle *Handle[int]
	if a.Same(nilHandle) {
		t.Error("handle should not be Same as nil")
	}
}

func TestWeak_Upgrade(t *testing.T) {
	h := New("alive")
	w := h.Downgrade()
	if h.WeakCount() != 1 {
		t.Errorf("WeakCount() = %d, want 1", h.WeakCount())
	}
	if h.StrongCount() != 1 {
		t.Errorf("weak holder changed StrongCount() to %d", h.StrongCount())
	}

	up, err := w.Upgrade()
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if up.Value() != "alive" {
		t.Errorf("upgraded Value() = %q", up.Value())
	}
	if h.StrongCount() != 2 {
		t.Errorf("StrongCount() after upgrade = %d, want 2", h.StrongCount())
	}
	up.Release()
	h.Release()

	if w.Alive() {
		t.Error("Alive() should be false after last strong release")
	}
	if _, err := w.Upgrade(); !errors.Is(err, ErrExpired) {
		t.Errorf("Upgrade() after drop error = %v, want ErrExpired", err)
	}
}

func TestWeak_DoesNotKeepAlive(t *testing.T) {
	dropped := false
	h := NewWithDrop(struct{}{}, func(struct{}) { dropped = true })
	w := h.Downgrade()
	h.Release()
	if !dropped {
		t.Error("weak holder kept the object alive")
	}
	w.Release()
	w.Release()
	if _, err := w.Upgrade(); !errors.Is(err, ErrReleased) {
		t.Errorf("Upgrade() on released weak error = %v, want ErrReleased", err)
	}
}

func TestConcurrentCloneRelease(t *testing.T) {
	var drops int
	var mu sync.Mutex
	h := NewWithDrop(7, func(int) {
		mu.Lock()
		drops++
		mu.Unlock()
	})
	w := h.Downgrade()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		c := h.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if up, err := w.Upgrade(); err == nil {
				up.Release()
			}
			c.Release()
		}()
	}
	wg.Wait()

	if h.StrongCount() != 1 {
		t.Errorf("StrongCount() = %d, want 1", h.StrongCount())
	}
	h.Release()

	mu.Lock()
	defer mu.Unlock()
	if drops != 1 {
		t.Errorf("drops = %d, want 1", drops)
	}
}
