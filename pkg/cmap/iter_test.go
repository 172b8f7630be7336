package cmap

import (
	"reflect"
	"strconv"
	"sync"
	"testing"
)

func TestRange(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	collected := make(map[string]int)
	m.Range(func(key string, value int) bool {
		collected[key] = value
		return true
	})

	if !reflect.DeepEqual(collected, map[string]int{"a": 1, "b": 2, "c": 3}) {
		t.Errorf("Range collected %v", collected)
	}
}

func TestRangeEarlyStop(t *testing.T) {
	m := New[int]()
	for i := 0; i < 100; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	count := 0
	m.Range(func(string, int) bool {
		count++
		return count < 10
	})

	if count != 10 {
		t.Errorf("Range stopped at %d, want 10", count)
	}
}

func TestKeysAndValues(t *testing.T) {
	m := New[int]()
	m.Set("z", 3)
	m.Set("x", 1)
	m.Set("y", 2)

	if keys := m.Keys(); !reflect.DeepEqual(keys, []string{"x", "y", "z"}) {
		t.Errorf("Keys() = %v, want [x y z]", keys)
	}
	if values := m.Values(); !reflect.DeepEqual(values, []int{1, 2, 3}) {
		t.Errorf("Values() = %v, want [1 2 3]", values)
	}
}

func TestGetOrSet(t *testing.T) {
	m := New[int]()

	val, existed := m.GetOrSet("a", 1)
	if existed || val != 1 {
		t.Errorf("GetOrSet(a, 1) = (%d, %v), want (1, false)", val, existed)
	}
	val, existed = m.GetOrSet("a", 2)
	if !existed || val != 1 {
		t.Errorf("GetOrSet(a, 2) = (%d, %v), want (1, true)", val, existed)
	}
}

func TestSetIfAbsent(t *testing.T) {
	m := New[int]()

	if !m.SetIfAbsent("a", 1) {
		t.Error("SetIfAbsent on new key should return true")
	}
	if m.SetIfAbsent("a", 2) {
		t.Error("SetIfAbsent on existing key should return false")
	}
	if val, _ := m.Get("a"); val != 1 {
		t.Errorf("Get(a) = %d, want 1", val)
	}
}

func TestPop(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)

	val, ok := m.Pop("a")
	if !ok || val != 1 {
		t.Errorf("Pop(a) = (%d, %v), want (1, true)", val, ok)
	}
	if _, ok := m.Pop("a"); ok {
		t.Error("second Pop(a) should report false")
	}
}

func TestConcurrentRange(t *testing.T) {
	m := New[int]()
	for i := 0; i < 1000; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Range(func(string, int) bool { return true })
			}
		}()

		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Set(strconv.Itoa(base*100+j), j)
			}
		}(i + 100)
	}
	wg.Wait()
}
