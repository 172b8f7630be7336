package dict

import "github.com/yndnr/dictcore/pkg/rc"

// Cursor is the protocol shared by forward and reverse iterators.
//
//	it := m.Iter()
//	defer it.Close()
//	for it.Next() {
//		use(it.Key().Value(), it.Value().Value())
//	}
//	if err := it.Err(); err != nil { ... }
//
// Key and Value stay valid until the next call to Next or Close; Clone
// them to keep them longer.
type Cursor interface {
	Next() bool
	Key() *rc.Handle[any]
	Value() *rc.Handle[any]
	Err() error
	LengthHint() int
	Close()
}

// current holds the references an iterator yielded last.
type current struct {
	key, value *rc.Handle[any]
}

func (c *current) set(key, value *rc.Handle[any]) {
	c.reset()
	c.key, c.value = key, value
}

func (c *current) reset() {
	c.key.Release()
	c.value.Release()
	c.key, c.value = nil, nil
}

// Iterator walks live entries in insertion order. It fails with
// ErrChangedDuringIteration once the map changes structurally.
type Iterator struct {
	m    *Map
	size Size
	pos  int
	cur  current
	err  error
	done bool
}

// Iter returns a forward iterator over m.
func (m *Map) Iter() *Iterator {
	return &Iterator{m: m, size: m.Size()}
}

// Next advances to the next live entry. Exhaustion is permanent.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if it.m.HasChangedSize(it.size) {
		it.fail(ErrChangedDuringIteration)
		return false
	}
	key, value, next, ok := it.m.NextEntry(it.pos)
	it.pos = next
	if !ok {
		it.finish()
		return false
	}
	it.cur.set(key, value)
	return true
}

func (it *Iterator) fail(err error) {
	it.err = err
	it.finish()
}

func (it *Iterator) finish() {
	it.done = true
	it.cur.reset()
}

// Key returns the current key.
func (it *Iterator) Key() *rc.Handle[any] { return it.cur.key }

// Value returns the current value.
func (it *Iterator) Value() *rc.Handle[any] { return it.cur.value }

// Err returns the error that stopped the iteration, if any.
func (it *Iterator) Err() error { return it.err }

// LengthHint returns the number of entries left.
func (it *Iterator) LengthHint() int {
	if it.done {
		return 0
	}
	return it.m.LenFrom(it.pos)
}

// Close releases the current references and exhausts the iterator.
func (it *Iterator) Close() { it.finish() }

// ReverseIterator walks live entries from the most recent to the oldest.
type ReverseIterator struct {
	m        *Map
	size     Size
	consumed int
	cursor   int
	cur      current
	err      error
	done     bool
}

// Reversed returns a reverse iterator over m.
func (m *Map) Reversed() *ReverseIterator {
	return &ReverseIterator{m: m, size: m.Size(), cursor: len(m.entries)}
}

// Next moves to the live entry at position Len()-1-consumed from the front.
// Once every entry has been consumed the iterator stays exhausted.
func (it *ReverseIterator) Next() bool {
	if it.done {
		return false
	}
	if it.m.HasChangedSize(it.size) {
		it.err = ErrChangedDuringIteration
		it.finish()
		return false
	}
	if it.consumed >= it.m.Len() {
		it.finish()
		return false
	}
	// The structure is unchanged, so the entry before the last yielded one
	// is the target.
	key, value, at, ok := it.m.prevEntry(it.cursor)
	if !ok {
		it.finish()
		return false
	}
	it.cursor = at
	it.consumed++
	it.cur.set(key, value)
	return true
}

func (it *ReverseIterator) finish() {
	it.done = true
	it.cur.reset()
}

// Key returns the current key.
func (it *ReverseIterator) Key() *rc.Handle[any] { return it.cur.key }

// Value returns the current value.
func (it *ReverseIterator) Value() *rc.Handle[any] { return it.cur.value }

// Err returns the error that stopped the iteration, if any.
func (it *ReverseIterator) Err() error { return it.err }

// LengthHint returns the number of entries left.
func (it *ReverseIterator) LengthHint() int {
	if it.done {
		return 0
	}
	return max(it.m.Len()-it.consumed, 0)
}

// Close releases the current references and exhausts the iterator.
func (it *ReverseIterator) Close() { it.finish() }
