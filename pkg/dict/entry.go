package dict

import "github.com/yndnr/dictcore/pkg/rc"

// entry is one record of the insertion-ordered log. A dead entry has
// released its handles and is no longer reachable from the index.
type entry struct {
	hash  int64
	key   *rc.Handle[any]
	value *rc.Handle[any]
	live  bool
}

// NextEntry returns the first live entry at or after position, and the
// position to resume from. The caller owns the returned references.
func (m *Map) NextEntry(position int) (key, value *rc.Handle[any], next int, ok bool) {
	for i := max(position, 0); i < len(m.entries); i++ {
		e := &m.entries[i]
		if e.live {
			return e.key.Clone(), e.value.Clone(), i + 1, true
		}
	}
	return nil, nil, len(m.entries), false
}

// prevEntry returns the last live entry strictly before position, and the
// position of that entry.
func (m *Map) prevEntry(position int) (key, value *rc.Handle[any], at int, ok bool) {
	for i := min(position, len(m.entries)) - 1; i >= 0; i-- {
		e := &m.entries[i]
		if e.live {
			return e.key.Clone(), e.value.Clone(), i, true
		}
	}
	return nil, nil, -1, false
}

// LenFrom counts the live entries at or after position.
func (m *Map) LenFrom(position int) int {
	if position <= 0 {
		return m.used
	}
	n := 0
	for i := position; i < len(m.entries); i++ {
		if m.entries[i].live {
			n++
		}
	}
	return n
}

// Keys returns new references to every live key in insertion order.
func (m *Map) Keys() []*rc.Handle[any] {
	keys := make([]*rc.Handle[any], 0, m.used)
	for i := range m.entries {
		if e := &m.entries[i]; e.live {
			keys = append(keys, e.key.Clone())
		}
	}
	return keys
}
