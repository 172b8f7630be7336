package dict

// ViewKind selects what a view yields.
type ViewKind int

const (
	// KeysKind yields keys.
	KeysKind ViewKind = iota
	// ValuesKind yields values.
	ValuesKind
	// ItemsKind yields Pair values.
	ItemsKind
)

// String returns the view's type name.
func (k ViewKind) String() string {
	switch k {
	case KeysKind:
		return "dict_keys"
	case ValuesKind:
		return "dict_values"
	case ItemsKind:
		return "dict_items"
	default:
		return "dict_view"
	}
}

// Pair is one item yielded by an items view.
type Pair struct {
	Key   any
	Value any
}

// View is a live window onto a map. It is not an iterator: Iter and
// Reversed return fresh iterators, and Len reads the map at call time.
type View struct {
	m    *Map
	kind ViewKind
}

// KeysView returns a view of m's keys.
func (m *Map) KeysView() View { return View{m: m, kind: KeysKind} }

// ValuesView returns a view of m's values.
func (m *Map) ValuesView() View { return View{m: m, kind: ValuesKind} }

// ItemsView returns a view of m's items.
func (m *Map) ItemsView() View { return View{m: m, kind: ItemsKind} }

// Kind returns what the view yields.
func (v View) Kind() ViewKind { return v.kind }

// Map returns the viewed map.
func (v View) Map() *Map { return v.m }

// Len returns the map's current length.
func (v View) Len() int { return v.m.Len() }

// Iter returns a new forward iterator.
func (v View) Iter() *ViewIterator {
	return &ViewIterator{c: v.m.Iter(), kind: v.kind}
}

// Reversed returns a new reverse iterator.
func (v View) Reversed() *ViewIterator {
	return &ViewIterator{c: v.m.Reversed(), kind: v.kind}
}

// ViewIterator adapts a Cursor to yield plain objects.
type ViewIterator struct {
	c    Cursor
	kind ViewKind
}

// Next advances the iterator.
func (it *ViewIterator) Next() bool { return it.c.Next() }

// Item returns the current key, value or Pair, depending on the view.
func (it *ViewIterator) Item() any {
	switch it.kind {
	case KeysKind:
		return it.c.Key().Value()
	case ValuesKind:
		return it.c.Value().Value()
	default:
		return Pair{Key: it.c.Key().Value(), Value: it.c.Value().Value()}
	}
}

// Err returns the error that stopped the iteration, if any.
func (it *ViewIterator) Err() error { return it.c.Err() }

// LengthHint returns the number of items left.
func (it *ViewIterator) LengthHint() int { return it.c.LengthHint() }

// Close releases the iterator.
func (it *ViewIterator) Close() { it.c.Close() }
