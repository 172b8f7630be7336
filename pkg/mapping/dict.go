package mapping

import (
	"log/slog"

	"github.com/yndnr/dictcore/pkg/dict"
	"github.com/yndnr/dictcore/pkg/rc"
)

// MissingFunc supplies a value for GetItem when the key is absent.
type MissingFunc func(d *Dict, key any) (any, error)

// Option configures a Dict.
type Option func(*options)

type options struct {
	missing MissingFunc
	mapOpts []dict.Option
}

// WithMissing installs a hook consulted by GetItem for absent keys.
func WithMissing(fn MissingFunc) Option {
	return func(o *options) {
		o.missing = fn
	}
}

// WithLogger passes a logger to the underlying table.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.mapOpts = append(o.mapOpts, dict.WithLogger(logger))
	}
}

// WithCapacity presizes the underlying table.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.mapOpts = append(o.mapOpts, dict.WithCapacity(n))
	}
}

// Dict is a dictionary over plain Go values.
//
// Keys and values may be given either as plain values or as
// *rc.Handle[any]; handles are stored by reference, so a key handle is
// found again by identity without running equality.
type Dict struct {
	m       *dict.Map
	missing MissingFunc
	own     *rc.Handle[*Dict]

	// inRepr guards Repr against self-referencing dictionaries.
	inRepr   bool
	viewRepr [3]bool
}

// New creates an empty Dict.
func New(opts ...Option) *Dict {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return newDict(dict.New(o.mapOpts...), o.missing)
}

func newDict(m *dict.Map, missing MissingFunc) *Dict {
	d := &Dict{m: m, missing: missing}
	d.own = rc.New(d)
	return d
}

// FromPairs creates a Dict holding pairs in order. Later duplicates
// overwrite earlier values but keep the first position.
func FromPairs(pairs []dict.Pair, opts ...Option) (*Dict, error) {
	d := New(append(opts, WithCapacity(len(pairs)))...)
	if err := d.Update(pairs...); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// FromMapping creates a Dict with other's items in other's order.
func FromMapping(other *Dict, opts ...Option) (*Dict, error) {
	d := New(append(opts, WithCapacity(other.Len()))...)
	if err := d.UpdateFrom(other); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// FromKeys creates a Dict mapping every key to value.
func FromKeys(keys []any, value any, opts ...Option) (*Dict, error) {
	d := New(append(opts, WithCapacity(len(keys)))...)
	for _, k := range keys {
		if err := d.SetItem(k, value); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

// keyOf adapts a plain value to a table key. done releases any temporary
// handle.
func keyOf(k any) (key dict.Key, done func()) {
	switch x := k.(type) {
	case string:
		return dict.TextKey(x), func() {}
	case *rc.Handle[any]:
		return dict.NewObjectKey(x), func() {}
	case dict.Key:
		return x, func() {}
	}
	h := rc.New(k)
	return dict.NewObjectKey(h), func() { h.Release() }
}

func handleOf(v any) (h *rc.Handle[any], done func()) {
	if x, ok := v.(*rc.Handle[any]); ok {
		return x, func() {}
	}
	h = rc.New(v)
	return h, func() { h.Release() }
}

// unwrap returns the object behind a handle and releases the handle.
func unwrap(h *rc.Handle[any]) any {
	v := h.Value()
	h.Release()
	return v
}

// Len returns the number of items.
func (d *Dict) Len() int { return d.m.Len() }

// Map returns the underlying table.
func (d *Dict) Map() *dict.Map { return d.m }

// Stats returns the underlying table's statistics.
func (d *Dict) Stats() dict.Stats { return d.m.Stats() }

// GetItem returns the value for key. An absent key is passed to the
// missing hook if one is installed, otherwise it fails with
// dict.ErrKeyNotFound.
func (d *Dict) GetItem(key any) (any, error) {
	k, done := keyOf(key)
	defer done()
	h, err := d.m.Get(k)
	if err != nil {
		return nil, err
	}
	if h != nil {
		return unwrap(h), nil
	}
	if d.missing != nil {
		return d.missing(d, key)
	}
	return nil, dict.ErrKeyNotFound.WithKey(k.Object())
}

// Get returns the value for key, or def if key is absent.
func (d *Dict) Get(key, def any) (any, error) {
	k, done := keyOf(key)
	defer done()
	h, err := d.m.Get(k)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return def, nil
	}
	return unwrap(h), nil
}

// SetItem associates value with key.
func (d *Dict) SetItem(key, value any) error {
	k, doneKey := keyOf(key)
	defer doneKey()
	h, doneValue := handleOf(value)
	defer doneValue()
	return d.m.Insert(k, h)
}

// DelItem removes key, failing with dict.ErrKeyNotFound if absent.
func (d *Dict) DelItem(key any) error {
	k, done := keyOf(key)
	defer done()
	return d.m.Delete(k)
}

// Contains reports whether key is present.
func (d *Dict) Contains(key any) (bool, error) {
	k, done := keyOf(key)
	defer done()
	return d.m.Contains(k)
}

// Pop removes key and returns its value. An absent key returns def[0] if
// given and dict.ErrKeyNotFound otherwise.
func (d *Dict) Pop(key any, def ...any) (any, error) {
	k, done := keyOf(key)
	defer done()
	h, err := d.m.Pop(k)
	if err != nil {
		return nil, err
	}
	if h != nil {
		return unwrap(h), nil
	}
	if len(def) > 0 {
		return def[0], nil
	}
	return nil, dict.ErrKeyNotFound.WithKey(k.Object())
}

// PopItem removes and returns the most recently inserted item.
func (d *Dict) PopItem() (dict.Pair, error) {
	k, v, err := d.m.PopMostRecent()
	if err != nil {
		return dict.Pair{}, err
	}
	return dict.Pair{Key: unwrap(k), Value: unwrap(v)}, nil
}

// SetDefault returns the value for key, inserting def first if key is
// absent.
func (d *Dict) SetDefault(key, def any) (any, error) {
	k, done := keyOf(key)
	defer done()
	h, err := d.m.Get(k)
	if err != nil {
		return nil, err
	}
	if h != nil {
		return unwrap(h), nil
	}
	v, doneValue := handleOf(def)
	defer doneValue()
	if err := d.m.Insert(k, v); err != nil {
		return nil, err
	}
	return def, nil
}

// Update sets every pair in order.
func (d *Dict) Update(pairs ...dict.Pair) error {
	for _, p := range pairs {
		if err := d.SetItem(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// UpdateFrom copies other's items in other's order. It fails with
// dict.ErrChangedDuringIteration if other changes structurally meanwhile.
func (d *Dict) UpdateFrom(other *Dict) error {
	it := other.m.Iter()
	defer it.Close()
	for it.Next() {
		if err := d.m.Insert(dict.NewObjectKey(it.Key()), it.Value()); err != nil {
			return err
		}
	}
	return it.Err()
}

// Merge applies other (if not nil) and then kwargs, in that order.
func (d *Dict) Merge(other *Dict, kwargs ...dict.Pair) error {
	if other != nil {
		if err := d.UpdateFrom(other); err != nil {
			return err
		}
	}
	return d.Update(kwargs...)
}

// Copy returns a shallow copy sharing keys and values. The missing hook is
// not copied.
func (d *Dict) Copy() *Dict {
	return newDict(d.m.Clone(), nil)
}

// Or returns a new Dict with d's items updated by other's.
func (d *Dict) Or(other *Dict) (*Dict, error) {
	c := d.Copy()
	if err := c.UpdateFrom(other); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Ror returns a new Dict with other's items updated by d's, the result of
// other | d.
func (d *Dict) Ror(other *Dict) (*Dict, error) {
	return other.Or(d)
}

// IOr updates d in place with other's items.
func (d *Dict) IOr(other *Dict) error {
	return d.UpdateFrom(other)
}

// Equal reports whether both dicts hold equal values under equal keys.
// Order is ignored. A nil other is never equal to d.
func (d *Dict) Equal(other *Dict) (bool, error) {
	if d == other {
		return true, nil
	}
	if other == nil {
		return false, nil
	}
	if d.Len() != other.Len() {
		return false, nil
	}
	it := d.m.Iter()
	defer it.Close()
	for it.Next() {
		before := other.m.Size()
		ov, err := other.m.Get(dict.NewObjectKey(it.Key()))
		if err != nil {
			return false, err
		}
		if ov == nil {
			return false, nil
		}
		eq := ov.Same(it.Value())
		if !eq {
			eq, err = Equal(it.Value().Value(), ov.Value())
		}
		ov.Release()
		if err != nil {
			return false, err
		}
		if other.m.HasChangedSize(before) {
			return false, dict.ErrChangedDuringIteration
		}
		if !eq {
			return false, nil
		}
	}
	if err := it.Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every item.
func (d *Dict) Clear() { d.m.Clear() }

// Close removes every item and drops the dict's own reference, after
// which WeakRef upgrades fail unless a Ref is still held.
func (d *Dict) Close() {
	d.m.Close()
	d.own.Release()
}

// Ref returns a new strong reference to d.
func (d *Dict) Ref() *rc.Handle[*Dict] { return d.own.Clone() }

// WeakRef returns a reference to d that does not keep it alive, suitable
// for values that point back at the dict holding them.
func (d *Dict) WeakRef() *rc.Weak[*Dict] { return d.own.Downgrade() }
