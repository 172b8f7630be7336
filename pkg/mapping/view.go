package mapping

import (
	"strings"

	"github.com/yndnr/dictcore/pkg/dict"
)

// View is a live keys, values or items view of a Dict.
type View struct {
	d *Dict
	v dict.View
}

// Keys returns a view of d's keys.
func (d *Dict) Keys() View { return View{d: d, v: d.m.KeysView()} }

// Values returns a view of d's values.
func (d *Dict) Values() View { return View{d: d, v: d.m.ValuesView()} }

// Items returns a view of d's items.
func (d *Dict) Items() View { return View{d: d, v: d.m.ItemsView()} }

// Kind returns what the view yields.
func (v View) Kind() dict.ViewKind { return v.v.Kind() }

// Len returns the dict's current length.
func (v View) Len() int { return v.v.Len() }

// Iter returns a new forward iterator.
func (v View) Iter() *dict.ViewIterator { return v.v.Iter() }

// Reversed returns a new reverse iterator.
func (v View) Reversed() *dict.ViewIterator { return v.v.Reversed() }

// List collects the view in order.
func (v View) List() ([]any, error) {
	it := v.Iter()
	defer it.Close()
	out := make([]any, 0, it.LengthHint())
	for it.Next() {
		out = append(out, it.Item())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Repr returns the view as dict_keys(['a', 'b']).
func (v View) Repr() (string, error) {
	kind := v.Kind()
	if v.d.viewRepr[kind] {
		return "...", nil
	}
	v.d.viewRepr[kind] = true
	defer func() { v.d.viewRepr[kind] = false }()

	var b strings.Builder
	b.WriteString(kind.String())
	b.WriteString("([")
	it := v.Iter()
	defer it.Close()
	for first := true; it.Next(); first = false {
		if !first {
			b.WriteString(", ")
		}
		s, err := Repr(it.Item())
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	if err := it.Err(); err != nil {
		return "", err
	}
	b.WriteString("])")
	return b.String(), nil
}

// String implements fmt.Stringer.
func (v View) String() string {
	s, err := v.Repr()
	if err != nil {
		return "<" + v.Kind().String() + ": " + err.Error() + ">"
	}
	return s
}

// Equal compares views. Keys and items views compare as sets; a values
// view equals only a values view of the same dict.
func (v View) Equal(other View) (bool, error) {
	if v.Kind() != other.Kind() {
		return false, nil
	}
	if v.Kind() == dict.ValuesKind {
		return v.d == other.d, nil
	}
	if v.Len() != other.Len() {
		return false, nil
	}
	return v.containedIn(other.d)
}

// containedIn reports whether every element of v is in d.
func (v View) containedIn(d *Dict) (bool, error) {
	it := v.d.m.Iter()
	defer it.Close()
	for it.Next() {
		before := d.m.Size()
		ov, err := d.m.Get(dict.NewObjectKey(it.Key()))
		if err != nil {
			return false, err
		}
		if ov == nil {
			return false, nil
		}
		eq := true
		if v.Kind() == dict.ItemsKind && !ov.Same(it.Value()) {
			eq, err = Equal(it.Value().Value(), ov.Value())
		}
		ov.Release()
		if err != nil {
			return false, err
		}
		if d.m.HasChangedSize(before) {
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
