package dict

import (
	"math"

	"github.com/spaolacci/murmur3"

	"github.com/yndnr/dictcore/pkg/rc"
)

// Hasher is implemented by guest objects whose hash and equality run guest
// code. Both methods may fail and may mutate any map, including the one
// currently being searched.
type Hasher interface {
	DictHash() (int64, error)
	DictEqual(other any) (bool, error)
}

// Key lets different key representations share one lookup path.
type Key interface {
	// Hash returns the key's hash. It must be stable while the key is
	// stored.
	Hash() (int64, error)
	// Same reports identity with a stored key without running callbacks.
	Same(stored *rc.Handle[any]) bool
	// Equal compares against a stored key object. It may re-enter the map.
	Equal(stored any) (bool, error)
	// Materialize returns the strong reference stored on insertion.
	Materialize() *rc.Handle[any]
	// Object returns the key as a plain value, for error reporting.
	Object() any
}

// HashText returns the hash used for native text keys.
func HashText(s string) int64 {
	return int64(murmur3.Sum64([]byte(s)))
}

// TextKey is a native text key. Its hash and equality against stored
// strings are pure.
type TextKey string

// Hash implements Key.
func (k TextKey) Hash() (int64, error) {
	return HashText(string(k)), nil
}

// Same implements Key. Text keys carry no identity.
func (k TextKey) Same(*rc.Handle[any]) bool {
	return false
}

// Equal implements Key.
func (k TextKey) Equal(stored any) (bool, error) {
	switch s := stored.(type) {
	case string:
		return s == string(k), nil
	case Hasher:
		return s.DictEqual(string(k))
	default:
		return false, nil
	}
}

// Materialize implements Key.
func (k TextKey) Materialize() *rc.Handle[any] {
	return rc.New[any](string(k))
}

// Object implements Key.
func (k TextKey) Object() any {
	return string(k)
}

// ObjectKey is a generic object key held through a shared handle.
type ObjectKey struct {
	h *rc.Handle[any]
}

// NewObjectKey returns a key for the object held by h. The key borrows h;
// inserting it stores a clone.
func NewObjectKey(h *rc.Handle[any]) ObjectKey {
	return ObjectKey{h: h}
}

// Hash implements Key.
func (k ObjectKey) Hash() (int64, error) {
	return HashObject(k.h.Value())
}

// Same implements Key.
func (k ObjectKey) Same(stored *rc.Handle[any]) bool {
	return k.h.Same(stored)
}

// Equal implements Key.
func (k ObjectKey) Equal(stored any) (bool, error) {
	return EqualObjects(k.h.Value(), stored)
}

// Materialize implements Key.
func (k ObjectKey) Materialize() *rc.Handle[any] {
	return k.h.Clone()
}

// Object implements Key.
func (k ObjectKey) Object() any {
	return k.h.Value()
}

// HashObject hashes a built-in value or a Hasher. Integral floats hash
// like the equal integer so that numerically equal keys collide.
func HashObject(v any) (int64, error) {
	switch x := v.(type) {
	case string:
		return HashText(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float32:
		return hashFloat(float64(x)), nil
	case float64:
		return hashFloat(x), nil
	case Hasher:
		return x.DictHash()
	}
	if n, ok := toNumber(v); ok {
		if n.unsigned {
			return int64(n.u), nil
		}
		return n.i, nil
	}
	return 0, ErrUnhashable.WithKey(v)
}

func hashFloat(f float64) int64 {
	if f == math.Trunc(f) {
		if f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f)
		}
		if f >= 0 && f < math.MaxUint64 {
			return int64(uint64(f))
		}
	}
	return int64(murmur3.Sum64(float64Bytes(f)))
}

func float64Bytes(f float64) []byte {
	bits := math.Float64bits(f)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(bits >> (8 * i))
	}
	return b
}

// EqualObjects compares two objects. A Hasher on either side decides;
// otherwise strings compare by content and numbers numerically.
func EqualObjects(a, b any) (bool, error) {
	if h, ok := a.(Hasher); ok {
		return h.DictEqual(b)
	}
	if h, ok := b.(Hasher); ok {
		return h.DictEqual(a)
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		return ok && sa == sb, nil
	}
	na, ok := toNumber(a)
	if !ok {
		return false, nil
	}
	nb, ok := toNumber(b)
	if !ok {
		return false, nil
	}
	return na.equal(nb), nil
}

// number is a normalized numeric value.
type number struct {
	i        int64
	u        uint64
	f        float64
	unsigned bool
	float    bool
}

func toNumber(v any) (number, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return number{i: 1}, true
		}
		return number{}, true
	case int:
		return number{i: int64(x)}, true
	case int8:
		return number{i: int64(x)}, true
	case int16:
		return number{i: int64(x)}, true
	case int32:
		return number{i: int64(x)}, true
	case int64:
		return number{i: x}, true
	case uint:
		return number{u: uint64(x), unsigned: true}, true
	case uint8:
		return number{u: uint64(x), unsigned: true}, true
	case uint16:
		return number{u: uint64(x), unsigned: true}, true
	case uint32:
		return number{u: uint64(x), unsigned: true}, true
	case uint64:
		return number{u: x, unsigned: true}, true
	case float32:
		return number{f: float64(x), float: true}, true
	case float64:
		return number{f: x, float: true}, true
	}
	return number{}, false
}

// integral returns n as an integer number. A float converts only when it
// is integral and fits in int64 or uint64.
func (n number) integral() (number, bool) {
	if !n.float {
		return n, true
	}
	f := n.f
	if f != math.Trunc(f) {
		return number{}, false
	}
	switch {
	case f >= math.MinInt64 && f < math.MaxInt64:
		return number{i: int64(f)}, true
	case f >= 0 && f < math.MaxUint64:
		return number{u: uint64(f), unsigned: true}, true
	}
	return number{}, false
}

// equal compares exactly. Mixed int and float operands compare as
// integers, never through a lossy float conversion.
func (n number) equal(o number) bool {
	if n.float && o.float {
		return n.f == o.f
	}
	var ok bool
	if n, ok = n.integral(); !ok {
		return false
	}
	if o, ok = o.integral(); !ok {
		return false
	}
	switch {
	case n.unsigned && o.unsigned:
		return n.u == o.u
	case !n.unsigned && !o.unsigned:
		return n.i == o.i
	case n.unsigned:
		return o.i >= 0 && uint64(o.i) == n.u
	default:
		return n.i >= 0 && uint64(n.i) == o.u
	}
}
