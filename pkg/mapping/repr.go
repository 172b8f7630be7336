package mapping

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/yndnr/dictcore/pkg/dict"
	"github.com/yndnr/dictcore/pkg/rc"
)

// Reprer is implemented by values with their own printable form.
type Reprer interface {
	Repr() (string, error)
}

// Equaler is implemented by values with their own equality. It may fail
// and may mutate dictionaries.
type Equaler interface {
	Equal(other any) (bool, error)
}

// Repr returns the printable form of v.
func Repr(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "None", nil
	case *Dict:
		return x.Repr()
	case View:
		return x.Repr()
	case Reprer:
		return x.Repr()
	case *rc.Handle[any]:
		return Repr(x.Value())
	case string:
		return quote(x), nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	case float64:
		return formatFloat(x), nil
	case float32:
		return formatFloat(float64(x)), nil
	case dict.Pair:
		k, err := Repr(x.Key)
		if err != nil {
			return "", err
		}
		val, err := Repr(x.Value)
		if err != nil {
			return "", err
		}
		return "(" + k + ", " + val + ")", nil
	}
	return fmt.Sprint(v), nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

// quote renders s with single quotes, switching to double quotes when s
// contains a single quote and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r):
			if r <= 0xffff {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// Repr returns the dict as {'a': 1}. A dict that contains itself prints
// the inner occurrence as {...}.
func (d *Dict) Repr() (string, error) {
	if d.inRepr {
		return "{...}", nil
	}
	if d.Len() == 0 {
		return "{}", nil
	}
	d.inRepr = true
	defer func() { d.inRepr = false }()

	var b strings.Builder
	b.WriteByte('{')
	it := d.m.Iter()
	defer it.Close()
	for first := true; it.Next(); first = false {
		if !first {
			b.WriteString(", ")
		}
		k, err := Repr(it.Key().Value())
		if err != nil {
			return "", err
		}
		v, err := Repr(it.Value().Value())
		if err != nil {
			return "", err
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
	}
	if err := it.Err(); err != nil {
		return "", err
	}
	b.WriteByte('}')
	return b.String(), nil
}

// String implements fmt.Stringer.
func (d *Dict) String() string {
	s, err := d.Repr()
	if err != nil {
		return fmt.Sprintf("<dict: %v>", err)
	}
	return s
}

// Equal compares two values the way dictionary equality does: a *Dict or
// an Equaler decides for itself, keys compare through the object protocol
// and anything else compares deeply.
func Equal(a, b any) (bool, error) {
	if da, ok := a.(*Dict); ok {
		db, ok := b.(*Dict)
		if !ok {
			return false, nil
		}
		return da.Equal(db)
	}
	if e, ok := a.(Equaler); ok {
		return e.Equal(b)
	}
	if e, ok := b.(Equaler); ok {
		return e.Equal(a)
	}
	if isKeyValue(a) || isKeyValue(b) {
		return dict.EqualObjects(a, b)
	}
	return reflect.DeepEqual(a, b), nil
}

// isKeyValue reports whether v compares through the object protocol. It
// inspects the type only and never calls into v.
func isKeyValue(v any) bool {
	switch v.(type) {
	case dict.Hasher, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
