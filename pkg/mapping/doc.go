// Package mapping provides the dictionary type on top of pkg/dict.
//
// Dict accepts and returns plain Go values. Strings become native text
// keys; anything else is wrapped in a shared handle and goes through the
// object protocol, so values implementing dict.Hasher act as guest keys.
//
// Usage:
//
//	d := mapping.New()
//	_ = d.SetItem("a", 1)
//	v, err := d.GetItem("a")
//	s, _ := d.Repr() // {'a': 1}
//
// Like dict.Map, a Dict is not safe for concurrent use.
package mapping
