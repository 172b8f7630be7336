// Package dict implements the insertion-ordered hash table behind the
// runtime's dictionary type.
//
// The table is split in two:
//
//   - an index of power-of-two size, probed with open addressing, whose
//     slots hold an entry position, "empty" or a tombstone
//   - an append-only entry log that fixes iteration order
//
// Deleting an entry kills it in the log and tombstones its slot; both are
// reclaimed when the next resize rebuilds the index from live entries.
//
// Keys go through the Key interface. TextKey is a cheap native string key.
// ObjectKey wraps any object; when the object implements Hasher, hashing
// and equality run guest code which may fail or mutate the map being
// searched. Lookups detect such mutation through the version counter and
// restart the probe, and a failing callback leaves the map untouched.
//
// Usage:
//
//	m := dict.New()
//	v := rc.New[any](1)
//	_ = m.Insert(dict.TextKey("a"), v)
//	h, _ := m.Get(dict.TextKey("a"))
//	defer h.Release()
//
// Thread Safety:
//
// A Map is not synchronized. Callers sharing a map between goroutines must
// hold one lock around every call.
package dict
