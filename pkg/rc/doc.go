// Package rc provides shared-ownership handles for objects stored in
// dictcore maps.
//
// A Handle is one strong holder of a reference-counted cell. Cloning a
// handle adds a holder; releasing it removes one. When the last strong
// holder releases, the cell's drop function runs exactly once and the
// value is cleared.
//
// A Weak observes the cell without keeping it alive:
//
//	h := rc.New[any]("value")
//	w := h.Downgrade()
//	h.Release()
//	_, err := w.Upgrade() // rc.ErrExpired
//
// Counts are atomic. rc does not collect reference cycles; break them with
// weak back-references.
package rc
