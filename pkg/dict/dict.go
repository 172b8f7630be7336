package dict

import (
	"log/slog"
	"unsafe"

	"github.com/yndnr/dictcore/pkg/rc"
)

// Map is an insertion-ordered hash table whose keys and values are held
// through shared handles.
//
// Map is not safe for concurrent use. It does tolerate re-entrant use from
// key equality callbacks on the same goroutine.
type Map struct {
	// indices maps probe slots to entry positions, slotEmpty or slotDummy.
	indices []int32
	// entries is the append-only log in insertion order. Dead entries stay
	// until the next resize.
	entries []entry
	// used is the number of live entries.
	used int
	// filled is the number of non-empty slots (live plus tombstones).
	filled int
	// version increases on every structural change.
	version uint64

	logger   *slog.Logger
	resizes  uint64
	restarts uint64
}

// Option configures a Map.
type Option func(*Map)

// WithLogger sets a logger for resize and probe-restart events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Map) {
		m.logger = logger
	}
}

// WithCapacity presizes the table so n entries fit without a resize.
func WithCapacity(n int) Option {
	return func(m *Map) {
		if n > 0 {
			m.indices = newIndices(sizeFor(n + 1))
		}
	}
}

// New creates an empty Map.
func New(opts ...Option) *Map {
	m := &Map{indices: newIndices(minSize)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// lookup searches for k. It returns the slot holding the match, or the
// slot an insertion should use, and the matched entry position or -1.
//
// The search restarts whenever an equality callback changed the map's
// structure, so no slot or position is trusted across a callback.
func (m *Map) lookup(k Key, hash int64) (slot, pos int, err error) {
restart:
	for {
		version := m.version
		p := newProbe(hash, len(m.indices))
		free := -1
		for {
			ix := m.indices[p.slot]
			switch ix {
			case slotEmpty:
				if free >= 0 {
					return free, -1, nil
				}
				return int(p.slot), -1, nil
			case slotDummy:
				if free < 0 {
					free = int(p.slot)
				}
			default:
				e := &m.entries[ix]
				if k.Same(e.key) {
					return int(p.slot), int(ix), nil
				}
				if e.hash == hash {
					stored := e.key.Clone()
					eq, err := k.Equal(stored.Value())
					stored.Release()
					if err != nil {
						return -1, -1, err
					}
					if m.version != version {
						m.restarts++
						if m.logger != nil {
							m.logger.Debug("dict changed during lookup, restarting probe",
								"version", m.version,
								"len", m.used,
							)
						}
						continue restart
					}
					if eq {
						return int(p.slot), int(ix), nil
					}
				}
			}
			p.next()
		}
	}
}

// full reports whether one more entry would breach the load factor.
func (m *Map) full() bool {
	limit := usable(len(m.indices))
	return m.filled >= limit || len(m.entries) >= limit
}

// resize rebuilds the index and compacts the log so that at least
// minUsable entries fit.
func (m *Map) resize(minUsable int) error {
	size := sizeFor(minUsable)
	if size > maxSize {
		return ErrTooLarge
	}
	oldSize := len(m.indices)
	indices := newIndices(size)
	entries := make([]entry, 0, usable(size))
	for _, e := range m.entries {
		if !e.live {
			continue
		}
		indices[findEmptySlot(indices, e.hash)] = int32(len(entries))
		entries = append(entries, e)
	}
	m.indices = indices
	m.entries = entries
	m.filled = len(entries)
	m.resizes++
	if m.logger != nil {
		m.logger.Debug("dict resized",
			"old_capacity", oldSize,
			"new_capacity", size,
			"len", m.used,
		)
	}
	return nil
}

// Insert associates value with k. The map keeps its own reference to
// value. Overwriting an existing key keeps its position and does not
// change the version.
func (m *Map) Insert(k Key, value *rc.Handle[any]) error {
	hash, err := k.Hash()
	if err != nil {
		return err
	}
	slot, pos, err := m.lookup(k, hash)
	if err != nil {
		return err
	}
	if pos >= 0 {
		e := &m.entries[pos]
		old := e.value
		e.value = value.Clone()
		old.Release()
		return nil
	}
	if m.full() {
		if err := m.resize(max(2*m.used, m.used+1)); err != nil {
			return err
		}
		slot = findEmptySlot(m.indices, hash)
	}
	if m.indices[slot] == slotEmpty {
		m.filled++
	}
	m.indices[slot] = int32(len(m.entries))
	m.entries = append(m.entries, entry{
		hash:  hash,
		key:   k.Materialize(),
		value: value.Clone(),
		live:  true,
	})
	m.used++
	m.version++
	return nil
}

// Get returns a new reference to the value for k, or nil if k is absent.
// The caller owns the returned reference.
func (m *Map) Get(k Key) (*rc.Handle[any], error) {
	hash, err := k.Hash()
	if err != nil {
		return nil, err
	}
	_, pos, err := m.lookup(k, hash)
	if err != nil || pos < 0 {
		return nil, err
	}
	return m.entries[pos].value.Clone(), nil
}

// Contains reports whether k is present.
func (m *Map) Contains(k Key) (bool, error) {
	hash, err := k.Hash()
	if err != nil {
		return false, err
	}
	_, pos, err := m.lookup(k, hash)
	if err != nil {
		return false, err
	}
	return pos >= 0, nil
}

// removeAt kills the entry at pos and tombstones slot. The caller takes
// over the entry's references.
func (m *Map) removeAt(slot, pos int) (key, value *rc.Handle[any]) {
	e := &m.entries[pos]
	key, value = e.key, e.value
	e.key, e.value, e.live = nil, nil, false
	m.indices[slot] = slotDummy
	m.used--
	m.version++
	return key, value
}

// Delete removes k. It returns ErrKeyNotFound if k is absent.
func (m *Map) Delete(k Key) error {
	hash, err := k.Hash()
	if err != nil {
		return err
	}
	slot, pos, err := m.lookup(k, hash)
	if err != nil {
		return err
	}
	if pos < 0 {
		return ErrKeyNotFound.WithKey(k.Object())
	}
	key, value := m.removeAt(slot, pos)
	key.Release()
	value.Release()
	return nil
}

// Pop removes k and returns its value, or nil if k is absent. The caller
// owns the returned reference.
func (m *Map) Pop(k Key) (*rc.Handle[any], error) {
	hash, err := k.Hash()
	if err != nil {
		return nil, err
	}
	slot, pos, err := m.lookup(k, hash)
	if err != nil || pos < 0 {
		return nil, err
	}
	key, value := m.removeAt(slot, pos)
	key.Release()
	return value, nil
}

// PopMostRecent removes the most recently inserted live entry and returns
// it. It returns ErrEmptyPop on an empty map. The caller owns the returned
// references.
func (m *Map) PopMostRecent() (key, value *rc.Handle[any], err error) {
	if m.used == 0 {
		return nil, nil, ErrEmptyPop
	}
	for pos := len(m.entries) - 1; pos >= 0; pos-- {
		e := &m.entries[pos]
		if !e.live {
			continue
		}
		key, value = m.removeAt(findSlotOf(m.indices, e.hash, pos), pos)
		// Everything from pos on is dead and unindexed.
		m.entries = m.entries[:pos]
		return key, value, nil
	}
	return nil, nil, ErrEmptyPop
}

// Clear removes every entry and shrinks the table to its minimum size.
func (m *Map) Clear() {
	old := m.entries
	m.indices = newIndices(minSize)
	m.entries = nil
	m.used = 0
	m.filled = 0
	m.version++
	for _, e := range old {
		if e.live {
			e.key.Release()
			e.value.Release()
		}
	}
}

// Close releases every entry. It is equivalent to Clear.
func (m *Map) Close() {
	m.Clear()
}

// Clone returns a map with an independent structure whose entries hold
// new references to the same keys and values.
func (m *Map) Clone() *Map {
	c := &Map{
		indices: make([]int32, len(m.indices)),
		entries: make([]entry, len(m.entries), cap(m.entries)),
		used:    m.used,
		filled:  m.filled,
		logger:  m.logger,
	}
	copy(c.indices, m.indices)
	for i, e := range m.entries {
		if e.live {
			e.key = e.key.Clone()
			e.value = e.value.Clone()
		}
		c.entries[i] = e
	}
	return c
}

// Len returns the number of live entries.
func (m *Map) Len() int {
	return m.used
}

// IsEmpty reports whether the map has no live entries.
func (m *Map) IsEmpty() bool {
	return m.used == 0
}

// Capacity returns the index table size.
func (m *Map) Capacity() int {
	return len(m.indices)
}

// SizeOf reports the bytes held by the map's index and log storage.
func (m *Map) SizeOf() int {
	return int(unsafe.Sizeof(*m)) +
		cap(m.indices)*int(unsafe.Sizeof(int32(0))) +
		cap(m.entries)*int(unsafe.Sizeof(entry{}))
}

// Size is a snapshot of a map's structural state.
type Size struct {
	Version uint64
	Used    int
	Filled  int
	Entries int
}

// Size returns a snapshot for HasChangedSize.
func (m *Map) Size() Size {
	return Size{
		Version: m.version,
		Used:    m.used,
		Filled:  m.filled,
		Entries: len(m.entries),
	}
}

// HasChangedSize reports whether the map changed structurally since s was
// taken.
func (m *Map) HasChangedSize(s Size) bool {
	return s.Version != m.version || s.Used != m.used
}

// Stats describes a map for introspection and metrics.
type Stats struct {
	Len      int    `json:"len" yaml:"len"`
	Capacity int    `json:"capacity" yaml:"capacity"`
	Filled   int    `json:"filled" yaml:"filled"`
	LogLen   int    `json:"log_len" yaml:"log_len"`
	Bytes    int    `json:"bytes" yaml:"bytes"`
	Version  uint64 `json:"version" yaml:"version"`
	Resizes  uint64 `json:"resizes" yaml:"resizes"`
	Restarts uint64 `json:"restarts" yaml:"restarts"`
}

// Stats returns current statistics.
func (m *Map) Stats() Stats {
	return Stats{
		Len:      m.used,
		Capacity: len(m.indices),
		Filled:   m.filled,
		LogLen:   len(m.entries),
		Bytes:    m.SizeOf(),
		Version:  m.version,
		Resizes:  m.resizes,
		Restarts: m.restarts,
	}
}
