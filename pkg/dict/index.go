package dict

const (
	// minSize is the capacity of a new or cleared index table.
	minSize = 8

	// maxSize is the largest index table. Entry positions fit in int32.
	maxSize = 1 << 30

	perturbShift = 5

	slotEmpty int32 = -1
	slotDummy int32 = -2
)

// MaxCapacity is the most entries a Map can hold.
const MaxCapacity = maxSize * 2 / 3

// newIndices allocates an index table of the given power-of-two size with
// every slot empty.
func newIndices(size int) []int32 {
	s := make([]int32, size)
	for i := range s {
		s[i] = slotEmpty
	}
	return s
}

// usable is the number of slots that may be filled before a resize.
func usable(size int) int {
	return size * 2 / 3
}

// sizeFor returns the smallest table size whose usable fraction holds n.
func sizeFor(n int) int {
	size := minSize
	for usable(size) < n && size <= maxSize {
		size <<= 1
	}
	return size
}

// probe walks the open-addressing sequence for one hash. Once perturb is
// exhausted the recurrence slot = 5*slot + 1 covers every slot of a
// power-of-two table.
type probe struct {
	slot    uint64
	perturb uint64
	mask    uint64
}

func newProbe(hash int64, size int) probe {
	h := uint64(hash)
	mask := uint64(size - 1)
	return probe{slot: h & mask, perturb: h, mask: mask}
}

func (p *probe) next() {
	p.slot = (5*p.slot + 1 + p.perturb) & p.mask
	p.perturb >>= perturbShift
}

// findEmptySlot returns the first empty slot on hash's probe sequence.
// Only used when the key is known to be absent.
func findEmptySlot(indices []int32, hash int64) int {
	p := newProbe(hash, len(indices))
	for indices[p.slot] != slotEmpty {
		p.next()
	}
	return int(p.slot)
}

// findSlotOf returns the slot that refers to entry position pos.
func findSlotOf(indices []int32, hash int64, pos int) int {
	p := newProbe(hash, len(indices))
	for {
		ix := indices[p.slot]
		if ix == int32(pos) {
			return int(p.slot)
		}
		if ix == slotEmpty {
			return -1
		}
		p.next()
	}
}
