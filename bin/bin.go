// Package bin implements the per-size-class container of superblocks that
// a ThreadHeap or GlobalHeap holds one of per size class: a partial/full
// partition with O(1) acquire, release, and full/partial transitions.
package bin

import (
	"container/list"
	"unsafe"

	"github.com/hoardalloc/mtalloc/superblock"
)

// Bin holds every superblock of one size class currently owned by a heap,
// split into partial (has a free slot) and full (no free slots). All
// mutation is the caller's responsibility to serialize, normally via the
// owning heap's mutex.
type Bin struct {
	sizeClass uint32

	partial *list.List
	full    *list.List
	elems   map[*superblock.Superblock]*list.Element // which list (partial xor full) owns each sb

	used      uint64
	allocated uint64
}

// New creates an empty bin for the given size class.
func New(sizeClass uint32) *Bin {
	return &Bin{
		sizeClass: sizeClass,
		partial:   list.New(),
		full:      list.New(),
		elems:     make(map[*superblock.Superblock]*list.Element),
	}
}

// SizeClass returns the block size this bin serves.
func (b *Bin) SizeClass() uint32 {
	return b.sizeClass
}

// Used returns the aggregate used_memory of every superblock in the bin.
func (b *Bin) Used() uint64 {
	return b.used
}

// Allocated returns the aggregate capacity of every superblock in the bin.
func (b *Bin) Allocated() uint64 {
	return b.allocated
}

// Adjust updates the aggregate counters by the given signed deltas.
func (b *Bin) Adjust(usedDelta, allocatedDelta int64) {
	b.used = uint64(int64(b.used) + usedDelta)
	b.allocated = uint64(int64(b.allocated) + allocatedDelta)
}

// Insert places sb into the full or partial list depending on its current
// fullness. Does not touch the aggregate counters; the caller does that
// alongside Insert when the superblock is newly created or transferred.
func (b *Bin) Insert(sb *superblock.Superblock) {
	if sb.IsFull() {
		b.elems[sb] = b.full.PushBack(sb)
	} else {
		b.elems[sb] = b.partial.PushBack(sb)
	}
}

func (b *Bin) remove(sb *superblock.Superblock) {
	elem, ok := b.elems[sb]
	if !ok {
		return
	}
	b.partial.Remove(elem)
	b.full.Remove(elem)
	delete(b.elems, sb)
}

// AcquireSlot takes any partial superblock, acquires a slot from it, and
// moves it to full if that exhausted it. Returns ok=false if the bin has no
// partial superblock.
func (b *Bin) AcquireSlot() (sb *superblock.Superblock, ptr unsafe.Pointer, ok bool) {
	elem := b.partial.Back()
	if elem == nil {
		return nil, nil, false
	}
	sb = elem.Value.(*superblock.Superblock)

	ptr, ok = sb.Acquire()
	if !ok {
		// Bin bookkeeping drifted from the superblock's real state; treat
		// as no partial superblock available rather than corrupt state.
		return nil, nil, false
	}

	b.partial.Remove(elem)
	if sb.IsFull() {
		b.elems[sb] = b.full.PushBack(sb)
	} else {
		b.elems[sb] = b.partial.PushBack(sb)
	}
	return sb, ptr, true
}

// ReleaseSlot returns ptr's slot to sb and moves sb from full to partial if
// releasing the slot made room.
func (b *Bin) ReleaseSlot(sb *superblock.Superblock, ptr unsafe.Pointer) {
	wasFull := sb.IsFull()
	sb.Release(ptr)
	if wasFull {
		b.remove(sb)
		b.elems[sb] = b.partial.PushBack(sb)
	}
}

// TakeEmptiest detaches and returns a partial superblock from the bin; any
// choice among the partial superblocks is permitted. Returns ok=false if
// the bin has no partial superblock.
func (b *Bin) TakeEmptiest() (sb *superblock.Superblock, ok bool) {
	elem := b.partial.Front()
	if elem == nil {
		return nil, false
	}
	sb = elem.Value.(*superblock.Superblock)
	b.remove(sb)
	return sb, true
}

// Detach removes sb from whichever list it currently occupies, without
// regard to fullness. Used when a full superblock is otherwise disposed of.
func (b *Bin) Detach(sb *superblock.Superblock) {
	b.remove(sb)
}

// HasPartial reports whether the bin has at least one superblock with a
// free slot.
func (b *Bin) HasPartial() bool {
	return b.partial.Len() > 0
}
