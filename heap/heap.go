// Package heap implements ThreadHeap and GlobalHeap: a set of per-size-class
// bins, the slow paths that create or transfer superblocks, and the
// migration protocol that moves under-utilized superblocks back to the
// GlobalHeap. A GlobalHeap is simply a Heap constructed with id -1.
package heap

import (
	"sync"
	"unsafe"

	"github.com/hoardalloc/mtalloc/bin"
	"github.com/hoardalloc/mtalloc/owner"
	"github.com/hoardalloc/mtalloc/sizeclass"
	"github.com/hoardalloc/mtalloc/superblock"
)

// GlobalID is the sentinel heap id denoting the GlobalHeap.
const GlobalID int32 = -1

// minBlockThreshold and migrationFactor implement the two-part migration
// condition: never evict below this many resident superblocks
// (minBlockThreshold), and only evict when occupancy is below 1/migrationFactor.
const (
	minBlockThreshold = 5
	migrationFactor   = 4
)

// Heap is a ThreadHeap when id >= 0, or the GlobalHeap when id == GlobalID.
type Heap struct {
	id     int32
	mu     sync.Mutex
	bins   []*bin.Bin
	arena  *owner.SuperblockOwner
	global *Heap // nil for the GlobalHeap itself
}

// NewGlobal constructs the GlobalHeap.
func NewGlobal(arena *owner.SuperblockOwner) *Heap {
	return newHeap(GlobalID, arena, nil)
}

// New constructs a ThreadHeap with the given slot id, donating to and
// borrowing from global.
func New(id int32, arena *owner.SuperblockOwner, global *Heap) *Heap {
	return newHeap(id, arena, global)
}

func newHeap(id int32, arena *owner.SuperblockOwner, global *Heap) *Heap {
	bins := make([]*bin.Bin, sizeclass.Count)
	for i := range bins {
		bins[i] = bin.New(sizeclass.SizeOf(i))
	}
	return &Heap{id: id, bins: bins, arena: arena, global: global}
}

// ID returns this heap's slot id, or GlobalID for the GlobalHeap.
func (h *Heap) ID() int32 {
	return h.id
}

// IsGlobal reports whether this is the GlobalHeap.
func (h *Heap) IsGlobal() bool {
	return h.id == GlobalID
}

// Allocate serves a request for the size class at index, creating or
// borrowing a superblock as needed. Returns the raw slot address (the
// caller is responsible for any header it wants to write into the slot),
// the owning superblock, and ok=false only on OS allocator failure.
func (h *Heap) Allocate(index int) (ptr unsafe.Pointer, sb *superblock.Superblock, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Count the handed-out slot in the bin's used total, which Deallocate
	// decrements by the same block size.
	defer func() {
		if ok {
			h.bins[index].Adjust(int64(sb.BlockSize()), 0)
		}
	}()

	b := h.bins[index]
	if b.HasPartial() {
		sb, ptr, ok = b.AcquireSlot()
		return ptr, sb, ok
	}

	if !h.IsGlobal() {
		if transferred := h.borrowFromGlobal(index); transferred != nil {
			b.Insert(transferred)
			b.Adjust(int64(transferred.UsedMemory()), int64(superblock.Size))
			sb, ptr, ok = b.AcquireSlot()
			return ptr, sb, ok
		}
	}

	fresh, ok := h.arena.NewSuperblock(sizeclass.SizeOf(index), h.id)
	if !ok {
		return nil, nil, false
	}
	b.Insert(fresh)
	b.Adjust(0, int64(superblock.Size))
	sb, ptr, ok = b.AcquireSlot()
	return ptr, sb, ok
}

// borrowFromGlobal takes a partial superblock of the given size class from
// the GlobalHeap and re-homes it to h. The GlobalHeap mutex is acquired
// after h's mutex, which the caller already holds, honoring the local-
// before-global lock ordering.
func (h *Heap) borrowFromGlobal(index int) *superblock.Superblock {
	g := h.global
	g.mu.Lock()
	defer g.mu.Unlock()

	gbin := g.bins[index]
	sb, ok := gbin.TakeEmptiest()
	if !ok {
		return nil
	}

	used := sb.UsedMemory()
	gbin.Adjust(-int64(used), -int64(superblock.Size))

	sb.LockOwner()
	sb.SetOwner(h.id)
	sb.UnlockOwner()

	return sb
}

// Deallocate returns ptr's slot to sb and, for a ThreadHeap, runs the
// migration check. The caller must already hold h's mutex, established by
// FindOwnerAndLock.
func (h *Heap) Deallocate(sb *superblock.Superblock, ptr unsafe.Pointer) {
	index, _, ok := sizeclass.IndexFor(sb.BlockSize())
	if !ok {
		return
	}
	b := h.bins[index]

	b.ReleaseSlot(sb, ptr)
	b.Adjust(-int64(sb.BlockSize()), 0)

	if h.IsGlobal() {
		return
	}
	h.maybeMigrate(b)
}

// maybeMigrate evicts at most one superblock per deallocate, only when
// local occupancy is both fractionally low and there is slack to spare a
// whole superblock.
func (h *Heap) maybeMigrate(b *bin.Bin) {
	used := int64(b.Used())
	allocated := int64(b.Allocated())

	slackOK := used < allocated-int64(minBlockThreshold)*superblock.Size
	fractionOK := used*migrationFactor < allocated
	if !slackOK || !fractionOK {
		return
	}

	sb, ok := b.TakeEmptiest()
	if !ok {
		return
	}

	freed := sb.UsedMemory()
	b.Adjust(-int64(freed), -int64(superblock.Size))

	g := h.global
	g.mu.Lock()
	sb.LockOwner()
	sb.SetOwner(GlobalID)
	sb.UnlockOwner()

	index, _, _ := sizeclass.IndexFor(sb.BlockSize())
	gbin := g.bins[index]
	gbin.Insert(sb)
	gbin.Adjust(int64(freed), int64(superblock.Size))
	g.mu.Unlock()
}

// LiveCount returns the number of objects currently handed out across every
// size class in this heap. Test/benchmark-only introspection, not a
// statistics export: it reports a single integer, not per-size-class
// detail or timing.
func (h *Heap) LiveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := 0
	for _, b := range h.bins {
		total += int(b.Used() / uint64(b.SizeClass()))
	}
	return total
}

// Lock exposes h's mutex to FindOwnerAndLock. Exported because the
// back-pointer race protocol lives at package scope, not as a Heap method,
// so it can operate uniformly over a caller-supplied heap table.
func (h *Heap) Lock() {
	h.mu.Lock()
}

// Unlock releases h's mutex.
func (h *Heap) Unlock() {
	h.mu.Unlock()
}

// FindOwnerAndLock implements the back-pointer race protocol: it reads sb's
// current owner, locks that heap, and re-checks, retrying if the owner
// changed out from under it. It returns with the returned Heap's mutex
// held; the caller must Unlock it.
func FindOwnerAndLock(sb *superblock.Superblock, heaps []*Heap, global *Heap) *Heap {
	for {
		current := sb.Owner()

		var h *Heap
		if current == GlobalID {
			h = global
		} else {
			h = heaps[current]
		}

		h.Lock()

		sb.LockOwner()
		same := sb.Owner() == current
		sb.UnlockOwner()

		if same {
			return h
		}
		h.Unlock()
	}
}
