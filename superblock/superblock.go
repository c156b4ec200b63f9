// Package superblock implements the leaf of the allocator hierarchy: a
// fixed-size region of memory carved into equal-size slots of one size
// class, with a LIFO free list of slot indices.
package superblock

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// Size is the fixed payload size of every superblock, in bytes.
const Size = 8192

// Superblock is a Size-byte region split into Total slots of BlockSize
// bytes each. Every field except the owner-heap id and its guarding mutex
// is mutated only by a caller already holding the owning heap's mutex; see
// heap.FindOwnerAndLock and the heap package's migration code for the
// locking discipline.
type Superblock struct {
	base      unsafe.Pointer
	blockSize uint32
	total     uint32

	free   []uint32 // stack of free slot indices, free[0:cursor+1] are live
	cursor int32    // top of stack; -1 means full, total-1 means empty

	usedMemory uint64

	ownerMu sync.Mutex
	owner   atomic.Int32 // -1 denotes the GlobalHeap
}

// New carves a fresh superblock for blockSize out of base, which must point
// to a Size-byte region owned exclusively by the returned superblock for its
// lifetime. owner is the heap id that will take the superblock first.
func New(base unsafe.Pointer, blockSize uint32, owner int32) *Superblock {
	total := Size / blockSize
	free := make([]uint32, total)
	for i := uint32(0); i < total; i++ {
		free[i] = i
	}
	sb := &Superblock{
		base:      base,
		blockSize: blockSize,
		total:     total,
		free:      free,
		cursor:    int32(total) - 1,
	}
	sb.owner.Store(owner)
	return sb
}

// BlockSize returns the size class this superblock serves.
func (sb *Superblock) BlockSize() uint32 {
	return sb.blockSize
}

// Total returns the number of slots in this superblock.
func (sb *Superblock) Total() uint32 {
	return sb.total
}

// UsedMemory returns the number of bytes currently handed out.
func (sb *Superblock) UsedMemory() uint64 {
	return sb.usedMemory
}

// IsFull reports whether the superblock has no free slots.
func (sb *Superblock) IsFull() bool {
	return sb.cursor == -1
}

// IsEmpty reports whether every slot is free.
func (sb *Superblock) IsEmpty() bool {
	return sb.cursor == int32(sb.total)-1
}

// Acquire pops a free slot and returns its address, or ok=false if full.
func (sb *Superblock) Acquire() (ptr unsafe.Pointer, ok bool) {
	if sb.cursor == -1 {
		return nil, false
	}
	idx := sb.free[sb.cursor]
	sb.cursor--
	sb.usedMemory += uint64(sb.blockSize)
	return sb.slotAddr(idx), true
}

// Release pushes ptr's slot back onto the free stack. ptr must have been
// returned by a prior Acquire on this superblock.
func (sb *Superblock) Release(ptr unsafe.Pointer) {
	idx := sb.slotIndex(ptr)
	sb.cursor++
	sb.free[sb.cursor] = idx
	sb.usedMemory -= uint64(sb.blockSize)
}

func (sb *Superblock) slotAddr(idx uint32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(sb.base) + uintptr(idx)*uintptr(sb.blockSize))
}

func (sb *Superblock) slotIndex(ptr unsafe.Pointer) uint32 {
	return uint32((uintptr(ptr) - uintptr(sb.base)) / uintptr(sb.blockSize))
}

// Owner performs the unsynchronized read step of the back-pointer race
// protocol: it returns the current owner without taking ownerMu. The field
// is atomic so this read never tears, even though it may observe a value
// that is immediately stale — callers are expected to recheck under
// ownerMu before trusting it, per the heap package's locking discipline.
func (sb *Superblock) Owner() int32 {
	return sb.owner.Load()
}

// LockOwner acquires the mutex guarding the owner field, for use by the
// read-then-lock-then-recheck dance in package heap.
func (sb *Superblock) LockOwner() {
	sb.ownerMu.Lock()
}

// UnlockOwner releases the mutex guarding the owner field.
func (sb *Superblock) UnlockOwner() {
	sb.ownerMu.Unlock()
}

// SetOwner changes the recorded owner. The caller must hold both the
// mutexes of the current and next owning heap (or be constructing the
// superblock for the first time) and must hold ownerMu.
func (sb *Superblock) SetOwner(id int32) {
	sb.owner.Store(id)
}
