// Package owner implements the process-wide arena that creates and
// ultimately destroys every superblock's backing memory. Superblocks
// themselves never free their own memory; SuperblockOwner is the sole
// place that calls into the OS allocator for that purpose.
package owner

import (
	"sync"
	"unsafe"

	"github.com/hoardalloc/mtalloc/superblock"
)

// SuperblockOwner mints superblocks backed by freshly mapped OS memory and
// tracks every live region so it can be torn down best-effort at process
// exit.
type SuperblockOwner struct {
	mu      sync.Mutex
	regions map[unsafe.Pointer]int // base -> length, one entry per live superblock or large allocation
}

// New creates an empty SuperblockOwner.
func New() *SuperblockOwner {
	return &SuperblockOwner{
		regions: make(map[unsafe.Pointer]int),
	}
}

// NewSuperblock mints a fresh superblock.Size region for blockSize and
// hands ownership to heap id owner. Returns ok=false if the OS allocator
// could not satisfy the request; all existing invariants remain intact in
// that case.
func (o *SuperblockOwner) NewSuperblock(blockSize uint32, owner int32) (*superblock.Superblock, bool) {
	base, ok := mmapRegion(superblock.Size)
	if !ok {
		return nil, false
	}

	o.mu.Lock()
	o.regions[base] = superblock.Size
	o.mu.Unlock()

	return superblock.New(base, blockSize, owner), true
}

// AllocLarge asks the OS allocator directly for n bytes, for the
// Controller's large-allocation path. Returns ok=false on OS failure.
func (o *SuperblockOwner) AllocLarge(n int) (unsafe.Pointer, bool) {
	base, ok := mmapRegion(n)
	if !ok {
		return nil, false
	}
	o.mu.Lock()
	o.regions[base] = n
	o.mu.Unlock()
	return base, true
}

// FreeLarge releases a region previously returned by AllocLarge.
func (o *SuperblockOwner) FreeLarge(ptr unsafe.Pointer) {
	o.mu.Lock()
	n, ok := o.regions[ptr]
	if ok {
		delete(o.regions, ptr)
	}
	o.mu.Unlock()
	if ok {
		munmapRegion(ptr, n)
	}
}

// Shutdown frees every region this owner ever minted, superblocks and
// large allocations alike. Best-effort: no ordering with concurrently
// running threads is guaranteed.
func (o *SuperblockOwner) Shutdown() {
	o.mu.Lock()
	regions := o.regions
	o.regions = make(map[unsafe.Pointer]int)
	o.mu.Unlock()

	for ptr, n := range regions {
		munmapRegion(ptr, n)
	}
}
