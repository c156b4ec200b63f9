// Package mtalloc implements a multithreaded, Hoard-style general-purpose
// allocator: per-thread heaps backed by superblocks, size-class bins, and a
// migration protocol that moves under-utilized superblocks to a shared
// GlobalHeap. See the Controller type for the front door; see cmd/mtallocso
// for the C-linkage mtalloc/mtfree entry points.
package mtalloc

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/hoardalloc/mtalloc/heap"
	"github.com/hoardalloc/mtalloc/owner"
	"github.com/hoardalloc/mtalloc/sizeclass"
	"github.com/hoardalloc/mtalloc/superblock"
)

// Config overrides compile-time defaults. The zero value uses
// runtime.NumCPU()-derived defaults for every field.
type Config struct {
	// NumHeaps overrides H = max(2*runtime.NumCPU(), 8). Zero means use the
	// default.
	NumHeaps int
}

func validateConfig(conf Config) {
	if conf.NumHeaps < 0 {
		panic("mtalloc: NumHeaps must be >= 0")
	}
}

func defaultNumHeaps() int {
	n := 2 * runtime.NumCPU()
	if n < 8 {
		n = 8
	}
	return n
}

// Controller is the front door of the allocator: it routes small requests
// to the calling thread's heap and large requests straight to the OS
// allocator via owner.SuperblockOwner, prepending the header that records
// which path owns each object.
type Controller struct {
	arena  *owner.SuperblockOwner
	global *heap.Heap
	heaps  []*heap.Heap

	largeMu sync.Mutex
	large   map[unsafe.Pointer]struct{}

	slots sync.Map // tid int32 -> heap index int32
}

// NewController constructs a fresh, independent Controller. Most callers
// should use the package-level Alloc/Free, which operate on a lazily
// constructed process-wide singleton; NewController exists for tests that
// need isolated state.
func NewController(conf Config) *Controller {
	validateConfig(conf)

	n := conf.NumHeaps
	if n == 0 {
		n = defaultNumHeaps()
	}

	arena := owner.New()
	global := heap.NewGlobal(arena)
	heaps := make([]*heap.Heap, n)
	for i := range heaps {
		heaps[i] = heap.New(int32(i), arena, global)
	}

	return &Controller{
		arena:  arena,
		global: global,
		heaps:  heaps,
		large:  make(map[unsafe.Pointer]struct{}),
	}
}

var (
	defaultOnce       sync.Once
	defaultController *Controller
)

func defaultCtrl() *Controller {
	defaultOnce.Do(func() {
		defaultController = NewController(Config{})
	})
	return defaultController
}

// Alloc serves a request for n bytes, routing it to the large-allocation
// path when the request plus header overhead exceeds half a superblock.
// Returns nil on OS allocator failure. A request of n==0 is served from
// the smallest size class, so the returned pointer is always usable and
// freeable.
func (c *Controller) Alloc(n uintptr) unsafe.Pointer {
	total := n + HeaderSize
	if total > uintptr(sizeclass.Max) {
		return c.allocLarge(n)
	}

	index, _, ok := sizeclass.IndexFor(uint32(total))
	if !ok {
		return c.allocLarge(n)
	}

	h := c.heapForCallingThread()
	slot, sb, ok := h.Allocate(index)
	if !ok {
		return nil
	}
	return writeHeader(slot, unsafe.Pointer(sb))
}

func (c *Controller) allocLarge(n uintptr) unsafe.Pointer {
	total := int(n + HeaderSize)
	base, ok := c.arena.AllocLarge(total)
	if !ok {
		return nil
	}

	c.largeMu.Lock()
	c.large[base] = struct{}{}
	c.largeMu.Unlock()

	return writeHeader(base, nil)
}

// Free releases a pointer previously returned by Alloc. A nil pointer is a
// no-op. Freeing a foreign or already-freed pointer is undefined behavior.
func (c *Controller) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	sbPtr, slot := readHeader(p)
	if sbPtr == nil {
		c.largeMu.Lock()
		_, tracked := c.large[slot]
		if tracked {
			delete(c.large, slot)
		}
		c.largeMu.Unlock()

		if tracked {
			c.arena.FreeLarge(slot)
		}
		return
	}

	sb := (*superblock.Superblock)(sbPtr)
	h := heap.FindOwnerAndLock(sb, c.heaps, c.global)
	h.Deallocate(sb, slot)
	h.Unlock()
}

// MemStats reports how many large allocations and how many small
// allocations are currently live. It exists for tests and the benchmark
// CLI's summary line, not as a general statistics export: no per-size-class
// breakdown, no timing, no histogram.
func (c *Controller) MemStats() (large int, small int) {
	c.largeMu.Lock()
	large = len(c.large)
	c.largeMu.Unlock()

	small = c.global.LiveCount()
	for _, h := range c.heaps {
		small += h.LiveCount()
	}
	return large, small
}

// Close releases every region the Controller's arena ever mapped, superblocks
// and large allocations alike. Best-effort: no ordering with concurrently
// running allocations or frees is guaranteed, so Close is meant for shutdown,
// not for use while other goroutines may still be calling Alloc/Free.
func (c *Controller) Close() {
	c.arena.Shutdown()
}

// heapForCallingThread hashes the calling OS thread's id to a heap slot,
// caching the result so the hash is computed once per thread and reused on
// every later call from that thread.
func (c *Controller) heapForCallingThread() *heap.Heap {
	tid := osThreadID()

	if v, ok := c.slots.Load(tid); ok {
		return c.heaps[v.(int32)]
	}

	idx := int32(uint32(tid) % uint32(len(c.heaps)))
	c.slots.Store(tid, idx)
	return c.heaps[idx]
}

// Alloc serves n bytes from the process-wide default Controller, lazily
// constructed on first use.
func Alloc(n uintptr) unsafe.Pointer {
	return defaultCtrl().Alloc(n)
}

// Free releases a pointer previously returned by Alloc, using the
// process-wide default Controller.
func Free(p unsafe.Pointer) {
	defaultCtrl().Free(p)
}

// MemStats reports live allocation counts for the process-wide default
// Controller.
func MemStats() (large int, small int) {
	return defaultCtrl().MemStats()
}

// Close releases every region mapped by the process-wide default Controller.
func Close() {
	defaultCtrl().Close()
}
