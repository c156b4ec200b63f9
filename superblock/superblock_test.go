package superblock

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func newTestBase() unsafe.Pointer {
	data := make([]byte, Size)
	return unsafe.Pointer(&data[0])
}

func TestNew(t *testing.T) {
	sb := New(newTestBase(), 128, 3)
	assert.Equal(t, uint32(128), sb.BlockSize())
	assert.Equal(t, uint32(Size/128), sb.Total())
	assert.False(t, sb.IsFull())
	assert.True(t, sb.IsEmpty())
	assert.Equal(t, int32(3), sb.Owner())
	assert.Equal(t, uint64(0), sb.UsedMemory())
}

func TestAcquireRelease(t *testing.T) {
	sb := New(newTestBase(), 128, 0)

	p1, ok := sb.Acquire()
	assert.True(t, ok)
	assert.False(t, sb.IsEmpty())
	assert.Equal(t, uint64(128), sb.UsedMemory())

	p2, ok := sb.Acquire()
	assert.True(t, ok)
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, uint64(256), sb.UsedMemory())

	sb.Release(p1)
	assert.Equal(t, uint64(128), sb.UsedMemory())

	p3, ok := sb.Acquire()
	assert.True(t, ok)
	assert.Equal(t, p1, p3) // LIFO reuse
}

func TestAcquireUntilFull(t *testing.T) {
	sb := New(newTestBase(), 1024, 0)
	total := int(sb.Total())

	seen := make(map[unsafe.Pointer]bool)
	for i := 0; i < total; i++ {
		p, ok := sb.Acquire()
		assert.True(t, ok)
		assert.False(t, seen[p])
		seen[p] = true
	}
	assert.True(t, sb.IsFull())

	_, ok := sb.Acquire()
	assert.False(t, ok)
}

func TestOwnerTransition(t *testing.T) {
	sb := New(newTestBase(), 64, 0)
	sb.LockOwner()
	sb.SetOwner(-1)
	sb.UnlockOwner()
	assert.Equal(t, int32(-1), sb.Owner())
}

func TestSlotAddressesAreDistinctAndAligned(t *testing.T) {
	sb := New(newTestBase(), 64, 0)
	var addrs []uintptr
	for i := 0; i < int(sb.Total()); i++ {
		p, ok := sb.Acquire()
		assert.True(t, ok)
		addrs = append(addrs, uintptr(p))
	}
	for _, a := range addrs {
		assert.Equal(t, uintptr(0), a%64)
	}
	for i := range addrs {
		for j := range addrs {
			if i != j {
				assert.NotEqual(t, addrs[i], addrs[j])
			}
		}
	}
}
