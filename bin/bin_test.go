package bin

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/hoardalloc/mtalloc/superblock"
)

func newSB(blockSize uint32, owner int32) *superblock.Superblock {
	data := make([]byte, superblock.Size)
	return superblock.New(unsafe.Pointer(&data[0]), blockSize, owner)
}

func TestInsertPartialAndFull(t *testing.T) {
	b := New(128)

	sb := newSB(128, 0)
	b.Insert(sb)
	assert.True(t, b.HasPartial())

	for !sb.IsFull() {
		_, _, ok := b.AcquireSlot()
		assert.True(t, ok)
	}
	assert.False(t, b.HasPartial())
}

func TestAcquireSlotTransitionsToFull(t *testing.T) {
	b := New(4096)
	sb := newSB(4096, 0) // total == 2
	b.Insert(sb)

	_, p1, ok := b.AcquireSlot()
	assert.True(t, ok)
	assert.True(t, b.HasPartial())

	_, p2, ok := b.AcquireSlot()
	assert.True(t, ok)
	assert.NotEqual(t, p1, p2)
	assert.False(t, b.HasPartial())

	_, _, ok = b.AcquireSlot()
	assert.False(t, ok)
}

func TestReleaseSlotMovesFullToPartial(t *testing.T) {
	b := New(4096)
	sb := newSB(4096, 0)
	b.Insert(sb)

	_, p1, _ := b.AcquireSlot()
	_, _, _ = b.AcquireSlot()
	assert.False(t, b.HasPartial())

	b.ReleaseSlot(sb, p1)
	assert.True(t, b.HasPartial())
}

func TestTakeEmptiestDetaches(t *testing.T) {
	b := New(128)
	sb := newSB(128, 0)
	b.Insert(sb)

	got, ok := b.TakeEmptiest()
	assert.True(t, ok)
	assert.Equal(t, sb, got)
	assert.False(t, b.HasPartial())

	_, ok = b.TakeEmptiest()
	assert.False(t, ok)
}

func TestAdjustCounters(t *testing.T) {
	b := New(128)
	b.Adjust(100, 8192)
	assert.Equal(t, uint64(100), b.Used())
	assert.Equal(t, uint64(8192), b.Allocated())

	b.Adjust(-50, -8192)
	assert.Equal(t, uint64(50), b.Used())
	assert.Equal(t, uint64(0), b.Allocated())
}
