package owner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSuperblockIsUsable(t *testing.T) {
	o := New()
	sb, ok := o.NewSuperblock(128, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(128), sb.BlockSize())

	p, ok := sb.Acquire()
	assert.True(t, ok)
	assert.NotNil(t, p)
}

func TestAllocLargeRoundTrips(t *testing.T) {
	o := New()
	p, ok := o.AllocLarge(1 << 20)
	assert.True(t, ok)
	assert.NotNil(t, p)

	o.FreeLarge(p)
}

func TestShutdownReclaimsEverything(t *testing.T) {
	o := New()
	for i := 0; i < 8; i++ {
		_, ok := o.NewSuperblock(64, 0)
		assert.True(t, ok)
	}
	_, ok := o.AllocLarge(4096)
	assert.True(t, ok)

	o.Shutdown()
	assert.Empty(t, o.regions)
}
