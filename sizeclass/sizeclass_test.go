package sizeclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexFor(t *testing.T) {
	table := []struct {
		name     string
		size     uint32
		index    int
		class    uint32
		ok       bool
	}{
		{"zero", 0, 0, Min, true},
		{"exact-min", 8, 0, 8, true},
		{"between", 24, 2, 32, true},
		{"exact-class", 32, 2, 32, true},
		{"at-max", 4096, 9, 4096, true},
		{"over-max", 4097, 0, 0, false},
	}

	for _, e := range table {
		t.Run(e.name, func(t *testing.T) {
			index, class, ok := IndexFor(e.size)
			assert.Equal(t, e.ok, ok)
			if ok {
				assert.Equal(t, e.index, index)
				assert.Equal(t, e.class, class)
			}
		})
	}
}

func TestSizeOfRoundTrip(t *testing.T) {
	for i := 0; i < Count; i++ {
		class := SizeOf(i)
		index, gotClass, ok := IndexFor(class)
		assert.True(t, ok)
		assert.Equal(t, i, index)
		assert.Equal(t, class, gotClass)
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, 10, Count)
	assert.Equal(t, uint32(4096), SizeOf(Count-1))
}
