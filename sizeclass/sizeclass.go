// Package sizeclass holds the power-of-two size-class table shared by the
// heap and root packages: 8, 16, 32, ..., 4096 bytes.
package sizeclass

import (
	"math/bits"

	"github.com/hoardalloc/mtalloc/superblock"
)

// Min is the smallest size class, in bytes.
const Min = 8

// Max is the largest size class a Bin ever serves. Requests whose total
// size (including the object header) exceed Max go through the large
// allocation path instead.
const Max = superblock.Size / 2

// Count is the number of size classes between Min and Max inclusive.
var Count = logBase2(Max/Min) + 1

func logBase2(v uint32) int {
	return bits.Len32(v) - 1
}

// IndexFor returns the bin index serving requests of size bytes, rounding
// up to the next power of two no smaller than Min. ok is false if size
// exceeds Max, meaning the request belongs on the large-allocation path.
func IndexFor(size uint32) (index int, class uint32, ok bool) {
	class = Min
	for class < size {
		class <<= 1
	}
	if class > Max {
		return 0, 0, false
	}
	return logBase2(class / Min), class, true
}

// SizeOf returns the size class served by bin index.
func SizeOf(index int) uint32 {
	return Min << uint(index)
}
