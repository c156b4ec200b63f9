package mtalloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	slot := unsafe.Pointer(&buf[0])

	marker := unsafe.Pointer(&buf[0])
	payload := writeHeader(slot, marker)
	assert.Equal(t, unsafe.Pointer(uintptr(slot)+HeaderSize), payload)

	sb, gotSlot := readHeader(payload)
	assert.Equal(t, marker, sb)
	assert.Equal(t, slot, gotSlot)
}

func TestWriteHeaderNilForLargeAlloc(t *testing.T) {
	buf := make([]byte, 64)
	slot := unsafe.Pointer(&buf[0])

	payload := writeHeader(slot, nil)
	sb, _ := readHeader(payload)
	assert.Nil(t, sb)
}
