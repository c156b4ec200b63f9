package mtalloc

import "unsafe"

// HeaderSize is the one-machine-word overhead prepended to every object:
// a back-pointer to the owning superblock, or nil for a large allocation
// served directly by the OS allocator.
const HeaderSize = unsafe.Sizeof(uintptr(0))

// writeHeader stores sb (nil for a large allocation) into the header word
// at the start of slot, and returns the payload pointer one header past it.
func writeHeader(slot unsafe.Pointer, sb unsafe.Pointer) unsafe.Pointer {
	*(*unsafe.Pointer)(slot) = sb
	return unsafe.Pointer(uintptr(slot) + HeaderSize)
}

// readHeader returns the back-pointer stored just before payload, and the
// slot address the header itself lives at.
func readHeader(payload unsafe.Pointer) (sb unsafe.Pointer, slot unsafe.Pointer) {
	slot = unsafe.Pointer(uintptr(payload) - HeaderSize)
	sb = *(*unsafe.Pointer)(slot)
	return sb, slot
}
