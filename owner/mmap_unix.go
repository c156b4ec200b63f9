//go:build linux || darwin || freebsd

package owner

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapRegion asks the OS for a fresh anonymous, zero-filled region of n
// bytes. The returned pointer is page-aligned and valid until munmapRegion
// is called on it.
func mmapRegion(n int) (unsafe.Pointer, bool) {
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, false
	}
	return unsafe.Pointer(&b[0]), true
}

// munmapRegion releases a region previously returned by mmapRegion.
func munmapRegion(ptr unsafe.Pointer, n int) {
	b := unsafe.Slice((*byte)(ptr), n)
	_ = unix.Munmap(b)
}
