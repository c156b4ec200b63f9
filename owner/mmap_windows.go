//go:build windows

package owner

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// mmapRegion asks the OS for a fresh zero-filled region of n bytes via
// VirtualAlloc, mirroring mmapRegion on unix.
func mmapRegion(n int) (unsafe.Pointer, bool) {
	addr, err := windows.VirtualAlloc(0, uintptr(n), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, false
	}
	return unsafe.Pointer(addr), true
}

// munmapRegion releases a region previously returned by mmapRegion.
func munmapRegion(ptr unsafe.Pointer, _ int) {
	_ = windows.VirtualFree(uintptr(ptr), 0, windows.MEM_RELEASE)
}
