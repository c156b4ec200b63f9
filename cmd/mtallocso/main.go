// Command mtallocso builds the C-linkage shared library surface for the
// allocator: `go build -buildmode=c-shared -o libmtalloc.so ./cmd/mtallocso`
// produces a drop-in malloc/free replacement callable from C.
package main

/*
#include <stddef.h>
*/
import "C"

import (
	"unsafe"

	alloc "github.com/hoardalloc/mtalloc"
)

// mtalloc serves bytes from the process-wide allocator, returning NULL on
// OS allocator failure.
//
//export mtalloc
func mtalloc(bytes C.size_t) unsafe.Pointer {
	return alloc.Alloc(uintptr(bytes))
}

// mtfree releases a pointer previously returned by mtalloc. A NULL pointer
// is a no-op; freeing anything else is undefined behavior.
//
//export mtfree
func mtfree(ptr unsafe.Pointer) {
	alloc.Free(ptr)
}

func main() {}
