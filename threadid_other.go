//go:build !linux

package mtalloc

import (
	"bytes"
	"runtime"
	"strconv"
)

// osThreadID has no true OS-thread-id source outside Linux in pure Go (no
// pthread_threadid_np/GetCurrentThreadId without cgo). It falls back to the
// calling goroutine's id, parsed out of a runtime.Stack dump. Goroutines are
// not OS threads, but two threads sharing a heap slot is tolerated by
// design, so a coarser identity only changes contention, never correctness.
func osThreadID() int32 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]

	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(buf[:end]), 10, 32)
	if err != nil {
		return 0
	}
	return int32(id)
}
