//go:build linux

package mtalloc

import "golang.org/x/sys/unix"

// osThreadID returns the kernel thread id of the OS thread currently
// running this goroutine. Exported-to-C calls into cmd/mtallocso's
// mtalloc/mtfree execute on the same OS thread for the lifetime of the cgo
// transition, so this is a faithful proxy for per-thread identity.
func osThreadID() int32 {
	return int32(unix.Gettid())
}
