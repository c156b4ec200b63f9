// Command mtallocbench drives the allocator through a set of concurrency and
// lifecycle scenarios, printing a one-line summary for each. It talks only
// to the package's public Go API: each scenario builds its own Controller
// with mtalloc.NewController and calls its Alloc, Free and MemStats methods,
// the Go counterparts of what cmd/mtallocso exports to C.
package main

func main() {
	execute()
}
