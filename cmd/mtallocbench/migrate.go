package main

import (
	"unsafe"

	"github.com/spf13/cobra"

	alloc "github.com/hoardalloc/mtalloc"
)

func init() {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Allocate ten near-half-superblock objects, free nine, allocate once more on the same goroutine and report live small counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
	rootCmd.AddCommand(cmd)
}

func runMigrate() error {
	c := alloc.NewController(alloc.Config{})
	const objSize = 4000 // near S/2: with the header it rounds up to the 4096 class, two objects per superblock

	ptrs := make([]unsafe.Pointer, 0, 10)
	for i := 0; i < 10; i++ {
		p := c.Alloc(objSize)
		if p == nil {
			return errAllocFailed
		}
		ptrs = append(ptrs, p)
	}
	for i := 0; i < 9; i++ {
		c.Free(ptrs[i])
	}

	_, before := c.MemStats()

	q := c.Alloc(objSize)
	if q == nil {
		return errAllocFailed
	}
	_, after := c.MemStats()

	report("migrate: freed 9/10 objects; live small before second alloc=%d after=%d", before, after)
	c.Free(q)
	c.Free(ptrs[9])
	return nil
}
