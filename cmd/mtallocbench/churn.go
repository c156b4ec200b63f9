package main

import (
	"unsafe"

	"github.com/spf13/cobra"

	alloc "github.com/hoardalloc/mtalloc"
)

var churnCount int

func init() {
	cmd := &cobra.Command{
		Use:   "churn",
		Short: "Single-thread allocate-then-free-in-reverse churn",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChurn()
		},
	}
	cmd.Flags().IntVar(&churnCount, "count", 1000, "number of objects to allocate")
	rootCmd.AddCommand(cmd)
}

func runChurn() error {
	c := alloc.NewController(alloc.Config{})

	ptrs := make([]unsafe.Pointer, 0, churnCount)
	for i := 0; i < churnCount; i++ {
		p := c.Alloc(24)
		if p == nil {
			return errAllocFailed
		}
		ptrs = append(ptrs, p)
	}

	for i := len(ptrs) - 1; i >= 0; i-- {
		c.Free(ptrs[i])
	}

	large, small := c.MemStats()
	report("churn: allocated %d objects of 24 bytes, freed in reverse; live large=%d small=%d", churnCount, large, small)
	return nil
}
