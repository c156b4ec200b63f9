package main

import (
	"github.com/spf13/cobra"

	alloc "github.com/hoardalloc/mtalloc"
)

var largeIterations int

func init() {
	cmd := &cobra.Command{
		Use:   "large",
		Short: "Repeated large-allocation pass-through round trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLarge()
		},
	}
	cmd.Flags().IntVar(&largeIterations, "iterations", 1000, "number of alloc/free round trips")
	rootCmd.AddCommand(cmd)
}

func runLarge() error {
	c := alloc.NewController(alloc.Config{})

	for i := 0; i < largeIterations; i++ {
		p := c.Alloc(65536)
		if p == nil {
			return errAllocFailed
		}
		c.Free(p)
	}

	large, _ := c.MemStats()
	report("large: %d round trips of 65536 bytes through the OS allocator; live large=%d", largeIterations, large)
	return nil
}
