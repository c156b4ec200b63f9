package main

import (
	"sync"

	"github.com/spf13/cobra"

	alloc "github.com/hoardalloc/mtalloc"
)

func init() {
	cmd := &cobra.Command{
		Use:   "crossfree",
		Short: "Allocate on one goroutine, free on another",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrossFree()
		},
	}
	rootCmd.AddCommand(cmd)
}

func runCrossFree() error {
	c := alloc.NewController(alloc.Config{})

	p := c.Alloc(100)
	if p == nil {
		return errAllocFailed
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Free(p)
	}()
	wg.Wait()

	q := c.Alloc(100)
	if q == nil {
		return errAllocFailed
	}
	c.Free(q)

	report("crossfree: thread A allocated, thread B freed; thread A reallocated successfully afterward")
	return nil
}
