package main

import (
	"github.com/spf13/cobra"

	alloc "github.com/hoardalloc/mtalloc"
)

func init() {
	cmd := &cobra.Command{
		Use:   "zero",
		Short: "mtalloc(0) returns a usable, freeable pointer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runZero()
		},
	}
	rootCmd.AddCommand(cmd)
}

func runZero() error {
	c := alloc.NewController(alloc.Config{})

	p := c.Alloc(0)
	if p == nil {
		return errAllocFailed
	}
	c.Free(p)

	report("zero: mtalloc(0) returned a non-nil pointer and freed cleanly")
	return nil
}
