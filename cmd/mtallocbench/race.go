package main

import (
	"sync"

	"github.com/spf13/cobra"

	alloc "github.com/hoardalloc/mtalloc"
)

var raceIterations int
var raceGoroutines int

func init() {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "Many goroutines hammer one size class with alloc/free",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRace()
		},
	}
	cmd.Flags().IntVar(&raceIterations, "iterations", 200000, "operations per goroutine")
	cmd.Flags().IntVar(&raceGoroutines, "goroutines", 8, "number of concurrent goroutines")
	rootCmd.AddCommand(cmd)
}

func runRace() error {
	c := alloc.NewController(alloc.Config{})

	var wg sync.WaitGroup
	for g := 0; g < raceGoroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < raceIterations; i++ {
				p := c.Alloc(128)
				if p != nil {
					c.Free(p)
				}
			}
		}()
	}
	wg.Wait()

	large, small := c.MemStats()
	report("race: %d goroutines x %d ops on one size class completed; live large=%d small=%d", raceGoroutines, raceIterations, large, small)
	return nil
}
