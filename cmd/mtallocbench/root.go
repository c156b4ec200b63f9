package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var quiet bool

var errAllocFailed = errors.New("mtallocbench: allocation returned nil")

var rootCmd = &cobra.Command{
	Use:     "mtallocbench",
	Short:   "Drive the mtalloc allocator through its testable scenarios",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress the summary line")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func report(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}
