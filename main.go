// Package main provides the entry point for bpsim.
// bpsim measures the misprediction rate of bimodal and Gshare branch
// predictors over recorded branch traces.
//
// For the full CLI, use: go run ./cmd/bpsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("bpsim - Branch Predictor Trace Simulator")
	fmt.Println("")
	fmt.Println("Usage: bpsim [options] <M> <N> <trace>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to predictor configuration JSON file")
	fmt.Println("  -truncate  Stop at the first malformed trace record")
	fmt.Println("  -v         Print every resolved record")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/bpsim' for the full CLI,")
	fmt.Println("or 'go run ./cmd/sweep' to explore many (M, N) pairs.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/bpsim' instead.")
	}
}
