// Command sweep evaluates a branch trace against every bimodal and Gshare
// geometry in a range of table sizes and history widths.
//
// Usage:
//
//	go run ./cmd/sweep [flags] <trace>
//
// Flags:
//
//	-min-m     Smallest index width M (default 4)
//	-max-m     Largest index width M (default 16)
//	-max-n     Largest history width N (default 8, never above M)
//	-csv       Output results in CSV format
//	-json      Output results in JSON format
//	-truncate  Stop at the first malformed record instead of failing
//
// Example:
//
//	go run ./cmd/sweep -max-m 12 -csv gobmk_trace.txt > gobmk.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/bpsim/sweep"
	"github.com/sarchlab/bpsim/trace"
)

func main() {
	defaults := sweep.DefaultConfig()

	minM := flag.Int("min-m", defaults.MinIndexBits, "Smallest index width M")
	maxM := flag.Int("max-m", defaults.MaxIndexBits, "Largest index width M")
	maxN := flag.Int("max-n", defaults.MaxHistoryBits, "Largest history width N")
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	truncate := flag.Bool("truncate", false, "Stop at the first malformed trace record")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: sweep [options] <trace>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	config := sweep.HarnessConfig{
		MinIndexBits:   *minM,
		MaxIndexBits:   *maxM,
		MaxHistoryBits: *maxN,
		Output:         os.Stdout,
	}
	harness := sweep.NewHarness(config)

	if _, err := harness.Configs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	policy := trace.Strict
	if *truncate {
		policy = trace.Truncate
	}

	src, err := trace.Open(flag.Arg(0), trace.WithPolicy(policy))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unable to open trace file: %v\n", err)
		os.Exit(1)
	}

	results, err := harness.Run(src)
	_ = src.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trace %s: %v\n", src.Path(), err)
		os.Exit(1)
	}

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results, src.Path()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}
}
