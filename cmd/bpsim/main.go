// Package main provides the bpsim command line tool.
//
// Usage:
//
//	bpsim [options] <M> <N> <trace>
//	bpsim [options] -config predictor.json <trace>
//
// M is the number of address bits indexing the 2^M-entry counter table and
// N is the global history width. N=0 selects the bimodal predictor, N>=1
// selects Gshare.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/evaluator"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

var (
	configPath = flag.String("config", "", "Path to predictor configuration JSON file (replaces <M> <N>)")
	truncate   = flag.Bool("truncate", false, "Stop at the first malformed trace record instead of failing")
	verbose    = flag.Bool("v", false, "Print every resolved record to stderr")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: bpsim [options] <M> <N> <trace>\n")
	fmt.Fprintf(os.Stderr, "       bpsim [options] -config <file.json> <trace>\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	config, tracePath, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		usage()
		os.Exit(1)
	}

	os.Exit(run(config, tracePath, os.Stdout, os.Stderr))
}

// parseArgs resolves the predictor config and trace path from the
// positional arguments.
func parseArgs(args []string) (predictor.Config, string, error) {
	if *configPath != "" {
		if len(args) != 1 {
			return predictor.Config{}, "", errors.New("expected <trace>")
		}
		config, err := predictor.LoadConfig(*configPath)
		return config, args[0], err
	}

	if len(args) != 3 {
		return predictor.Config{}, "", errors.New("expected <M> <N> <trace>")
	}

	m, err := strconv.Atoi(args[0])
	if err != nil {
		return predictor.Config{}, "", errors.Errorf("invalid M %q", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return predictor.Config{}, "", errors.Errorf("invalid N %q", args[1])
	}

	return predictor.Config{IndexBits: m, HistoryBits: n}, args[2], nil
}

func run(config predictor.Config, tracePath string, stdout, stderr io.Writer) int {
	// The config is validated before the table is allocated or the trace
	// is opened.
	eval, err := evaluator.New(config)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *verbose {
		eval.AcceptHook(evaluator.NewTraceLogger(stderr))
	}

	policy := trace.Strict
	if *truncate {
		policy = trace.Truncate
	}

	src, err := trace.Open(tracePath, trace.WithPolicy(policy))
	if err != nil {
		fmt.Fprintf(stderr, "Error: unable to open trace file: %v\n", err)
		return 1
	}
	defer func() { _ = src.Close() }()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Error creating CPU profile: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Error starting CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	result, err := eval.Run(src)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading trace %s: %v\n", src.Path(), err)
		return 1
	}

	if err := result.WriteReport(stdout); err != nil {
		fmt.Fprintf(stderr, "Error writing report: %v\n", err)
		return 1
	}

	return 0
}
