// Package sweep evaluates one branch trace against a range of predictor
// geometries.
package sweep

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/evaluator"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// Version is reported in JSON output.
const Version = "0.1.0"

// Result holds the outcome of one configuration in a sweep.
type Result struct {
	Scheme      string  `json:"scheme"`
	IndexBits   int     `json:"m"`
	HistoryBits int     `json:"n"`
	TableSize   int     `json:"table_size"`
	Records     uint64  `json:"records"`
	Misses      uint64  `json:"misses"`
	Rate        float64 `json:"misprediction_rate"`
}

// HarnessConfig configures the sweep harness.
type HarnessConfig struct {
	// MinIndexBits and MaxIndexBits bound M, inclusive.
	MinIndexBits int
	MaxIndexBits int

	// MaxHistoryBits bounds N. N never exceeds M.
	MaxHistoryBits int

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a sweep over M in [4, 16] and N in [0, 8].
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		MinIndexBits:   4,
		MaxIndexBits:   16,
		MaxHistoryBits: 8,
		Output:         os.Stdout,
	}
}

// Harness runs a sweep and reports results.
type Harness struct {
	config HarnessConfig
}

// NewHarness creates a new sweep harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{config: config}
}

// Configs lists the predictor configurations covered by the sweep, ordered
// by M then N.
func (h *Harness) Configs() ([]predictor.Config, error) {
	if h.config.MinIndexBits > h.config.MaxIndexBits {
		return nil, errors.Wrapf(predictor.ErrInvalidConfig,
			"empty M range [%d, %d]", h.config.MinIndexBits, h.config.MaxIndexBits)
	}

	var configs []predictor.Config
	for m := h.config.MinIndexBits; m <= h.config.MaxIndexBits; m++ {
		for n := 0; n <= h.config.MaxHistoryBits && n <= m; n++ {
			c := predictor.Config{IndexBits: m, HistoryBits: n}
			if err := c.Validate(); err != nil {
				return nil, err
			}
			configs = append(configs, c)
		}
	}

	return configs, nil
}

// Run reads src once and feeds every record to one evaluator per
// configuration. Nothing is returned if the source fails.
func (h *Harness) Run(src trace.Source) ([]Result, error) {
	configs, err := h.Configs()
	if err != nil {
		return nil, err
	}

	evals := make([]*evaluator.Evaluator, len(configs))
	for i, c := range configs {
		evals[i], err = evaluator.New(c)
		if err != nil {
			return nil, err
		}
	}

	var records uint64
	for {
		ev, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "after %d records", records)
		}

		for _, e := range evals {
			e.Step(ev)
		}
		records++
	}

	results := make([]Result, len(evals))
	for i, e := range evals {
		r := e.Result()
		results[i] = Result{
			Scheme:      r.Config.Scheme(),
			IndexBits:   r.Config.IndexBits,
			HistoryBits: r.Config.HistoryBits,
			TableSize:   r.Config.TableSize(),
			Records:     r.Records,
			Misses:      r.Misses,
			Rate:        r.Rate(),
		}
	}

	return results, nil
}

// Best returns the result with the lowest misprediction rate. Ties go to
// the smaller table, then to the smaller history.
func Best(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Rate < best.Rate ||
			(r.Rate == best.Rate && r.TableSize < best.TableSize) ||
			(r.Rate == best.Rate && r.TableSize == best.TableSize &&
				r.HistoryBits < best.HistoryBits) {
			best = r
		}
	}

	return best, true
}

// PrintResults outputs results in a human-readable table.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Branch Predictor Sweep ===")
	_, _ = fmt.Fprintln(h.config.Output, "")
	_, _ = fmt.Fprintf(h.config.Output, "%-8s %3s %3s %10s %12s %12s %9s\n",
		"scheme", "M", "N", "entries", "records", "misses", "rate")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%-8s %3d %3d %10d %12d %12d %8.2f%%\n",
			r.Scheme, r.IndexBits, r.HistoryBits, r.TableSize, r.Records, r.Misses, r.Rate)
	}

	if best, ok := Best(results); ok {
		_, _ = fmt.Fprintln(h.config.Output, "")
		_, _ = fmt.Fprintf(h.config.Output, "Best: %s M=%d N=%d (%.2f%%)\n",
			best.Scheme, best.IndexBits, best.HistoryBits, best.Rate)
	}
}

// PrintCSV outputs results in CSV format.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "scheme,m,n,table_size,records,misses,misprediction_rate")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%.4f\n",
			r.Scheme,
			r.IndexBits,
			r.HistoryBits,
			r.TableSize,
			r.Records,
			r.Misses,
			r.Rate,
		)
	}
}

// Report is the JSON output format of a sweep.
type Report struct {
	Metadata ReportMetadata `json:"metadata"`
	Results  []Result       `json:"results"`
	Best     *Result        `json:"best,omitempty"`
}

// ReportMetadata contains information about the sweep.
type ReportMetadata struct {
	Timestamp      string `json:"timestamp"`
	Version        string `json:"version"`
	Trace          string `json:"trace,omitempty"`
	MinIndexBits   int    `json:"min_m"`
	MaxIndexBits   int    `json:"max_m"`
	MaxHistoryBits int    `json:"max_n"`
}

// PrintJSON outputs results in JSON format. traceName is recorded in the
// metadata and may be empty.
func (h *Harness) PrintJSON(results []Result, traceName string) error {
	report := Report{
		Metadata: ReportMetadata{
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
			Version:        Version,
			Trace:          traceName,
			MinIndexBits:   h.config.MinIndexBits,
			MaxIndexBits:   h.config.MaxIndexBits,
			MaxHistoryBits: h.config.MaxHistoryBits,
		},
		Results: results,
	}

	if best, ok := Best(results); ok {
		report.Best = &best
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
