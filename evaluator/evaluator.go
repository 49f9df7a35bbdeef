// Package evaluator runs a branch predictor over a trace and reports its
// misprediction rate.
package evaluator

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// HookPosRecord marks the point after a trace record has been resolved.
var HookPosRecord = &sim.HookPos{Name: "Record"}

// RecordDetail describes one resolved trace record. It is passed as the
// hook item at HookPosRecord.
type RecordDetail struct {
	// Seq is the 1-based record number.
	Seq uint64
	// Event is the trace record.
	Event trace.Event
	// Index is the table index the record mapped to.
	Index uint32
	// Counter is the counter value used for the prediction.
	Counter predictor.Counter
	// Result is the hit/miss classification.
	Result predictor.Result
	// History is the global history after the update.
	History uint64
}

// Result is the outcome of one evaluation run.
type Result struct {
	Config  predictor.Config
	Records uint64
	Misses  uint64
}

// Rate returns the misprediction rate as a percentage. An empty run has a
// rate of 0.
func (r Result) Rate() float64 {
	if r.Records == 0 {
		return 0
	}
	return float64(r.Misses) / float64(r.Records) * 100.0
}

// WriteReport prints the configuration and the misprediction rate.
func (r Result) WriteReport(w io.Writer) error {
	_, err := fmt.Fprintf(w, "M: %d, N: %d\nMisprediction Rate = %.2f%%\n",
		r.Config.IndexBits, r.Config.HistoryBits, r.Rate())
	return err
}

// Evaluator drives a predictor over a trace source.
type Evaluator struct {
	*sim.HookableBase

	predictor *predictor.Predictor
	records   uint64
	misses    uint64
}

// New creates an evaluator for the given configuration. An invalid
// configuration is rejected before any predictor state is allocated.
func New(config predictor.Config, opts ...predictor.Option) (*Evaluator, error) {
	p, err := predictor.New(config, opts...)
	if err != nil {
		return nil, err
	}

	return &Evaluator{
		HookableBase: sim.NewHookableBase(),
		predictor:    p,
	}, nil
}

// Predictor returns the predictor being evaluated.
func (e *Evaluator) Predictor() *predictor.Predictor {
	return e.predictor
}

// Step resolves a single trace event.
func (e *Evaluator) Step(ev trace.Event) RecordDetail {
	l, result := e.predictor.Update(ev.Addr, ev.Outcome)

	if result == predictor.Miss {
		e.misses++
	}
	e.records++

	detail := RecordDetail{
		Seq:     e.records,
		Event:   ev,
		Index:   l.Index,
		Counter: l.Counter,
		Result:  result,
		History: e.predictor.History().Value(),
	}

	if e.NumHooks() > 0 {
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosRecord,
			Item:   detail,
		})
	}

	return detail
}

// Result returns the statistics accumulated so far.
func (e *Evaluator) Result() Result {
	return Result{
		Config:  e.predictor.Config(),
		Records: e.records,
		Misses:  e.misses,
	}
}

// Run consumes src to the end and returns the accumulated statistics.
// If the source fails, no result is returned.
func (e *Evaluator) Run(src trace.Source) (Result, error) {
	for {
		ev, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, errors.Wrapf(err, "after %d records", e.records)
		}

		e.Step(ev)
	}

	return e.Result(), nil
}

// Evaluate is a convenience wrapper that builds an Evaluator and runs it
// over src.
func Evaluate(config predictor.Config, src trace.Source) (Result, error) {
	e, err := New(config)
	if err != nil {
		return Result{}, err
	}
	return e.Run(src)
}
