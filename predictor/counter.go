// Package predictor implements bimodal and Gshare branch predictors built
// from a table of 2-bit saturating counters.
package predictor

import "github.com/sarchlab/bpsim/trace"

// Counter is a 2-bit saturating counter. Values 2 and 3 predict taken,
// 0 and 1 predict not taken.
type Counter uint8

const (
	StronglyNotTaken Counter = 0
	WeaklyNotTaken   Counter = 1
	WeaklyTaken      Counter = 2
	StronglyTaken    Counter = 3
)

// PredictTaken reports whether the counter predicts the branch as taken.
func (c Counter) PredictTaken() bool {
	return c >= WeaklyTaken
}

// Predicted returns the direction the counter predicts.
func (c Counter) Predicted() trace.Outcome {
	if c.PredictTaken() {
		return trace.Taken
	}
	return trace.NotTaken
}

// Next returns the counter value after observing o.
func (c Counter) Next(o trace.Outcome) Counter {
	if o == trace.Taken {
		if c < StronglyTaken {
			return c + 1
		}
		return StronglyTaken
	}

	if c > StronglyNotTaken {
		return c - 1
	}
	return StronglyNotTaken
}

// Result is the classification of one prediction.
type Result uint8

const (
	Hit Result = iota
	Miss
)

func (r Result) String() string {
	if r == Hit {
		return "hit"
	}
	return "miss"
}

// Classify compares the direction predicted by c with the observed outcome.
// c must be the counter value before it is updated for this branch.
func Classify(o trace.Outcome, c Counter) Result {
	if c.Predicted() == o {
		return Hit
	}
	return Miss
}
