// Package trace reads and writes branch outcome traces.
//
// A trace is a whitespace separated stream of records, each a hexadecimal
// branch address followed by a one character outcome tag:
//
//	0x40a8b2 t
//	40a8c0 n
package trace

import (
	"github.com/pkg/errors"
)

// Outcome is the resolved direction of a branch.
type Outcome uint8

const (
	// NotTaken means the branch fell through.
	NotTaken Outcome = iota
	// Taken means the branch jumped to its target.
	Taken
)

// String returns the trace tag for the outcome.
func (o Outcome) String() string {
	if o == Taken {
		return "t"
	}
	return "n"
}

// ParseOutcome converts a trace tag ("t" or "n") into an Outcome.
func ParseOutcome(tag string) (Outcome, error) {
	switch tag {
	case "t":
		return Taken, nil
	case "n":
		return NotTaken, nil
	}
	return NotTaken, errors.Wrapf(ErrMalformedRecord, "unknown outcome tag %q", tag)
}

// Event is a single branch observed in a trace.
type Event struct {
	// Addr is the raw branch address as it appears in the trace.
	Addr uint64
	// Outcome is the observed direction.
	Outcome Outcome
}
