package predictor

import "github.com/sarchlab/bpsim/trace"

// Table is a pattern history table of 2^M saturating counters.
type Table struct {
	cells []Counter
}

// NewTable creates a table indexed by indexBits bits with every counter
// set to weakly taken.
func NewTable(indexBits uint) *Table {
	t := &Table{cells: make([]Counter, 1<<indexBits)}
	t.Reset()
	return t
}

// Len returns the number of counters.
func (t *Table) Len() int {
	return len(t.cells)
}

// At returns the counter at index i.
func (t *Table) At(i uint32) Counter {
	return t.cells[i]
}

// Update moves the counter at index i toward o.
func (t *Table) Update(i uint32, o trace.Outcome) {
	t.cells[i] = t.cells[i].Next(o)
}

// Reset sets every counter back to weakly taken.
func (t *Table) Reset() {
	for i := range t.cells {
		t.cells[i] = WeaklyTaken
	}
}
