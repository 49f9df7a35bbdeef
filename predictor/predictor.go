package predictor

import (
	"github.com/sarchlab/bpsim/trace"
)

// Stats holds statistics for a predictor.
type Stats struct {
	// Predictions is the number of branches classified.
	Predictions uint64
	// Correct is the number of hits.
	Correct uint64
	// Mispredictions is the number of misses.
	Mispredictions uint64
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Stats) Accuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Predictions) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s Stats) MispredictionRate() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(s.Predictions) * 100
}

// Lookup describes the table entry selected for a branch.
type Lookup struct {
	// Index is the table index.
	Index uint32
	// Counter is the counter value at Index before any update.
	Counter Counter
	// Taken is the predicted direction.
	Taken bool
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithHistorySeed preloads the global history register.
func WithHistorySeed(v uint64) Option {
	return func(p *Predictor) {
		p.seed = v
	}
}

// Predictor owns the counter table, the global history register, and the
// statistics of a single run.
type Predictor struct {
	config  Config
	indexer Indexer
	table   *Table
	history History
	seed    uint64

	stats Stats
}

// New creates a predictor. The config is validated before the table is
// allocated.
func New(config Config, opts ...Option) (*Predictor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Predictor{
		config:  config,
		indexer: NewIndexer(config),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.table = NewTable(uint(config.IndexBits))
	p.history = NewHistory(uint(config.HistoryBits)).Seeded(p.seed)

	return p, nil
}

// Config returns the predictor configuration.
func (p *Predictor) Config() Config {
	return p.config
}

// Scheme returns the indexing scheme name.
func (p *Predictor) Scheme() string {
	return p.indexer.Name()
}

// Table returns the counter table.
func (p *Predictor) Table() *Table {
	return p.table
}

// History returns the current global history register.
func (p *Predictor) History() History {
	return p.history
}

// Stats returns the predictor statistics.
func (p *Predictor) Stats() Stats {
	return p.stats
}

// Lookup returns the prediction for the raw branch address addr without
// changing any state.
func (p *Predictor) Lookup(addr uint64) Lookup {
	pc := NormalizeAddress(addr)
	idx := p.indexer.Index(pc, p.history.Value())
	c := p.table.At(idx)

	return Lookup{
		Index:   idx,
		Counter: c,
		Taken:   c.PredictTaken(),
	}
}

// Update resolves one branch: it classifies the prediction against o,
// trains the counter, and for Gshare shifts o into the history register.
func (p *Predictor) Update(addr uint64, o trace.Outcome) (Lookup, Result) {
	l := p.Lookup(addr)

	result := Classify(o, l.Counter)
	if result == Miss {
		p.stats.Mispredictions++
	} else {
		p.stats.Correct++
	}

	p.table.Update(l.Index, o)

	if p.indexer.UsesHistory() {
		p.history.Push(o)
	}

	p.stats.Predictions++

	return l, result
}

// Reset restores the counters, the history register, and the statistics to
// their initial state.
func (p *Predictor) Reset() {
	p.table.Reset()
	p.history = NewHistory(uint(p.config.HistoryBits)).Seeded(p.seed)
	p.stats = Stats{}
}
