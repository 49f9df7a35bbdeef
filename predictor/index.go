package predictor

// NormalizeAddress drops the two alignment bits of a raw branch address.
func NormalizeAddress(addr uint64) uint64 {
	return addr >> 2
}

// Indexer maps a normalized branch address and the global history to a
// table index.
type Indexer interface {
	Name() string
	UsesHistory() bool
	Index(pc uint64, history uint64) uint32
}

// Bimodal indexes the table with the low M bits of the address.
type Bimodal struct {
	IndexBits uint
}

// Name returns "bimodal".
func (b Bimodal) Name() string { return "bimodal" }

// UsesHistory returns false.
func (b Bimodal) UsesHistory() bool { return false }

// Index returns the low IndexBits bits of pc. history is ignored.
func (b Bimodal) Index(pc uint64, _ uint64) uint32 {
	return uint32(pc & lowMask(b.IndexBits))
}

// Gshare XORs the global history into the upper HistoryBits bits of the
// M-bit address index and keeps the low M-N address bits as they are.
type Gshare struct {
	IndexBits   uint
	HistoryBits uint
}

// Name returns "gshare".
func (g Gshare) Name() string { return "gshare" }

// UsesHistory returns true.
func (g Gshare) UsesHistory() bool { return true }

// Index folds history into the upper bits of the address index.
func (g Gshare) Index(pc uint64, history uint64) uint32 {
	pc &= lowMask(g.IndexBits)
	shift := g.IndexBits - g.HistoryBits

	excess := pc & lowMask(shift)
	fold := pc >> shift
	mixed := fold ^ (history & lowMask(g.HistoryBits))

	return uint32((mixed << shift) | excess)
}

// NewIndexer returns Bimodal when the config has no history bits and
// Gshare otherwise. The config must be valid.
func NewIndexer(config Config) Indexer {
	m := uint(config.IndexBits)
	n := uint(config.HistoryBits)

	if n == 0 {
		return Bimodal{IndexBits: m}
	}
	return Gshare{IndexBits: m, HistoryBits: n}
}
