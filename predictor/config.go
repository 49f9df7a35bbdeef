package predictor

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// MaxIndexBits bounds the table size at 2^MaxIndexBits counters.
const MaxIndexBits = 28

// ErrInvalidConfig is returned for an (M, N) pair that cannot be simulated.
var ErrInvalidConfig = errors.New("invalid predictor configuration")

// Config holds the predictor geometry.
type Config struct {
	// IndexBits (M) is the number of address bits used to index the table.
	// The table holds 2^M counters.
	IndexBits int `json:"index_bits"`

	// HistoryBits (N) is the global history width. Zero selects the bimodal
	// scheme, anything else selects Gshare. Must not exceed IndexBits.
	HistoryBits int `json:"history_bits"`
}

// DefaultConfig returns a 1024-entry bimodal predictor.
func DefaultConfig() Config {
	return Config{
		IndexBits:   10,
		HistoryBits: 0,
	}
}

// Validate checks that the configuration can be simulated.
func (c Config) Validate() error {
	if c.IndexBits < 0 {
		return errors.Wrapf(ErrInvalidConfig, "M must be >= 0, got %d", c.IndexBits)
	}
	if c.IndexBits > MaxIndexBits {
		return errors.Wrapf(ErrInvalidConfig,
			"M must be <= %d, got %d", MaxIndexBits, c.IndexBits)
	}
	if c.HistoryBits < 0 {
		return errors.Wrapf(ErrInvalidConfig, "N must be >= 0, got %d", c.HistoryBits)
	}
	if c.HistoryBits > c.IndexBits {
		return errors.Wrapf(ErrInvalidConfig,
			"N cannot be greater than M (M=%d, N=%d)", c.IndexBits, c.HistoryBits)
	}
	return nil
}

// Scheme returns the name of the indexing scheme the config selects.
func (c Config) Scheme() string {
	if c.HistoryBits == 0 {
		return "bimodal"
	}
	return "gshare"
}

// TableSize returns the number of counters, 2^M.
func (c Config) TableSize() int {
	return 1 << uint(c.IndexBits)
}

// LoadConfig loads and validates a Config from a JSON file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read predictor config file")
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse predictor config")
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to serialize predictor config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write predictor config file")
	}

	return nil
}
