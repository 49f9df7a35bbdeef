package predictor

import "github.com/sarchlab/bpsim/trace"

// History is an N-bit global branch history register.
//
// The newest outcome enters at bit N-1 and older outcomes shift toward
// bit 0.
type History struct {
	bits  uint
	value uint64
}

// NewHistory creates an empty register of the given width.
func NewHistory(bits uint) History {
	return History{bits: bits}
}

// Seeded returns a copy of h holding v, masked to the register width.
func (h History) Seeded(v uint64) History {
	h.value = v & h.mask()
	return h
}

// Bits returns the register width.
func (h History) Bits() uint {
	return h.bits
}

// Value returns the significant bits of the register.
func (h History) Value() uint64 {
	return h.value & h.mask()
}

// Push records an outcome.
func (h *History) Push(o trace.Outcome) {
	if h.bits == 0 {
		return
	}

	h.value >>= 1
	if o == trace.Taken {
		h.value |= 1 << (h.bits - 1)
	}
}

func (h History) mask() uint64 {
	return lowMask(h.bits)
}

func lowMask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}
