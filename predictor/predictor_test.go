package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

var _ = Describe("Predictor", func() {
	var bp *predictor.Predictor

	BeforeEach(func() {
		var err error
		bp, err = predictor.New(predictor.Config{IndexBits: 4})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Prediction", func() {
		It("should initially predict taken (biased)", func() {
			Expect(bp.Lookup(0x1000).Taken).To(BeTrue())
		})

		It("should not change state on lookup", func() {
			bp.Lookup(0x1000)
			bp.Lookup(0x1000)
			Expect(bp.Stats().Predictions).To(BeZero())
			Expect(bp.Table().At(0)).To(Equal(predictor.WeaklyTaken))
		})

		It("should learn not-taken pattern", func() {
			pc := uint64(0x1000)
			for i := 0; i < 10; i++ {
				bp.Update(pc, trace.NotTaken)
			}
			Expect(bp.Lookup(pc).Taken).To(BeFalse())
		})
	})

	Describe("2-bit saturating counter", func() {
		It("should require 2 mispredictions to change direction", func() {
			pc := uint64(0x1000)

			bp.Update(pc, trace.Taken)
			bp.Update(pc, trace.Taken)
			bp.Update(pc, trace.Taken)

			bp.Update(pc, trace.NotTaken)
			Expect(bp.Lookup(pc).Taken).To(BeTrue())

			bp.Update(pc, trace.NotTaken)
			Expect(bp.Lookup(pc).Taken).To(BeFalse())
		})

		It("should classify against the counter before the update", func() {
			l, result := bp.Update(0x1000, trace.NotTaken)
			Expect(l.Counter).To(Equal(predictor.WeaklyTaken))
			Expect(result).To(Equal(predictor.Miss))
			Expect(bp.Lookup(0x1000).Counter).To(Equal(predictor.WeaklyNotTaken))
		})
	})

	Describe("Statistics", func() {
		It("should track correct predictions and mispredictions", func() {
			bp.Update(0x1000, trace.Taken)
			bp.Update(0x2004, trace.NotTaken)

			stats := bp.Stats()
			Expect(stats.Predictions).To(Equal(uint64(2)))
			Expect(stats.Correct).To(Equal(uint64(1)))
			Expect(stats.Mispredictions).To(Equal(uint64(1)))
			Expect(stats.MispredictionRate()).To(BeNumerically("~", 50.0, 0.001))
			Expect(stats.Accuracy()).To(BeNumerically("~", 50.0, 0.001))
		})

		It("should report zero rates with no predictions", func() {
			Expect(bp.Stats().MispredictionRate()).To(BeZero())
			Expect(bp.Stats().Accuracy()).To(BeZero())
		})
	})

	Describe("Reset", func() {
		It("should clear counters, history and statistics", func() {
			g, err := predictor.New(predictor.Config{IndexBits: 4, HistoryBits: 2})
			Expect(err).NotTo(HaveOccurred())

			g.Update(0x1000, trace.Taken)
			g.Update(0x1000, trace.NotTaken)
			g.Reset()

			Expect(g.Stats()).To(Equal(predictor.Stats{}))
			Expect(g.History().Value()).To(BeZero())
			for i := 0; i < g.Table().Len(); i++ {
				Expect(g.Table().At(uint32(i))).To(Equal(predictor.WeaklyTaken))
			}
		})
	})

	Describe("Bimodal", func() {
		It("should not track history", func() {
			bp.Update(0x1000, trace.Taken)
			Expect(bp.Scheme()).To(Equal("bimodal"))
			Expect(bp.History().Value()).To(BeZero())
		})

		It("should be independent of the history seed", func() {
			other, err := predictor.New(
				predictor.Config{IndexBits: 4},
				predictor.WithHistorySeed(0xabcd),
			)
			Expect(err).NotTo(HaveOccurred())

			addrs := []uint64{0x4, 0x8, 0x44, 0x1000, 0x4, 0x8}
			for i, a := range addrs {
				o := trace.Outcome(i % 2)
				l1, r1 := bp.Update(a, o)
				l2, r2 := other.Update(a, o)
				Expect(l1.Index).To(Equal(l2.Index))
				Expect(r1).To(Equal(r2))
			}
			Expect(bp.Stats()).To(Equal(other.Stats()))
		})
	})

	Describe("Gshare", func() {
		It("should reproduce the worked scenario", func() {
			g, err := predictor.New(predictor.Config{IndexBits: 2, HistoryBits: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Scheme()).To(Equal("gshare"))
			Expect(g.Table().Len()).To(Equal(4))

			l, result := g.Update(0x4, trace.Taken)
			Expect(l.Index).To(Equal(uint32(1)))
			Expect(result).To(Equal(predictor.Hit))
			Expect(g.Table().At(1)).To(Equal(predictor.StronglyTaken))
			Expect(g.History().Value()).To(Equal(uint64(1)))

			l, result = g.Update(0x8, trace.NotTaken)
			Expect(l.Index).To(Equal(uint32(0)))
			Expect(result).To(Equal(predictor.Miss))
			Expect(g.Table().At(0)).To(Equal(predictor.WeaklyNotTaken))
			Expect(g.History().Value()).To(BeZero())

			Expect(g.Stats().MispredictionRate()).To(BeNumerically("~", 50.0, 0.001))
		})

		It("should use the seeded history for the first lookup", func() {
			g, err := predictor.New(
				predictor.Config{IndexBits: 2, HistoryBits: 1},
				predictor.WithHistorySeed(1),
			)
			Expect(err).NotTo(HaveOccurred())
			// pc=1: fold=0 xor 1 -> index 0b11
			Expect(g.Lookup(0x4).Index).To(Equal(uint32(3)))
		})
	})

	Describe("Configuration", func() {
		It("should reject N greater than M without allocating", func() {
			g, err := predictor.New(predictor.Config{IndexBits: 2, HistoryBits: 3})
			Expect(g).To(BeNil())
			Expect(errors.Cause(err)).To(Equal(predictor.ErrInvalidConfig))
		})
	})
})
