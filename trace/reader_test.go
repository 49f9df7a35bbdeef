package trace_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/trace"
)

var _ = Describe("Outcome", func() {
	It("should parse t and n tags", func() {
		o, err := trace.ParseOutcome("t")
		Expect(err).NotTo(HaveOccurred())
		Expect(o).To(Equal(trace.Taken))

		o, err = trace.ParseOutcome("n")
		Expect(err).NotTo(HaveOccurred())
		Expect(o).To(Equal(trace.NotTaken))
	})

	It("should reject other tags", func() {
		_, err := trace.ParseOutcome("T")
		Expect(errors.Cause(err)).To(Equal(trace.ErrMalformedRecord))
	})

	It("should print the trace tag", func() {
		Expect(trace.Taken.String()).To(Equal("t"))
		Expect(trace.NotTaken.String()).To(Equal("n"))
	})
})

var _ = Describe("Reader", func() {
	It("should read address/outcome pairs in order", func() {
		r := trace.NewReader(strings.NewReader("4 t\n0x8 n\n3fffc t\n"))

		events, err := trace.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(Equal([]trace.Event{
			{Addr: 0x4, Outcome: trace.Taken},
			{Addr: 0x8, Outcome: trace.NotTaken},
			{Addr: 0x3fffc, Outcome: trace.Taken},
		}))
		Expect(r.Records()).To(Equal(uint64(3)))
	})

	It("should accept arbitrary whitespace between tokens", func() {
		r := trace.NewReader(strings.NewReader("  10\tt\n\n\n20   n 30\nt"))

		events, err := trace.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(3))
		Expect(events[2]).To(Equal(trace.Event{Addr: 0x30, Outcome: trace.Taken}))
	})

	It("should return io.EOF on an empty trace", func() {
		r := trace.NewReader(strings.NewReader(""))
		_, err := r.Next()
		Expect(err).To(Equal(io.EOF))
	})

	It("should keep returning io.EOF after the end", func() {
		r := trace.NewReader(strings.NewReader("4 t"))
		_, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		_, err = r.Next()
		Expect(err).To(Equal(io.EOF))
		_, err = r.Next()
		Expect(err).To(Equal(io.EOF))
	})

	Context("strict policy", func() {
		It("should report a bad address with its record number", func() {
			r := trace.NewReader(strings.NewReader("4 t\nzz n\n"))

			_, err := r.Next()
			Expect(err).NotTo(HaveOccurred())

			_, err = r.Next()
			Expect(errors.Cause(err)).To(Equal(trace.ErrMalformedRecord))
			Expect(err.Error()).To(ContainSubstring("record 2"))
		})

		It("should report a bad outcome tag", func() {
			r := trace.NewReader(strings.NewReader("4 x\n"))
			_, err := r.Next()
			Expect(errors.Cause(err)).To(Equal(trace.ErrMalformedRecord))
		})

		It("should report a dangling address", func() {
			r := trace.NewReader(strings.NewReader("4 t 8"))
			_, err := trace.ReadAll(r)
			Expect(errors.Cause(err)).To(Equal(trace.ErrMalformedRecord))
		})
	})

	Context("truncate policy", func() {
		It("should stop at the first malformed record", func() {
			r := trace.NewReader(
				strings.NewReader("4 t\n8 n\nbogus t\nc t\n"),
				trace.WithPolicy(trace.Truncate),
			)

			events, err := trace.ReadAll(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(2))
			Expect(r.Records()).To(Equal(uint64(2)))
		})
	})
})

var _ = Describe("File", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should read a trace from disk", func() {
		path := filepath.Join(dir, "branches.txt")
		Expect(os.WriteFile(path, []byte("4 t\n8 n\n"), 0644)).To(Succeed())

		f, err := trace.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = f.Close() }()

		Expect(f.Path()).To(Equal(path))
		events, err := trace.ReadAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(2))
	})

	It("should fail on a missing file", func() {
		_, err := trace.Open(filepath.Join(dir, "missing.txt"))
		Expect(errors.Cause(err)).To(Equal(trace.ErrSourceUnavailable))
	})
})

var _ = Describe("Write", func() {
	It("should produce text the reader accepts", func() {
		events := []trace.Event{
			{Addr: 0xdeadbeef, Outcome: trace.Taken},
			{Addr: 0x0, Outcome: trace.NotTaken},
		}

		var buf bytes.Buffer
		Expect(trace.Write(&buf, events)).To(Succeed())
		Expect(buf.String()).To(Equal("deadbeef t\n0 n\n"))

		back, err := trace.ReadAll(trace.NewReader(&buf))
		Expect(err).NotTo(HaveOccurred())
		Expect(back).To(Equal(events))
	})
})

var _ = Describe("SliceSource", func() {
	It("should replay events once", func() {
		src := trace.NewSliceSource([]trace.Event{{Addr: 1, Outcome: trace.Taken}})

		e, err := src.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Addr).To(Equal(uint64(1)))

		_, err = src.Next()
		Expect(err).To(Equal(io.EOF))
	})
})
