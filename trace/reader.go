package trace

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedRecord is returned when a record cannot be parsed.
	ErrMalformedRecord = errors.New("malformed trace record")
	// ErrSourceUnavailable is returned when a trace cannot be opened.
	ErrSourceUnavailable = errors.New("trace source unavailable")
)

// Source yields trace events in order. Next returns io.EOF once the trace
// is exhausted.
type Source interface {
	Next() (Event, error)
}

// MalformedPolicy selects what a Reader does with a record it cannot parse.
type MalformedPolicy int

const (
	// Strict reports a malformed record as an error.
	Strict MalformedPolicy = iota
	// Truncate ends the stream at the first malformed record.
	Truncate
)

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithPolicy sets the malformed record policy.
func WithPolicy(p MalformedPolicy) ReaderOption {
	return func(r *Reader) {
		r.policy = p
	}
}

// Reader parses the text trace format from an io.Reader.
type Reader struct {
	scanner *bufio.Scanner
	policy  MalformedPolicy
	records uint64
	done    bool
}

// NewReader creates a Reader over r. The default policy is Strict.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	reader := &Reader{
		scanner: scanner,
		policy:  Strict,
	}

	for _, opt := range opts {
		opt(reader)
	}

	return reader
}

// Records returns the number of records read so far.
func (r *Reader) Records() uint64 {
	return r.records
}

// Next returns the next event in the trace.
func (r *Reader) Next() (Event, error) {
	if r.done {
		return Event{}, io.EOF
	}

	addrTok, ok, err := r.token()
	if err != nil {
		return Event{}, err
	}
	if !ok {
		r.done = true
		return Event{}, io.EOF
	}

	tagTok, ok, err := r.token()
	if err != nil {
		return Event{}, err
	}
	if !ok {
		return r.malformed(errors.Wrapf(ErrMalformedRecord,
			"record %d: missing outcome after address %q", r.records+1, addrTok))
	}

	addr, perr := parseAddr(addrTok)
	if perr != nil {
		return r.malformed(errors.Wrapf(perr, "record %d", r.records+1))
	}

	outcome, perr := ParseOutcome(tagTok)
	if perr != nil {
		return r.malformed(errors.Wrapf(perr, "record %d", r.records+1))
	}

	r.records++
	return Event{Addr: addr, Outcome: outcome}, nil
}

func (r *Reader) token() (string, bool, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", false, errors.Wrap(err, "failed to read trace")
	}
	return "", false, nil
}

func (r *Reader) malformed(err error) (Event, error) {
	r.done = true
	if r.policy == Truncate {
		return Event{}, io.EOF
	}
	return Event{}, err
}

func parseAddr(tok string) (uint64, error) {
	digits := tok
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}

	addr, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedRecord, "bad address %q", tok)
	}
	return addr, nil
}

// File is a Reader backed by an open trace file.
type File struct {
	*Reader

	path string
	file *os.File
}

// Open opens the trace file at path.
func Open(path string, opts ...ReaderOption) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "%s: %v", path, err)
	}

	return &File{
		Reader: NewReader(f, opts...),
		path:   path,
		file:   f,
	}, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Close releases the underlying file.
func (f *File) Close() error {
	return f.file.Close()
}
