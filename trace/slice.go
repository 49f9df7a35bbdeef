package trace

import (
	"fmt"
	"io"
)

// SliceSource replays a fixed list of events.
type SliceSource struct {
	events []Event
	pos    int
}

// NewSliceSource creates a source over events.
func NewSliceSource(events []Event) *SliceSource {
	return &SliceSource{events: events}
}

// Next returns the next event, or io.EOF after the last one.
func (s *SliceSource) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	e := s.events[s.pos]
	s.pos++
	return e, nil
}

// ReadAll drains src into a slice.
func ReadAll(src Source) ([]Event, error) {
	var events []Event
	for {
		e, err := src.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
}

// Write emits events in the text trace format, one record per line.
func Write(w io.Writer, events []Event) error {
	for _, e := range events {
		if _, err := fmt.Fprintf(w, "%x %s\n", e.Addr, e.Outcome); err != nil {
			return err
		}
	}
	return nil
}
