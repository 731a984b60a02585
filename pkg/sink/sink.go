// Package sink provides the serialized simulation log shared by every scheduler goroutine
package sink

import (
	"io"
	"sync"
)

// Listener receives every event written to a Sink. Listeners run while the
// sink lock is held and must not block or write back to the sink.
type Listener func(Event)

// Sink serializes simulation log writes. It guarantees mutual exclusion
// between writers and nothing more: records from different goroutines
// interleave in lock acquisition order.
type Sink struct {
	mu        sync.Mutex
	w         io.Writer
	listeners []Listener
	err       error
}

// New creates a Sink writing to w
func New(w io.Writer) *Sink {
	if w == nil {
		w = io.Discard
	}
	return &Sink{w: w}
}

// Subscribe adds a listener. Call before the sink is shared.
func (s *Sink) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Write renders events as one exclusive section, so records of a batch are
// never split by another writer. After the first write error the sink keeps
// notifying listeners but stops writing to the underlying writer; the error is
// available from Err.
func (s *Sink) Write(events ...Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		if s.err == nil {
			if _, err := ev.WriteTo(s.w); err != nil {
				s.err = err
			}
		}
		for _, l := range s.listeners {
			l(ev)
		}
	}
	return s.err
}

// Err returns the first write error, if any
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Flush flushes the underlying writer when it supports it
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil && s.err == nil {
			s.err = err
		}
	}
	return s.err
}
