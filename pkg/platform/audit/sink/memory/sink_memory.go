package memory

import (
	"context"
	"sync"

	audit "txguard/pkg/platform/audit"
)

// Sink keeps events in memory. Tests and local runs only.
type Sink struct {
	mu     sync.RWMutex
	events []audit.Event
	err    error
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Write(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

// FailWith makes subsequent writes return err. Pass nil to recover.
func (s *Sink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Events returns a snapshot of everything written so far.
func (s *Sink) Events() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...)
}

// ByAction returns the events with the given action.
func (s *Sink) ByAction(action audit.AuditEvent) []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.Action == string(action) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
