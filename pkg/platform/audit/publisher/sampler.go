package publisher

import (
	"math/rand/v2"
	"sync"

	audit "txguard/pkg/platform/audit"
)

// Sampler thins operations-category events. Security events are always kept.
type Sampler struct {
	mu           sync.RWMutex
	defaultRate  float64
	rateByAction map[string]float64
	random       func() float64
}

// NewSampler creates a sampler with the given default rate, clamped to [0, 1].
func NewSampler(defaultRate float64) *Sampler {
	return &Sampler{
		defaultRate:  clampRate(defaultRate),
		rateByAction: make(map[string]float64),
		random:       rand.Float64,
	}
}

// Keep reports whether the event should be delivered.
func (s *Sampler) Keep(event audit.Event) bool {
	if event.Category == audit.CategorySecurity {
		return true
	}
	rate := s.rateFor(event.Action)
	if rate >= 1 {
		return true
	}
	if rate <= 0 {
		return false
	}
	return s.random() < rate
}

// SetRate overrides the rate for one action.
func (s *Sampler) SetRate(action string, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateByAction[action] = clampRate(rate)
}

func (s *Sampler) SetDefaultRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultRate = clampRate(rate)
}

func (s *Sampler) rateFor(action string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rate, ok := s.rateByAction[action]; ok {
		return rate
	}
	return s.defaultRate
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}
