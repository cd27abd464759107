// Package remote simulates the round trip to a CRM backend that the console does
// not actually have.
package remote

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

const (
	OpLeadUpdate        = "lead.update"
	OpOpportunityCreate = "opportunity.create"
	OpOpportunityUpdate = "opportunity.update"
	OpOpportunityDelete = "opportunity.delete"
)

// ErrNetwork is the injected failure.
var ErrNetwork = errors.New("network error")

// Profile is the latency and failure probability of one operation.
type Profile struct {
	Delay       time.Duration
	FailureRate float64
}

func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		OpLeadUpdate:        {Delay: 500 * time.Millisecond, FailureRate: 0.1},
		OpOpportunityCreate: {Delay: 500 * time.Millisecond},
		OpOpportunityUpdate: {Delay: 500 * time.Millisecond},
		OpOpportunityDelete: {Delay: 300 * time.Millisecond},
	}
}

type Simulator struct {
	mu       sync.Mutex
	profiles map[string]Profile
	rng      *rand.Rand
}

func NewSimulator(profiles map[string]Profile, seed int64) *Simulator {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &Simulator{
		profiles: profiles,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// RoundTrip waits for the operation's delay and then fails with ErrNetwork at the
// configured rate. A cancelled context ends the wait early with ctx.Err().
// Unknown operations succeed immediately.
func (s *Simulator) RoundTrip(ctx context.Context, op string) error {
	s.mu.Lock()
	p, ok := s.profiles[op]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	if p.Delay > 0 {
		t := time.NewTimer(p.Delay)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	if p.FailureRate <= 0 {
		return nil
	}

	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()

	if roll < p.FailureRate {
		return ErrNetwork
	}
	return nil
}

// SetProfile replaces the profile of a single operation.
func (s *Simulator) SetProfile(op string, p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[op] = p
}

// Instant is a round trip that always succeeds immediately.
type Instant struct{}

func (Instant) RoundTrip(ctx context.Context, _ string) error {
	return ctx.Err()
}
