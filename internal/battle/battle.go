// Package battle holds the two-slot battle state and its scoring.
//
// A fighter's score is its base-stat total multiplied by how effective its
// primary type is against every type of the opponent. Slot 1 wins ties.
package battle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/pokefinder/internal/engine"
	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
)

// SlotID names one of the two combatant slots.
type SlotID int

// Combatant slots.
const (
	Slot1 SlotID = 1
	Slot2 SlotID = 2
)

var (
	// ErrSuperseded is returned when a newer selection for the same slot
	// started while this one was in flight. The stale result is discarded.
	ErrSuperseded = errors.New("selection superseded by a newer request")

	// ErrNotReady is returned by Fight when a slot is empty.
	ErrNotReady = errors.New("both slots need a pokemon")

	// ErrInvalidSlot is returned for a SlotID other than 1 or 2.
	ErrInvalidSlot = errors.New("slot must be 1 or 2")
)

// PokemonLookup resolves a combatant.
type PokemonLookup func(ctx context.Context, query string) (engine.Result[*pokeapi.Pokemon], error)

// TypeLookup resolves a type's damage relations.
type TypeLookup func(ctx context.Context, name string) (engine.Result[*pokeapi.TypeDetail], error)

// Slot is one combatant. Err is set when the last selection failed.
type Slot struct {
	Entity *pokeapi.Pokemon
	Origin cache.Origin
	Err    error
}

// State is the transient battle state. It is never persisted.
type State struct {
	lookup PokemonLookup

	mu    sync.Mutex
	slots [2]Slot
	seq   [2]uint64
}

// NewState returns an empty State resolving combatants through lookup.
func NewState(lookup PokemonLookup) *State {
	return &State{lookup: lookup}
}

func index(which SlotID) (int, error) {
	switch which {
	case Slot1, Slot2:
		return int(which) - 1, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidSlot, which)
	}
}

// Select resolves query into slot which. A failure is recorded on that slot
// and clears its entity; the other slot is never touched. If a newer Select
// for the same slot begins before this one finishes, this result is dropped
// and ErrSuperseded returned.
func (s *State) Select(ctx context.Context, which SlotID, query string) (Slot, error) {
	i, err := index(which)
	if err != nil {
		return Slot{}, err
	}

	s.mu.Lock()
	s.seq[i]++
	ticket := s.seq[i]
	s.mu.Unlock()

	res, lookupErr := s.lookup(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq[i] != ticket {
		return Slot{}, ErrSuperseded
	}
	if lookupErr != nil {
		s.slots[i] = Slot{Err: lookupErr}
		return s.slots[i], lookupErr
	}
	s.slots[i] = Slot{Entity: res.Data, Origin: res.Origin}
	return s.slots[i], nil
}

// SelectBoth resolves both slots concurrently. Each slot fails on its own;
// the returned error joins whichever selections failed.
func (s *State) SelectBoth(ctx context.Context, q1, q2 string) (Slot, Slot, error) {
	var (
		g          errgroup.Group
		s1, s2     Slot
		err1, err2 error
	)
	// Each goroutine returns nil so one failure never cancels the other.
	g.Go(func() error {
		s1, err1 = s.Select(ctx, Slot1, q1)
		return nil
	})
	g.Go(func() error {
		s2, err2 = s.Select(ctx, Slot2, q2)
		return nil
	})
	_ = g.Wait()

	var errs []error
	if err1 != nil {
		errs = append(errs, fmt.Errorf("slot 1: %w", err1))
	}
	if err2 != nil {
		errs = append(errs, fmt.Errorf("slot 2: %w", err2))
	}
	return s1, s2, errors.Join(errs...)
}

// Slot returns a copy of slot which.
func (s *State) Slot(which SlotID) Slot {
	i, err := index(which)
	if err != nil {
		return Slot{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[i]
}

// Enabled reports whether both slots hold a combatant.
func (s *State) Enabled() bool {
	_, _, ok := s.fighters()
	return ok
}

// Reset empties both slots. In-flight selections are discarded.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = [2]Slot{}
	s.seq[0]++
	s.seq[1]++
}
