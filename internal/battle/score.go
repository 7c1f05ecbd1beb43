package battle

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/pokefinder/internal/pokeapi"
)

// Fighter is one side of a resolved battle.
type Fighter struct {
	Pokemon     *pokeapi.Pokemon
	BaseTotal   int
	PrimaryType string
	Multiplier  float64
	Score       float64
}

// Outcome is the result of Fight.
type Outcome struct {
	Fighters [2]Fighter
	Winner   SlotID
}

// WinnerFighter returns the winning side.
func (o Outcome) WinnerFighter() Fighter {
	return o.Fighters[o.Winner-1]
}

// Tie reports whether both scores are equal; slot 1 still wins.
func (o Outcome) Tie() bool {
	return o.Fighters[0].Score == o.Fighters[1].Score
}

// Decide scores both fighters as base total times multiplier. Slot 1 wins
// when its score is greater than or equal to slot 2's.
func Decide(b1 int, m1 float64, b2 int, m2 float64) (SlotID, float64, float64) {
	s1 := float64(b1) * m1
	s2 := float64(b2) * m2
	if s1 >= s2 {
		return Slot1, s1, s2
	}
	return Slot2, s1, s2
}

// Fight resolves both fighters' primary-type damage relations concurrently
// and scores the matchup.
func (s *State) Fight(ctx context.Context, types TypeLookup) (Outcome, error) {
	p1, p2, ok := s.fighters()
	if !ok {
		return Outcome{}, ErrNotReady
	}

	var m1, m2 float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		m1, err = multiplier(gctx, types, p1, p2)
		return err
	})
	g.Go(func() error {
		var err error
		m2, err = multiplier(gctx, types, p2, p1)
		return err
	})
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	b1, b2 := p1.BaseStatTotal(), p2.BaseStatTotal()
	winner, s1, s2 := Decide(b1, m1, b2, m2)
	return Outcome{
		Fighters: [2]Fighter{
			{Pokemon: p1, BaseTotal: b1, PrimaryType: p1.PrimaryType(), Multiplier: m1, Score: s1},
			{Pokemon: p2, BaseTotal: b2, PrimaryType: p2.PrimaryType(), Multiplier: m2, Score: s2},
		},
		Winner: winner,
	}, nil
}

// fighters reads both combatants under one lock.
func (s *State) fighters() (*pokeapi.Pokemon, *pokeapi.Pokemon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p1, p2 := s.slots[0].Entity, s.slots[1].Entity
	return p1, p2, p1 != nil && p2 != nil
}

// multiplier is the attacker's primary type against every defender type.
// An attacker without a type is neutral.
func multiplier(ctx context.Context, types TypeLookup, attacker, defender *pokeapi.Pokemon) (float64, error) {
	primary := attacker.PrimaryType()
	if primary == "" {
		return 1, nil
	}
	res, err := types(ctx, primary)
	if err != nil {
		return 0, fmt.Errorf("resolving type %s: %w", primary, err)
	}
	return res.Data.Multiplier(defender.TypeNames()), nil
}
