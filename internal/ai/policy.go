// internal/ai/policy.go
package ai

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/jason-s-yu/gostop/internal/game"
)

// Decision is the answer to a go/stop prompt.
type Decision int

const (
	Stop Decision = iota
	Go
)

func (d Decision) String() string {
	if d == Go {
		return "go"
	}
	return "stop"
}

// ErrNoDecision is returned when the phase waits on no seat.
var ErrNoDecision = errors.New("phase needs no decision")

// Policy decides for an AI seat. Implementations read the state and never
// modify it.
type Policy interface {
	// ChooseCard picks the hand card to play.
	ChooseCard(s *game.GameState, seat int) (card.ID, error)
	// SelectMatch picks one of the pending match options.
	SelectMatch(s *game.GameState, seat int, options []card.ID) card.ID
	// GoOrStop answers a go/stop prompt.
	GoOrStop(s *game.GameState, seat int) Decision
	// Bomb returns the month to bomb, if any.
	Bomb(s *game.GameState, seat int) (card.Month, bool)
}

// ForDifficulty returns the policy for a difficulty tier. rng drives every
// random choice the policy makes.
func ForDifficulty(d game.Difficulty, rng game.Rand) (Policy, error) {
	switch d {
	case game.Easy:
		return &EasyPolicy{rng: rng}, nil
	case game.Normal:
		return &NormalPolicy{rng: rng}, nil
	case game.Hard:
		return &HardPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown difficulty: %q", d)
	}
}

// Decide turns the policy's answer for the current phase into an action for
// seat.
func Decide(p Policy, s *game.GameState, seat int) (game.Action, error) {
	switch s.Phase {
	case game.PhasePlayHand:
		if m, ok := p.Bomb(s, seat); ok {
			return game.Bomb(m), nil
		}
		id, err := p.ChooseCard(s, seat)
		if err != nil {
			return game.Action{}, err
		}
		return game.PlayCard(id), nil
	case game.PhaseHandMatchSelect, game.PhaseDrawMatchSelect:
		if len(s.PendingOptions) == 0 {
			return game.Action{}, fmt.Errorf("seat %d: no pending options", seat)
		}
		return game.SelectTarget(p.SelectMatch(s, seat, s.PendingOptions)), nil
	case game.PhaseGoStop:
		if p.GoOrStop(s, seat) == Go {
			return game.Go(), nil
		}
		return game.Stop(), nil
	}
	return game.Action{}, fmt.Errorf("%w: %s", ErrNoDecision, s.Phase)
}

func hand(s *game.GameState, seat int) ([]card.ID, error) {
	if seat < 0 || seat >= len(s.Players) {
		return nil, fmt.Errorf("seat %d out of range", seat)
	}
	h := s.Players[seat].Hand
	if len(h) == 0 {
		return nil, fmt.Errorf("seat %d has an empty hand", seat)
	}
	return h, nil
}

// highestWeight returns the option worth most, the first one on ties.
func highestWeight(options []card.ID) card.ID {
	best := options[0]
	for _, id := range options[1:] {
		if card.Weight(id) > card.Weight(best) {
			best = id
		}
	}
	return best
}

// capturePriority values the table cards a play would take.
func capturePriority(onTable []card.ID) int {
	v := 0
	for _, id := range onTable {
		switch card.CategoryOf(id) {
		case card.Light:
			v += 10
		case card.Animal:
			v += 5
		case card.Ribbon:
			v += 3
		default:
			v++
		}
	}
	return v
}

// valuableBomb returns the first bomb month whose table cards hold a light or
// an animal.
func valuableBomb(s *game.GameState, months []card.Month) (card.Month, bool) {
	for _, m := range months {
		for _, id := range s.Table[m] {
			if c := card.CategoryOf(id); c == card.Light || c == card.Animal {
				return m, true
			}
		}
	}
	return 0, false
}
