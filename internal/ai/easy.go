// internal/ai/easy.go
package ai

import (
	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/jason-s-yu/gostop/internal/game"
)

// EasyPolicy plays uniformly at random, always stops and never bombs.
type EasyPolicy struct {
	rng game.Rand
}

func (p *EasyPolicy) ChooseCard(s *game.GameState, seat int) (card.ID, error) {
	h, err := hand(s, seat)
	if err != nil {
		return 0, err
	}
	return h[p.rng.Intn(len(h))], nil
}

func (p *EasyPolicy) SelectMatch(_ *game.GameState, _ int, options []card.ID) card.ID {
	return options[p.rng.Intn(len(options))]
}

func (p *EasyPolicy) GoOrStop(*game.GameState, int) Decision { return Stop }

func (p *EasyPolicy) Bomb(*game.GameState, int) (card.Month, bool) { return 0, false }
