// internal/ai/normal.go
package ai

import (
	"sort"

	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/jason-s-yu/gostop/internal/game"
)

const (
	normalStopScore = 7
	normalMaxGo     = 2
	normalGoChance  = 0.4
)

// NormalPolicy captures the most valuable table cards it can and otherwise
// throws away its cheapest card.
type NormalPolicy struct {
	rng game.Rand
}

func (p *NormalPolicy) ChooseCard(s *game.GameState, seat int) (card.ID, error) {
	h, err := hand(s, seat)
	if err != nil {
		return 0, err
	}

	type option struct {
		id       card.ID
		priority int
	}
	var capturing []option
	for _, id := range h {
		if onTable := s.Table[card.MonthOf(id)]; len(onTable) > 0 {
			capturing = append(capturing, option{id, capturePriority(onTable)})
		}
	}
	if len(capturing) > 0 {
		sort.SliceStable(capturing, func(i, j int) bool {
			return capturing[i].priority > capturing[j].priority
		})
		return capturing[0].id, nil
	}

	cheapest := h[0]
	for _, id := range h[1:] {
		if card.Weight(id) < card.Weight(cheapest) {
			cheapest = id
		}
	}
	return cheapest, nil
}

func (p *NormalPolicy) SelectMatch(_ *game.GameState, _ int, options []card.ID) card.ID {
	return highestWeight(options)
}

func (p *NormalPolicy) GoOrStop(s *game.GameState, seat int) Decision {
	pl := s.Players[seat]
	score := game.Score(pl.Captured, pl.GoCount)
	switch {
	case score.Base >= normalStopScore:
		return Stop
	case pl.GoCount >= normalMaxGo:
		return Stop
	case score.Base >= game.MinStopScore && len(pl.Hand) <= 2:
		return Stop
	}
	if p.rng.Float64() < normalGoChance {
		return Go
	}
	return Stop
}

func (p *NormalPolicy) Bomb(s *game.GameState, seat int) (card.Month, bool) {
	return valuableBomb(s, game.BombMonths(s.Players[seat].Hand, s.Table))
}
