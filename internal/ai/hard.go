// internal/ai/hard.go
package ai

import (
	"math"

	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/jason-s-yu/gostop/internal/game"
)

const (
	hardPileFloor       = 3
	hardMaxGo           = 3
	hardStopScore       = 10
	hardOpponentJunkCap = 8
	hardLightPush       = 3
	hardLightPushCap    = 7
	hardSafeStop        = 5
	hardBombTableMax    = 4

	captureBonus = 5
	choiceBonus  = 3
	birdExposure = 3
)

// HardPolicy counts cards. It prefers captures, discards into months an
// opponent is unlikely to hold, and weighs go/stop against the pile and the
// opponents' junk.
type HardPolicy struct{}

func (p *HardPolicy) ChooseCard(s *game.GameState, seat int) (card.ID, error) {
	h, err := hand(s, seat)
	if err != nil {
		return 0, err
	}
	mem := Observe(s, seat)

	best, bestScore := h[0], math.MinInt
	for _, id := range h {
		if sc := p.rate(s, mem, id); sc > bestScore {
			best, bestScore = id, sc
		}
	}
	return best, nil
}

// rate scores playing id. Captures score the value they take; discards score
// negative, lower when the month is likely to be matched by someone else.
func (p *HardPolicy) rate(s *game.GameState, mem *Memory, id card.ID) int {
	month := card.MonthOf(id)
	onTable := s.Table[month]

	switch len(onTable) {
	case 0:
		// Unknown cards of this month sit with opponents or in the pile.
		score := -card.Weight(id) - mem.Unknown(month)*2
		if card.IsBird(id) {
			score -= birdExposure
		}
		return score
	case 2:
		return card.Weight(highestWeight(onTable)) + choiceBonus
	default:
		score := captureBonus
		for _, t := range onTable {
			score += card.Weight(t)
		}
		return score
	}
}

func (p *HardPolicy) SelectMatch(_ *game.GameState, _ int, options []card.ID) card.ID {
	return highestWeight(options)
}

func (p *HardPolicy) GoOrStop(s *game.GameState, seat int) Decision {
	pl := s.Players[seat]
	score := game.Score(pl.Captured, pl.GoCount)

	switch {
	case len(s.DrawPile) <= hardPileFloor:
		return Stop
	case pl.GoCount >= hardMaxGo:
		return Stop
	case score.Base >= hardStopScore:
		return Stop
	case maxOpponentJunk(s, seat) >= hardOpponentJunkCap:
		return Stop
	case len(pl.Captured.Lights) >= hardLightPush && score.Base < hardLightPushCap:
		return Go
	case score.Base >= hardSafeStop:
		return Stop
	}
	return Go
}

func (p *HardPolicy) Bomb(s *game.GameState, seat int) (card.Month, bool) {
	months := game.BombMonths(s.Players[seat].Hand, s.Table)
	if len(months) == 0 {
		return 0, false
	}
	if m, ok := valuableBomb(s, months); ok {
		return m, true
	}
	if s.Table.Count() <= hardBombTableMax {
		return months[0], true
	}
	return 0, false
}

func maxOpponentJunk(s *game.GameState, seat int) int {
	worst := 0
	for i, p := range s.Players {
		if i == seat {
			continue
		}
		if v := card.JunkValue(p.Captured.Junk); v > worst {
			worst = v
		}
	}
	return worst
}
