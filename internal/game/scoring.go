// internal/game/scoring.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/gostop/internal/card"
)

// Combo is one satisfied scoring rule.
type Combo struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Points int       `json:"points"`
	Cards  []card.ID `json:"cardIds"`
}

// ScoreResult is the point breakdown of a captured set.
type ScoreResult struct {
	Base         int     `json:"baseScore"`
	Lights       int     `json:"lightScore"`
	Ribbons      int     `json:"ribbonScore"`
	Animals      int     `json:"animalScore"`
	Junk         int     `json:"junkScore"`
	GoMultiplier int     `json:"goMultiplier"`
	Final        int     `json:"finalScore"`
	Combos       []Combo `json:"combos"`
}

// ComboNames lists the display names of every combo, in scoring order.
func (r ScoreResult) ComboNames() []string {
	names := make([]string, len(r.Combos))
	for i, c := range r.Combos {
		names[i] = c.Name
	}
	return names
}

// Score converts a captured set and go count into points.
func Score(c CapturedSet, goCount int) ScoreResult {
	var r ScoreResult
	r.Lights = scoreLights(c.Lights, &r.Combos)
	r.Ribbons = scoreRibbons(c.Ribbons, &r.Combos)
	r.Animals = scoreAnimals(c.Animals, &r.Combos)
	r.Junk = scoreJunk(c.Junk, &r.Combos)
	r.Base = r.Lights + r.Ribbons + r.Animals + r.Junk
	r.GoMultiplier = 1 << uint(max(goCount, 0))
	r.Final = r.Base * r.GoMultiplier
	return r
}

// Light tiers are exclusive: only the highest matching one counts.
func scoreLights(lights []card.ID, combos *[]Combo) int {
	n := len(lights)
	if n < 3 {
		return 0
	}
	rain := false
	for _, id := range lights {
		if card.Get(id).RainLight {
			rain = true
		}
	}

	var c Combo
	switch {
	case n >= 5:
		c = Combo{ID: "five-lights", Name: "Five Lights", Points: 15}
	case n == 4 && rain:
		c = Combo{ID: "mixed-four", Name: "Rainy Four Lights", Points: 4}
	case n == 4:
		c = Combo{ID: "clean-four", Name: "Four Lights", Points: 4}
	case rain:
		c = Combo{ID: "mixed-three", Name: "Rainy Three Lights", Points: 2}
	default:
		c = Combo{ID: "clean-three", Name: "Three Lights", Points: 3}
	}
	c.Cards = cloneIDs(lights)
	*combos = append(*combos, c)
	return c.Points
}

var ribbonSets = []struct {
	set  card.RibbonSet
	id   string
	name string
}{
	{card.RedSet, "red-ribbons", "Red Poem Ribbons"},
	{card.BlueSet, "blue-ribbons", "Blue Ribbons"},
	{card.EarlySet, "early-ribbons", "Plain Ribbons"},
}

func scoreRibbons(ribbons []card.ID, combos *[]Combo) int {
	score := 0
	for _, rs := range ribbonSets {
		var members []card.ID
		for _, id := range ribbons {
			if card.Get(id).Ribbon == rs.set {
				members = append(members, id)
			}
		}
		if len(members) >= 3 {
			*combos = append(*combos, Combo{ID: rs.id, Name: rs.name, Points: 3, Cards: members[:3]})
			score += 3
		}
	}
	if n := len(ribbons); n >= ribbonBonusMin {
		extra := n - ribbonBonusMin + 1
		*combos = append(*combos, Combo{
			ID:     "ribbon-count",
			Name:   fmt.Sprintf("%d Ribbons", n),
			Points: extra,
			Cards:  cloneIDs(ribbons),
		})
		score += extra
	}
	return score
}

func scoreAnimals(animals []card.ID, combos *[]Combo) int {
	score := 0
	var birds []card.ID
	for _, id := range animals {
		if card.IsBird(id) {
			birds = append(birds, id)
		}
	}
	if len(birds) >= 3 {
		*combos = append(*combos, Combo{ID: "birds", Name: "Five Birds", Points: 5, Cards: birds[:3]})
		score += 5
	}
	if n := len(animals); n >= animalBonusMin {
		extra := n - animalBonusMin + 1
		*combos = append(*combos, Combo{
			ID:     "animal-count",
			Name:   fmt.Sprintf("%d Animals", n),
			Points: extra,
			Cards:  cloneIDs(animals),
		})
		score += extra
	}
	return score
}

func scoreJunk(junk []card.ID, combos *[]Combo) int {
	value := card.JunkValue(junk)
	if value < junkBonusMin {
		return 0
	}
	points := value - junkBonusMin + 1
	*combos = append(*combos, Combo{
		ID:     "junk-count",
		Name:   fmt.Sprintf("%d Junk", value),
		Points: points,
		Cards:  cloneIDs(junk),
	})
	return points
}

// PenaltyFlag marks a loser for a doubled settlement.
type PenaltyFlag string

const (
	PenaltyNoLights PenaltyFlag = "no-lights"
	PenaltyLowJunk  PenaltyFlag = "low-junk"
	PenaltyGoBust   PenaltyFlag = "go-bust"
)

// lowJunkLimit is the loser junk value under which low-junk applies.
const lowJunkLimit = 7

// Settlement is what one losing seat owes the winner.
type Settlement struct {
	Seat       int           `json:"seat"`
	Flags      []PenaltyFlag `json:"flags"`
	Multiplier int           `json:"multiplier"`
	Amount     int           `json:"amount"`
}

// PenaltyFlags compares the winner against one loser.
func PenaltyFlags(winner, loser PlayerState) []PenaltyFlag {
	var flags []PenaltyFlag
	ws := Score(winner.Captured, winner.GoCount)
	if ws.Lights > 0 && len(loser.Captured.Lights) == 0 {
		flags = append(flags, PenaltyNoLights)
	}
	if ws.Junk > 0 && card.JunkValue(loser.Captured.Junk) < lowJunkLimit {
		flags = append(flags, PenaltyLowJunk)
	}
	if loser.GoCount > 0 {
		flags = append(flags, PenaltyGoBust)
	}
	return flags
}

// Settle computes a settlement for every seat other than winner. Each flag
// doubles that loser's multiplier on top of the winner's go multiplier.
func Settle(players []PlayerState, winner int) []Settlement {
	w := players[winner]
	ws := Score(w.Captured, w.GoCount)
	var out []Settlement
	for i, p := range players {
		if i == winner {
			continue
		}
		flags := PenaltyFlags(w, p)
		mult := 1 << uint(len(flags))
		out = append(out, Settlement{
			Seat:       i,
			Flags:      flags,
			Multiplier: mult,
			Amount:     ws.Base * ws.GoMultiplier * mult,
		})
	}
	return out
}
