// internal/game/match.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/gostop/internal/card"
)

// MatchKind classifies how a played or drawn card meets the table.
type MatchKind string

const (
	NoMatch     MatchKind = "no-match"
	SingleMatch MatchKind = "single-match"
	ChoiceMatch MatchKind = "choice"
	QuadMatch   MatchKind = "quad-match"
)

// MatchResult is the outcome of Resolve. Targets holds the same-month table
// cards: one for a single match, the two options for a choice, all of them for
// a quad match.
type MatchResult struct {
	Kind    MatchKind
	Month   card.Month
	Targets []card.ID
}

// Resolve classifies id against the table by counting same-month cards.
func Resolve(t Table, id card.ID) MatchResult {
	m := card.MonthOf(id)
	onTable := t[m]
	r := MatchResult{Month: m, Targets: cloneIDs(onTable)}
	switch len(onTable) {
	case 0:
		r.Kind = NoMatch
	case 1:
		r.Kind = SingleMatch
	case 2:
		r.Kind = ChoiceMatch
	default:
		// 4 cannot happen in play; treat it like 3.
		r.Kind = QuadMatch
	}
	return r
}

// Execute applies r to a copy of the table and returns the new table plus
// the captured ids, the played card first. target is required for a choice.
func Execute(t Table, id card.ID, r MatchResult, target *card.ID) (Table, []card.ID, error) {
	next := t.Clone()
	switch r.Kind {
	case NoMatch:
		next.place(id)
		return next, nil, nil

	case SingleMatch:
		delete(next, r.Month)
		return next, []card.ID{id, r.Targets[0]}, nil

	case ChoiceMatch:
		if target == nil {
			return nil, nil, ErrMissingTarget
		}
		if !containsID(r.Targets, *target) {
			return nil, nil, fmt.Errorf("%w: %d", ErrInvalidTarget, int(*target))
		}
		remaining := removeID(next[r.Month], *target)
		if len(remaining) > 0 {
			next[r.Month] = remaining
		} else {
			delete(next, r.Month)
		}
		return next, []card.ID{id, *target}, nil

	case QuadMatch:
		delete(next, r.Month)
		return next, append([]card.ID{id}, r.Targets...), nil
	}
	return nil, nil, fmt.Errorf("unknown match kind %q", r.Kind)
}

// BombMonths lists, in month order, every month where hand holds 3 or more
// cards and the table holds at least one.
func BombMonths(hand []card.ID, t Table) []card.Month {
	var counts [card.MonthCount + 1]int
	for _, id := range hand {
		counts[card.MonthOf(id)]++
	}
	var out []card.Month
	for m := card.Month(1); m <= card.MonthCount; m++ {
		if counts[m] >= 3 && len(t[m]) >= 1 {
			out = append(out, m)
		}
	}
	return out
}

// StackedMonths lists months with three or more unclaimed cards on the table.
func StackedMonths(t Table) []card.Month {
	var out []card.Month
	for _, m := range t.Months() {
		if len(t[m]) >= 3 {
			out = append(out, m)
		}
	}
	return out
}
