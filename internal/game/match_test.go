// internal/game/match_test.go
package game

import (
	"errors"
	"testing"

	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveClassifiesByTableCount(t *testing.T) {
	cases := []struct {
		name     string
		table    Table
		kind     MatchKind
		captured int
	}{
		{"empty month", Table{2: {4}}, NoMatch, 0},
		{"one card", Table{1: {2}}, SingleMatch, 2},
		{"two cards", Table{1: {2, 3}}, ChoiceMatch, 2},
		{"three cards", Table{1: {1, 2, 3}}, QuadMatch, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Resolve(tc.table, 0)
			assert.Equal(t, tc.kind, r.Kind)
			assert.Equal(t, card.Month(1), r.Month)

			var target *card.ID
			if r.Kind == ChoiceMatch {
				target = idPtr(r.Targets[1])
			}
			next, captured, err := Execute(tc.table, 0, r, target)
			require.NoError(t, err)
			assert.Len(t, captured, tc.captured)
			if tc.captured > 0 {
				assert.Equal(t, card.ID(0), captured[0], "played card leads the capture")
			}
			assert.Equal(t, tc.captured == 0, containsID(next[1], 0), "played card stays only on no-match")
		})
	}
}

func TestResolveFourOnTableIsQuad(t *testing.T) {
	table := Table{1: {0, 1, 2, 3}}
	r := Resolve(table, 3)
	assert.Equal(t, QuadMatch, r.Kind)
}

func TestExecuteNoMatchPlacesCard(t *testing.T) {
	table := Table{2: {4}}
	r := Resolve(table, 0)
	next, captured, err := Execute(table, 0, r, nil)
	require.NoError(t, err)
	assert.Empty(t, captured)
	assert.Equal(t, []card.ID{0}, next[1])
	assert.Empty(t, table[1], "input table untouched")
}

func TestExecuteChoice(t *testing.T) {
	table := Table{1: {2, 3}}
	r := Resolve(table, 0)

	_, _, err := Execute(table, 0, r, nil)
	assert.True(t, errors.Is(err, ErrMissingTarget))

	_, _, err = Execute(table, 0, r, idPtr(9))
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	next, captured, err := Execute(table, 0, r, idPtr(3))
	require.NoError(t, err)
	assert.Equal(t, []card.ID{0, 3}, captured)
	assert.Equal(t, []card.ID{2}, next[1], "unchosen card stays")
	assert.Equal(t, []card.ID{2, 3}, table[1])
}

func TestBombMonths(t *testing.T) {
	t.Run("three in hand and one on table", func(t *testing.T) {
		assert.Equal(t, []card.Month{5}, BombMonths([]card.ID{16, 17, 18, 20}, Table{5: {19}}))
	})
	t.Run("two in hand never qualifies", func(t *testing.T) {
		assert.Empty(t, BombMonths([]card.ID{16, 17, 20}, Table{5: {18, 19}}))
	})
	t.Run("nothing on table", func(t *testing.T) {
		assert.Empty(t, BombMonths([]card.ID{16, 17, 18}, Table{6: {21}}))
	})
	t.Run("independent months", func(t *testing.T) {
		hand := []card.ID{16, 17, 18, 20, 21, 22}
		assert.Equal(t, []card.Month{5, 6}, BombMonths(hand, Table{5: {19}, 6: {23}}))
	})
}

func TestStackedMonths(t *testing.T) {
	assert.Equal(t, []card.Month{1}, StackedMonths(Table{1: {0, 1, 2}, 2: {4}}))
	assert.Empty(t, StackedMonths(Table{1: {0, 1}}))
}

func TestDealCards(t *testing.T) {
	d := DealCards(NewRand(42))
	seen := map[card.ID]bool{}
	for _, h := range d.Hands {
		assert.Len(t, h, HandSize)
		for i := 1; i < len(h); i++ {
			assert.True(t, h[i-1] < h[i], "hands are sorted")
		}
		for _, id := range h {
			seen[id] = true
		}
	}
	assert.Equal(t, TableDealSize, d.Table.Count())
	for _, m := range d.Table.Months() {
		for _, id := range d.Table[m] {
			seen[id] = true
		}
	}
	for _, id := range d.DrawPile {
		seen[id] = true
	}
	assert.Len(t, d.DrawPile, card.DeckSize-SeatCount*HandSize-TableDealSize)
	assert.Len(t, seen, card.DeckSize)

	again := DealCards(NewRand(42))
	assert.Equal(t, d, again, "same seed, same deal")
}

func TestDealCardsRedealsFullMonth(t *testing.T) {
	// The first shuffle from seed 289 lays all of month 2 on the table.
	raw := deal(Shuffle(NewRand(289), NewDeck()))
	assert.Equal(t, []card.Month{2}, raw.Table.FullMonths())

	d := DealCards(NewRand(289))
	assert.Empty(t, d.Table.FullMonths())
	assert.Equal(t, TableDealSize, d.Table.Count())

	for seed := int64(1); seed <= 2000; seed++ {
		d := DealCards(NewRand(seed))
		require.Empty(t, d.Table.FullMonths(), "seed %d", seed)
	}
}

func TestFullMonths(t *testing.T) {
	assert.Equal(t, []card.Month{2}, Table{1: {0}, 2: {4, 5, 6, 7}}.FullMonths())
	assert.Empty(t, Table{2: {4, 5, 6}}.FullMonths())
}
