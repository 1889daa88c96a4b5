// internal/game/deck.go
package game

import (
	"math/rand"
	"sort"
	"time"

	"github.com/jason-s-yu/gostop/internal/card"
)

// Rand is the random source used for shuffles, timeouts and AI choices.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded source. A zero seed means time-seeded.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Deal is the result of shuffling and distributing a fresh deck.
type Deal struct {
	Hands    [SeatCount][]card.ID
	Table    Table
	DrawPile []card.ID
}

// NewDeck returns card ids 0..47 in order.
func NewDeck() []card.ID {
	deck := make([]card.ID, card.DeckSize)
	for i := range deck {
		deck[i] = card.ID(i)
	}
	return deck
}

// Shuffle returns a shuffled copy of ids.
func Shuffle(rng Rand, ids []card.ID) []card.ID {
	out := cloneIDs(ids)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// DealCards shuffles a deck and deals 7 cards to each seat, 6 to the table,
// and leaves the rest as the draw pile. Hands are sorted by id, which is
// month order. A deal that lays a whole month face up is thrown in and
// redealt, since those four cards could never be captured.
func DealCards(rng Rand) Deal {
	for {
		d := deal(Shuffle(rng, NewDeck()))
		if len(d.Table.FullMonths()) == 0 {
			return d
		}
	}
}

// deal distributes an already shuffled deck.
func deal(deck []card.ID) Deal {
	var d Deal
	idx := 0
	for seat := 0; seat < SeatCount; seat++ {
		hand := cloneIDs(deck[idx : idx+HandSize])
		sort.Slice(hand, func(i, j int) bool { return hand[i] < hand[j] })
		d.Hands[seat] = hand
		idx += HandSize
	}

	d.Table = Table{}
	for _, id := range deck[idx : idx+TableDealSize] {
		d.Table.place(id)
	}
	idx += TableDealSize

	d.DrawPile = cloneIDs(deck[idx:])
	return d
}
