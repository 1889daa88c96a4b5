// internal/ai/memory.go
package ai

import (
	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/jason-s-yu/gostop/internal/game"
)

// CardStatus is what a seat knows about one card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // in an opponent's hand or the draw pile
	StatusMine                      // in this seat's hand
	StatusSeen                      // captured by anyone or face up on the table
)

// Memory is one seat's view of the deck. It is rebuilt from the state on
// every decision, so it never drifts from what actually happened.
type Memory struct {
	Status [card.DeckSize]CardStatus
}

// Observe builds the memory of seat from s.
func Observe(s *game.GameState, seat int) *Memory {
	m := &Memory{}
	for _, p := range s.Players {
		m.mark(p.Captured.All(), StatusSeen)
	}
	for _, month := range s.Table.Months() {
		m.mark(s.Table[month], StatusSeen)
	}
	if seat >= 0 && seat < len(s.Players) {
		m.mark(s.Players[seat].Hand, StatusMine)
	}
	return m
}

func (m *Memory) mark(ids []card.ID, st CardStatus) {
	for _, id := range ids {
		if id.Valid() {
			m.Status[id] = st
		}
	}
}

// Seen counts cards of month already captured or on the table.
func (m *Memory) Seen(month card.Month) int {
	return m.count(month, StatusSeen)
}

// Unknown counts cards of month still hidden from this seat.
func (m *Memory) Unknown(month card.Month) int {
	return m.count(month, StatusUnknown)
}

func (m *Memory) count(month card.Month, st CardStatus) int {
	n := 0
	for _, c := range card.ByMonth(month) {
		if m.Status[c.ID] == st {
			n++
		}
	}
	return n
}
