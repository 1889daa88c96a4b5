// internal/game/sync_state.go
package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jason-s-yu/gostop/internal/card"
)

// SeatPlayer is one seat as seen from a requesting seat. Hand is empty for
// every seat but the requester's own.
type SeatPlayer struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	HandCount  int         `json:"handCount"`
	Hand       []card.ID   `json:"hand"`
	Captured   CapturedSet `json:"captured"`
	GoCount    int         `json:"goCount"`
	SweepCount int         `json:"sweepCount"`
	AI         bool        `json:"isAI"`
}

// SeatView is the redacted snapshot sent to one seat.
type SeatView struct {
	GameID         string               `json:"gameId"`
	Seat           int                  `json:"seat"`
	Phase          Phase                `json:"phase"`
	Players        []SeatPlayer         `json:"players"`
	Table          map[string][]card.ID `json:"tableCards"`
	DrawPileCount  int                  `json:"drawPileCount"`
	TurnIndex      int                  `json:"turnIndex"`
	TurnCount      int                  `json:"turnCount"`
	PendingOptions []card.ID            `json:"pendingMatchOptions"`
	LastEvent      Event                `json:"lastEvent"`
	Difficulty     Difficulty           `json:"difficulty"`
	Winner         *int                 `json:"winner"`
	Result         *ScoreResult         `json:"gameResult"`
	Settlements    []Settlement         `json:"settlements,omitempty"`
	GoStopSeat     *int                 `json:"goStopPlayer"`
	LastCaptured   []card.ID            `json:"lastCaptured"`
	BombOptions    []card.Month         `json:"myBombOptions"`
	StackedMonths  []card.Month         `json:"stackedMonths"`
	DeadlineMs     *int64               `json:"turnDeadlineMs"`
}

// ViewFor builds the snapshot for seat. Only that seat's hand is copied;
// pending options and bomb options appear only when seat is the one deciding.
// remaining is the time left on the turn deadline; nil means no deadline.
func ViewFor(s *GameState, seat int, remaining *time.Duration) SeatView {
	v := SeatView{
		GameID:         s.ID,
		Seat:           seat,
		Phase:          s.Phase,
		Table:          EncodeTable(s.Table),
		DrawPileCount:  len(s.DrawPile),
		TurnIndex:      s.TurnIndex,
		TurnCount:      s.TurnCount,
		PendingOptions: []card.ID{},
		LastEvent:      s.LastEvent,
		Difficulty:     s.Difficulty,
		Winner:         s.Winner,
		Result:         s.Result,
		Settlements:    s.Settlements,
		GoStopSeat:     s.GoStopSeat,
		LastCaptured:   cloneIDs(s.LastCaptured),
		BombOptions:    []card.Month{},
		StackedMonths:  StackedMonths(s.Table),
	}
	if v.LastCaptured == nil {
		v.LastCaptured = []card.ID{}
	}

	for i, p := range s.Players {
		sp := SeatPlayer{
			ID:         p.ID,
			Name:       p.Name,
			HandCount:  len(p.Hand),
			Hand:       []card.ID{},
			Captured:   p.Captured.Clone(),
			GoCount:    p.GoCount,
			SweepCount: p.SweepCount,
			AI:         p.AI,
		}
		if i == seat {
			sp.Hand = cloneIDs(p.Hand)
		}
		v.Players = append(v.Players, sp)
	}

	deciding := s.TurnIndex == seat
	switch s.Phase {
	case PhaseHandMatchSelect, PhaseDrawMatchSelect:
		if deciding {
			v.PendingOptions = cloneIDs(s.PendingOptions)
		}
	case PhasePlayHand:
		if deciding && seat >= 0 && seat < len(s.Players) {
			if b := BombMonths(s.Players[seat].Hand, s.Table); b != nil {
				v.BombOptions = b
			}
		}
	}

	if remaining != nil {
		ms := remaining.Milliseconds()
		if ms < 0 {
			ms = 0
		}
		v.DeadlineMs = &ms
	}
	return v
}

// MarshalState encodes the full authoritative state for storage.
func MarshalState(s *GameState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal game state: %w", err)
	}
	return data, nil
}

// UnmarshalState restores a stored state and checks its shape.
func UnmarshalState(data []byte) (*GameState, error) {
	var s GameState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal game state: %w", err)
	}
	if s.Table == nil {
		s.Table = Table{}
	}
	if s.Phase != PhaseIdle && len(s.Players) != SeatCount {
		return nil, fmt.Errorf("unmarshal game state: %d players, want %d", len(s.Players), SeatCount)
	}
	return &s, nil
}
