// internal/game/state.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/card"
)

// Fixed rule constants.
const (
	SeatCount      = 3
	HandSize       = 7
	TableDealSize  = 6
	MinStopScore   = 3
	ribbonBonusMin = 5
	animalBonusMin = 5
	junkBonusMin   = 10
)

// Phase is the state-machine tag of a GameState.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhasePlayHand        Phase = "play-hand"
	PhaseHandMatchSelect Phase = "hand-match-select"
	PhaseDraw            Phase = "draw"
	PhaseDrawMatchSelect Phase = "draw-match-select"
	PhaseResolveCapture  Phase = "resolve-capture"
	PhaseGoStop          Phase = "go-stop-decision"
	PhaseGameOver        Phase = "game-over"
)

// Difficulty selects the AI tier used for AI seats.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Normal, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// Event tags a turn for UI feedback and penalty accounting.
type Event string

const (
	EventNone        Event = "none"
	EventSingleMatch Event = "single-match"
	EventQuadMatch   Event = "quad-match"
	EventBomb        Event = "bomb"
	EventSweep       Event = "sweep"
)

// CapturedSet holds the cards a player has taken, by category. Append-only
// during a round.
type CapturedSet struct {
	Lights  []card.ID `json:"lights"`
	Animals []card.ID `json:"animals"`
	Ribbons []card.ID `json:"ribbons"`
	Junk    []card.ID `json:"junk"`
}

// Add files id under its catalog category.
func (c *CapturedSet) Add(ids ...card.ID) {
	for _, id := range ids {
		switch card.CategoryOf(id) {
		case card.Light:
			c.Lights = append(c.Lights, id)
		case card.Animal:
			c.Animals = append(c.Animals, id)
		case card.Ribbon:
			c.Ribbons = append(c.Ribbons, id)
		case card.Junk:
			c.Junk = append(c.Junk, id)
		}
	}
}

// All returns every captured card.
func (c CapturedSet) All() []card.ID {
	out := make([]card.ID, 0, len(c.Lights)+len(c.Animals)+len(c.Ribbons)+len(c.Junk))
	out = append(out, c.Lights...)
	out = append(out, c.Animals...)
	out = append(out, c.Ribbons...)
	return append(out, c.Junk...)
}

// Clone returns an independent copy.
func (c CapturedSet) Clone() CapturedSet {
	return CapturedSet{
		Lights:  cloneIDs(c.Lights),
		Animals: cloneIDs(c.Animals),
		Ribbons: cloneIDs(c.Ribbons),
		Junk:    cloneIDs(c.Junk),
	}
}

// PlayerState is one seat. Only transition functions change it, and only on
// their own copy.
type PlayerState struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Hand       []card.ID   `json:"hand"`
	Captured   CapturedSet `json:"captured"`
	GoCount    int         `json:"goCount"`
	SweepCount int         `json:"sweepCount"`
	AI         bool        `json:"isAI"`
}

// HasCard reports whether id is in the player's hand.
func (p PlayerState) HasCard(id card.ID) bool {
	return containsID(p.Hand, id)
}

func (p PlayerState) clone() PlayerState {
	p.Hand = cloneIDs(p.Hand)
	p.Captured = p.Captured.Clone()
	return p
}

// TurnAction is the in-flight record of the current turn. PlayedCard is nil
// when the turn so far consists only of a bomb.
type TurnAction struct {
	PlayedCard *card.ID  `json:"playedCard"`
	HandTarget *card.ID  `json:"handTarget"`
	DrawnCard  *card.ID  `json:"drawnCard"`
	DrawTarget *card.ID  `json:"drawTarget"`
	Captured   []card.ID `json:"captured"`
	Events     []Event   `json:"events"`
	Singles    int       `json:"singles"`
}

func (t *TurnAction) clone() *TurnAction {
	if t == nil {
		return nil
	}
	nt := *t
	nt.Captured = cloneIDs(t.Captured)
	nt.Events = append([]Event(nil), t.Events...)
	return &nt
}

// SeatConfig describes who sits in a seat when a round starts.
type SeatConfig struct {
	Name string `json:"name"`
	AI   bool   `json:"ai"`
}

// DefaultSeats is one human at seat 0 against two AI seats.
func DefaultSeats() []SeatConfig {
	return []SeatConfig{{Name: "You"}, {Name: "AI 1", AI: true}, {Name: "AI 2", AI: true}}
}

// GameState is the root snapshot. Transitions never modify their input; they
// return a new *GameState sharing only the substructures they did not touch.
type GameState struct {
	ID             string        `json:"gameId"`
	Phase          Phase         `json:"phase"`
	Players        []PlayerState `json:"players"`
	Table          Table         `json:"tableCards"`
	DrawPile       []card.ID     `json:"drawPile"`
	TurnIndex      int           `json:"turnIndex"`
	TurnCount      int           `json:"turnCount"`
	Turn           *TurnAction   `json:"currentTurnAction"`
	PendingOptions []card.ID     `json:"pendingMatchOptions"`
	LastEvent      Event         `json:"lastEvent"`
	Difficulty     Difficulty    `json:"difficulty"`
	Winner         *int          `json:"winner"`
	Result         *ScoreResult  `json:"gameResult"`
	Settlements    []Settlement  `json:"settlements,omitempty"`
	GoStopSeat     *int          `json:"goStopPlayer"`
	LastCaptured   []card.ID     `json:"lastCaptured"`
}

// NewGameState returns an idle state with a fresh id.
func NewGameState(d Difficulty) *GameState {
	return &GameState{
		ID:         uuid.NewString(),
		Phase:      PhaseIdle,
		Table:      Table{},
		LastEvent:  EventNone,
		Difficulty: d,
	}
}

// Terminal reports whether no further transition is possible.
func (s *GameState) Terminal() bool {
	return s.Phase == PhaseGameOver
}

// ActingSeat is the seat whose input the current phase waits on, or -1.
func (s *GameState) ActingSeat() int {
	switch s.Phase {
	case PhaseIdle, PhaseGameOver:
		return -1
	case PhaseGoStop:
		if s.GoStopSeat != nil {
			return *s.GoStopSeat
		}
		return s.TurnIndex
	default:
		return s.TurnIndex
	}
}

// Clone returns a fully independent copy.
func (s *GameState) Clone() *GameState {
	ns := s.shallow()
	ns.Players = clonePlayers(s.Players)
	ns.Table = s.Table.Clone()
	ns.DrawPile = cloneIDs(s.DrawPile)
	ns.Turn = s.Turn.clone()
	ns.PendingOptions = cloneIDs(s.PendingOptions)
	ns.LastCaptured = cloneIDs(s.LastCaptured)
	ns.Settlements = append([]Settlement(nil), s.Settlements...)
	if s.Result != nil {
		r := *s.Result
		ns.Result = &r
	}
	return ns
}

// shallow copies the top-level struct. Callers replace every substructure
// they intend to change.
func (s *GameState) shallow() *GameState {
	ns := *s
	return &ns
}

func clonePlayers(ps []PlayerState) []PlayerState {
	out := make([]PlayerState, len(ps))
	for i, p := range ps {
		out[i] = p.clone()
	}
	return out
}

func cloneIDs(ids []card.ID) []card.ID {
	if ids == nil {
		return nil
	}
	out := make([]card.ID, len(ids))
	copy(out, ids)
	return out
}

func containsID(ids []card.ID, id card.ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func removeID(ids []card.ID, id card.ID) []card.ID {
	out := make([]card.ID, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

func idPtr(v card.ID) *card.ID { return &v }
