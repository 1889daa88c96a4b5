// internal/session/session.go
package session

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/game"
)

// Rounds is the length of a series.
const Rounds = 3

var (
	ErrSeriesOver   = errors.New("session: series is over")
	ErrRoundNotOver = errors.New("session: round has not ended")
)

// RoundResult is the record kept for one finished round.
type RoundResult struct {
	Round      int      `json:"round"`
	Winner     *int     `json:"winner"`
	Points     int      `json:"points"`
	ComboNames []string `json:"comboNames"`
}

// Standing is one seat's running total.
type Standing struct {
	Seat  int `json:"playerId"`
	Score int `json:"score"`
}

// Session is a fixed series of independent rounds.
type Session struct {
	ID         string              `json:"sessionId"`
	Difficulty game.Difficulty     `json:"difficulty"`
	Round      int                 `json:"currentRound"`
	MaxRounds  int                 `json:"maxRounds"`
	Scores     [game.SeatCount]int `json:"scores"`
	History    []RoundResult       `json:"roundHistory"`
}

// New starts an empty series.
func New(d game.Difficulty) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Difficulty: d,
		MaxRounds:  Rounds,
	}
}

// NewRound deals a fresh round for the series.
func (s *Session) NewRound(rng game.Rand, seats []game.SeatConfig) (*game.GameState, error) {
	if s.Over() {
		return nil, ErrSeriesOver
	}
	return game.Start(game.NewGameState(s.Difficulty), rng, seats)
}

// Record files a finished round and credits the winner's final score.
func (s *Session) Record(st *game.GameState) (RoundResult, error) {
	if s.Over() {
		return RoundResult{}, ErrSeriesOver
	}
	if !st.Terminal() {
		return RoundResult{}, fmt.Errorf("%w: phase %s", ErrRoundNotOver, st.Phase)
	}

	r := RoundResult{Round: s.Round, ComboNames: []string{}}
	if st.Winner != nil {
		w := *st.Winner
		r.Winner = &w
		if st.Result != nil {
			r.Points = st.Result.Final
			r.ComboNames = st.Result.ComboNames()
		}
		s.Scores[w] += r.Points
	}
	s.History = append(s.History, r)
	s.Round++
	return r, nil
}

// Over reports whether every round has been played.
func (s *Session) Over() bool {
	return s.Round >= s.MaxRounds
}

// Ranking lists seats by descending total. Equal totals keep seat order.
func (s *Session) Ranking() []Standing {
	out := make([]Standing, game.SeatCount)
	for i, sc := range s.Scores {
		out[i] = Standing{Seat: i, Score: sc}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
