// internal/game/deadline.go
package game

import "time"

// Deadlines are the decision windows a seat gets per phase. They are advisory:
// the engine never enforces them, callers send a timeout action once one lapses.
type Deadlines struct {
	PlayHand    time.Duration `toml:"play_hand" json:"playHand"`
	MatchSelect time.Duration `toml:"match_select" json:"matchSelect"`
	GoStop      time.Duration `toml:"go_stop" json:"goStop"`
}

// DefaultDeadlines returns 30s to play a card and 15s for the other decisions.
func DefaultDeadlines() Deadlines {
	return Deadlines{
		PlayHand:    30 * time.Second,
		MatchSelect: 15 * time.Second,
		GoStop:      15 * time.Second,
	}
}

// For returns the window for p, or zero when p waits on nobody.
func (d Deadlines) For(p Phase) time.Duration {
	switch p {
	case PhasePlayHand:
		return d.PlayHand
	case PhaseHandMatchSelect, PhaseDrawMatchSelect:
		return d.MatchSelect
	case PhaseGoStop:
		return d.GoStop
	}
	return 0
}

// DeadlineAt returns the absolute deadline for s starting at now, or nil.
func (d Deadlines) DeadlineAt(s *GameState, now time.Time) *time.Time {
	dur := d.For(s.Phase)
	if dur <= 0 {
		return nil
	}
	t := now.Add(dur)
	return &t
}
