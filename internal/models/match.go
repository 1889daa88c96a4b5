// internal/models/match.go
package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMatchNotFound is returned by stores for an unknown match id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrVersionMismatch is returned by a conditional write whose expected
	// version is no longer current.
	ErrVersionMismatch = errors.New("match version changed")
)

// Seat maps a user to a seat index. AI seats have a nil UserID.
type Seat struct {
	Seat   int        `json:"seat"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
	Name   string     `json:"name"`
	AI     bool       `json:"is_ai"`
}

// MatchState is the stored record of one match: the serialized game state, its
// version, and the advisory turn deadline.
type MatchState struct {
	MatchID      uuid.UUID       `json:"match_id"`
	State        json.RawMessage `json:"state"`
	Version      int64           `json:"version"`
	TurnDeadline *time.Time      `json:"turn_deadline,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Seats        []Seat          `json:"seats"`
}

// SeatOf returns the seat held by userID.
func (m *MatchState) SeatOf(userID uuid.UUID) (int, bool) {
	for _, s := range m.Seats {
		if s.UserID != nil && *s.UserID == userID {
			return s.Seat, true
		}
	}
	return -1, false
}

// Clone returns a copy that shares nothing with m.
func (m *MatchState) Clone() *MatchState {
	c := *m
	c.State = append(json.RawMessage(nil), m.State...)
	c.Seats = append([]Seat(nil), m.Seats...)
	if m.TurnDeadline != nil {
		d := *m.TurnDeadline
		c.TurnDeadline = &d
	}
	return &c
}

// RoundRecord is a finished round kept for history.
type RoundRecord struct {
	ID         uuid.UUID       `json:"id"`
	MatchID    uuid.UUID       `json:"match_id"`
	WinnerSeat *int            `json:"winner_seat"`
	WinnerID   *uuid.UUID      `json:"winner_id,omitempty"`
	Points     int             `json:"points"`
	ComboNames []string        `json:"combo_names"`
	Players    []Seat          `json:"players"`
	Result     json.RawMessage `json:"result,omitempty"`
	FinishedAt time.Time       `json:"finished_at"`
}
