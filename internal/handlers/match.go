// internal/handlers/match.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/auth"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/jason-s-yu/gostop/internal/models"
)

// errBadRequest marks a malformed request body or path.
var errBadRequest = errors.New("bad request")

// opponent fills seat 1 or 2. A seat with a user id is human, otherwise AI.
type opponent struct {
	UserID *uuid.UUID `json:"userId,omitempty"`
	Name   string     `json:"name,omitempty"`
}

type createMatchRequest struct {
	Difficulty string     `json:"difficulty"`
	Name       string     `json:"name"`
	Opponents  []opponent `json:"opponents"`
}

type createMatchResponse struct {
	MatchID uuid.UUID `json:"matchId"`
	models.StateResponse
}

// seatsFor lays out the seat table: the caller at seat 0, then the opponents.
func seatsFor(userID uuid.UUID, req createMatchRequest) ([]models.Seat, error) {
	if len(req.Opponents) > game.SeatCount-1 {
		return nil, fmt.Errorf("%w: at most %d opponents", errBadRequest, game.SeatCount-1)
	}
	name := req.Name
	if name == "" {
		name = "Player"
	}
	id := userID
	seats := []models.Seat{{Seat: 0, UserID: &id, Name: name}}

	seen := map[uuid.UUID]bool{userID: true}
	for i := 1; i < game.SeatCount; i++ {
		s := models.Seat{Seat: i, Name: fmt.Sprintf("AI %d", i), AI: true}
		if i-1 < len(req.Opponents) {
			o := req.Opponents[i-1]
			if o.UserID != nil {
				if seen[*o.UserID] {
					return nil, fmt.Errorf("%w: user %s seated twice", errBadRequest, *o.UserID)
				}
				seen[*o.UserID] = true
				uid := *o.UserID
				s.UserID, s.AI, s.Name = &uid, false, fmt.Sprintf("Player %d", i)
			}
			if o.Name != "" {
				s.Name = o.Name
			}
		}
		seats = append(seats, s)
	}
	return seats, nil
}

// CreateMatchHandler starts a match with the caller at seat 0.
func (s *Server) CreateMatchHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserFromRequest(r)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errUnauthorized, err))
		return
	}

	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid create payload", errBadRequest))
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = string(game.Normal)
	}
	d, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	seats, err := seatsFor(userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.Matches.Create(r.Context(), d, seats)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, version, err := s.Matches.View(r.Context(), rec.MatchID, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createMatchResponse{
		MatchID:       rec.MatchID,
		StateResponse: models.StateResponse{GameState: view, Version: version},
	})
}

// StateHandler returns the caller's view of the match.
func (s *Server) StateHandler(w http.ResponseWriter, r *http.Request) {
	userID, matchID, ok := s.matchRequest(w, r)
	if !ok {
		return
	}
	view, version, err := s.Matches.View(r.Context(), matchID, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StateResponse{GameState: view, Version: version})
}

// ActionHandler submits one action against the version the client last saw.
func (s *Server) ActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, matchID, ok := s.matchRequest(w, r)
	if !ok {
		return
	}

	var req models.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid action payload", errBadRequest))
		return
	}

	view, version, err := s.Matches.Submit(r.Context(), matchID, userID, req.Action, req.Version)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StateResponse{GameState: view, Version: version})
}

// matchRequest authenticates r and parses the match id from its path. It
// writes the error response itself when ok is false.
func (s *Server) matchRequest(w http.ResponseWriter, r *http.Request) (userID, matchID uuid.UUID, ok bool) {
	userID, err := auth.UserFromRequest(r)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errUnauthorized, err))
		return uuid.Nil, uuid.Nil, false
	}
	matchID, err = uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid match id", errBadRequest))
		return uuid.Nil, uuid.Nil, false
	}
	return userID, matchID, true
}
