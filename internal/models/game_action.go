// internal/models/game_action.go
package models

import "github.com/jason-s-yu/gostop/internal/game"

// ActionRequest is a client's move together with the version it last saw.
type ActionRequest struct {
	Action  game.Action `json:"action"`
	Version int64       `json:"version"`
}

// StateResponse carries one seat's view and the version it reflects.
type StateResponse struct {
	GameState game.SeatView `json:"gameState"`
	Version   int64         `json:"version"`
}

// ErrorResponse is the body of every failed request. Stale is set when the
// client should refetch and retry.
type ErrorResponse struct {
	Error string `json:"error"`
	Stale bool   `json:"stale,omitempty"`
}
