// internal/handlers/user.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/auth"
	"github.com/jason-s-yu/gostop/internal/models"
)

type guestRequest struct {
	Username string `json:"username"`
}

type guestResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// GuestHandler mints a new guest identity and its token. The token is also
// set as the auth cookie.
func (s *Server) GuestHandler(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: invalid guest payload", errBadRequest))
			return
		}
	}

	u := models.User{
		ID:          uuid.New(),
		Username:    strings.TrimSpace(req.Username),
		IsEphemeral: true,
	}
	if u.Username == "" {
		u.Username = "Guest"
	}
	if s.Users != nil {
		if err := s.Users.CreateUser(r.Context(), &u); err != nil {
			s.writeError(w, r, fmt.Errorf("failed to create guest user: %w", err))
			return
		}
	}

	token, err := auth.CreateJWT(u.ID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to create guest JWT: %w", err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	writeJSON(w, http.StatusCreated, guestResponse{User: u, Token: token})
}
