// internal/handlers/errors.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jason-s-yu/gostop/internal/auth"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/jason-s-yu/gostop/internal/match"
	"github.com/jason-s-yu/gostop/internal/models"
)

// errUnauthorized marks a request whose token is missing or invalid.
var errUnauthorized = errors.New("unauthorized")

// statusFor maps an error to its HTTP status and whether the client should
// refetch before retrying.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, match.ErrConflict):
		return http.StatusConflict, true
	case game.IsRuleViolation(err), errors.Is(err, errBadRequest):
		return http.StatusBadRequest, false
	case errors.Is(err, errUnauthorized), errors.Is(err, auth.ErrNoToken):
		return http.StatusUnauthorized, false
	case errors.Is(err, match.ErrNotSeated):
		return http.StatusForbidden, false
	case errors.Is(err, models.ErrMatchNotFound):
		return http.StatusNotFound, false
	}
	return http.StatusInternalServerError, false
}

// writeError sends the JSON error body. Server errors are logged and their
// detail is not sent.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, stale := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.Logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		msg = http.StatusText(status)
	}
	writeJSON(w, status, models.ErrorResponse{Error: msg, Stale: stale})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
