// internal/handlers/match_ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/auth"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/jason-s-yu/gostop/internal/middleware"
	"github.com/jason-s-yu/gostop/internal/models"
	"github.com/sirupsen/logrus"
)

// Subprotocol is the WebSocket subprotocol clients must request.
const Subprotocol = "gostop"

// wsMessage is every frame the server sends. Type is "state" or "error".
type wsMessage struct {
	Type string `json:"type"`
	*models.StateResponse
	*models.ErrorResponse
}

// MatchWSHandler pushes the caller's view whenever the match changes and
// accepts action requests on the same socket.
func (s *Server) MatchWSHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		http.Error(w, "Invalid match_id format", http.StatusBadRequest)
		return
	}
	userID, err := auth.UserFromRequest(r)
	if err != nil {
		http.Error(w, "Authentication failed", http.StatusUnauthorized)
		return
	}

	// Subscribe before the first read so no update slips between them.
	updates, unsubscribe := s.Matches.Hub.Subscribe(matchID)
	defer unsubscribe()

	view, version, err := s.Matches.View(r.Context(), matchID, userID)
	if err != nil {
		status, _ := statusFor(err)
		http.Error(w, err.Error(), status)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{Subprotocol},
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.Logger.Warnf("WebSocket accept error for match %s: %v", matchID, err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

	if c.Subprotocol() != Subprotocol {
		c.Close(BadSubprotocolError, "Client must use the 'gostop' subprotocol.")
		return
	}

	log := s.Logger.WithFields(logrus.Fields{"match": matchID, "user": userID})
	middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, r.URL.Path)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := wsjson.Write(ctx, c, stateMessage(view, version)); err != nil {
		middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, err)
		return
	}

	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readActions(ctx, c, matchID, userID, log)
	}()

	sent := version
	for {
		select {
		case err := <-readErr:
			middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, closeCause(err))
			c.Close(websocket.StatusNormalClosure, "")
			return
		case u, open := <-updates:
			if !open {
				return
			}
			if u.Version <= sent {
				continue
			}
			view, version, err := s.Matches.View(ctx, matchID, userID)
			if err != nil {
				log.WithError(err).Warn("refresh view")
				continue
			}
			if err := wsjson.Write(ctx, c, stateMessage(view, version)); err != nil {
				middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, err)
				return
			}
			sent = version
		}
	}
}

// readActions submits every action request read from c. A rejected action is
// answered with an error frame; the new state arrives through the hub.
func (s *Server) readActions(ctx context.Context, c *websocket.Conn, matchID, userID uuid.UUID, log logrus.FieldLogger) error {
	for {
		var req models.ActionRequest
		if err := wsjson.Read(ctx, c, &req); err != nil {
			return err
		}
		_, _, err := s.Matches.Submit(ctx, matchID, userID, req.Action, req.Version)
		if err == nil {
			continue
		}
		status, stale := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			log.WithError(err).Error("socket action failed")
			msg = http.StatusText(status)
		}
		frame := wsMessage{Type: "error", ErrorResponse: &models.ErrorResponse{Error: msg, Stale: stale}}
		if err := wsjson.Write(ctx, c, frame); err != nil {
			return err
		}
	}
}

func stateMessage(view game.SeatView, version int64) wsMessage {
	return wsMessage{Type: "state", StateResponse: &models.StateResponse{GameState: view, Version: version}}
}

// closeCause drops the error of an orderly close.
func closeCause(err error) error {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
