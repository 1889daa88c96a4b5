// internal/handlers/api_server.go
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/gostop/internal/match"
	"github.com/jason-s-yu/gostop/internal/middleware"
	"github.com/jason-s-yu/gostop/internal/models"
	"github.com/sirupsen/logrus"
)

// UserStore persists guest users. It is optional; without one guests live
// only in their tokens.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
}

// Server holds what the HTTP handlers need.
type Server struct {
	Matches *match.Service
	Users   UserStore
	Logger  *logrus.Logger
}

func NewServer(matches *match.Service, users UserStore, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{Matches: matches, Users: users, Logger: logger}
}

// Routes builds the router. origins lists the CORS origins to allow.
func (s *Server) Routes(origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	r.Use(middleware.LogMiddleware(s.Logger))

	r.Post("/user/guest", s.GuestHandler)

	r.Route("/match", func(r chi.Router) {
		r.Post("/create", s.CreateMatchHandler)
		r.Get("/ws/{matchID}", s.MatchWSHandler)
		r.Get("/{matchID}/state", s.StateHandler)
		r.Post("/{matchID}/action", s.ActionHandler)
	})
	return r
}
