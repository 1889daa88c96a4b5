// internal/match/service.go
package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/autoplay"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/jason-s-yu/gostop/internal/models"
	"github.com/sirupsen/logrus"
)

// HistoryRecorder keeps finished rounds.
type HistoryRecorder interface {
	RecordRound(ctx context.Context, rec models.RoundRecord) error
}

// Service is the authority for networked matches. Every accepted action runs
// load, version check, apply, autoplay and a conditional write, so no caller
// ever sees a half-resolved turn.
type Service struct {
	Store     StateStore
	Hub       *Hub
	History   HistoryRecorder
	Deadlines game.Deadlines
	Log       *logrus.Logger

	// Now and Rand are replaced in tests.
	Now  func() time.Time
	Rand func() game.Rand
}

// NewService returns a service over store with default deadlines, a fresh hub
// and a time-seeded random source per request.
func NewService(store StateStore, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		Store:     store,
		Hub:       NewHub(),
		Deadlines: game.DefaultDeadlines(),
		Log:       log,
		Now:       time.Now,
		Rand:      func() game.Rand { return game.NewRand(0) },
	}
}

// Create deals a new match for seats and stores it at version 1. AI seats
// that act first are played out before the record is written.
func (svc *Service) Create(ctx context.Context, d game.Difficulty, seats []models.Seat) (*models.MatchState, error) {
	if len(seats) != game.SeatCount {
		return nil, fmt.Errorf("create match: need %d seats, got %d", game.SeatCount, len(seats))
	}
	configs := make([]game.SeatConfig, game.SeatCount)
	for i, s := range seats {
		if s.Seat != i {
			return nil, fmt.Errorf("create match: seat %d listed at position %d", s.Seat, i)
		}
		if !s.AI && s.UserID == nil {
			return nil, fmt.Errorf("create match: human seat %d has no user", i)
		}
		configs[i] = game.SeatConfig{Name: s.Name, AI: s.AI}
	}

	rng := svc.Rand()
	id := uuid.New()
	st := game.NewGameState(d)
	st.ID = id.String()
	st, err := game.Start(st, rng, configs)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	if st, err = autoplay.Run(st, rng, svc.Log); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}

	data, err := game.MarshalState(st)
	if err != nil {
		return nil, err
	}
	now := svc.Now()
	rec := &models.MatchState{
		MatchID:      id,
		State:        data,
		Version:      1,
		TurnDeadline: svc.Deadlines.DeadlineAt(st, now),
		UpdatedAt:    now,
		Seats:        append([]models.Seat(nil), seats...),
	}
	if err := svc.Store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}

	svc.Log.WithFields(logrus.Fields{
		"match":      id,
		"difficulty": d,
		"phase":      st.Phase,
	}).Info("match created")
	svc.Hub.Publish(Update{MatchID: id, Version: rec.Version})
	return rec, nil
}

// View returns userID's view of the match and the version it reflects.
func (svc *Service) View(ctx context.Context, matchID, userID uuid.UUID) (game.SeatView, int64, error) {
	rec, err := svc.Store.Load(ctx, matchID)
	if err != nil {
		return game.SeatView{}, 0, err
	}
	seat, ok := rec.SeatOf(userID)
	if !ok {
		return game.SeatView{}, 0, ErrNotSeated
	}
	st, err := game.UnmarshalState(rec.State)
	if err != nil {
		return game.SeatView{}, 0, err
	}
	return game.ViewFor(st, seat, svc.remaining(rec.TurnDeadline)), rec.Version, nil
}

// Submit applies a on behalf of userID against the version the client last
// saw. A version that is not current, or a write that loses the race to
// another request, is reported as a *ConflictError.
func (svc *Service) Submit(ctx context.Context, matchID, userID uuid.UUID, a game.Action, version int64) (game.SeatView, int64, error) {
	rec, err := svc.Store.Load(ctx, matchID)
	if err != nil {
		return game.SeatView{}, 0, err
	}
	seat, ok := rec.SeatOf(userID)
	if !ok {
		return game.SeatView{}, 0, ErrNotSeated
	}
	if rec.Version != version {
		return game.SeatView{}, 0, &ConflictError{MatchID: matchID, Expected: version, Actual: rec.Version}
	}

	st, next, err := svc.advance(ctx, rec, seat, a)
	if err != nil {
		return game.SeatView{}, 0, err
	}
	return game.ViewFor(st, seat, svc.remaining(next.TurnDeadline)), next.Version, nil
}

// Expire plays the default action for whichever seat let its deadline lapse.
// It is meant for an external sweeper; the engine schedules nothing itself.
func (svc *Service) Expire(ctx context.Context, matchID uuid.UUID) (int64, error) {
	rec, err := svc.Store.Load(ctx, matchID)
	if err != nil {
		return 0, err
	}
	if rec.TurnDeadline == nil || svc.Now().Before(*rec.TurnDeadline) {
		return rec.Version, ErrNotExpired
	}
	st, err := game.UnmarshalState(rec.State)
	if err != nil {
		return 0, err
	}
	_, next, err := svc.advance(ctx, rec, st.ActingSeat(), game.TimeoutAction())
	if err != nil {
		return 0, err
	}
	return next.Version, nil
}

// advance runs one action through the engine and writes the result
// conditionally on rec's version.
func (svc *Service) advance(ctx context.Context, rec *models.MatchState, seat int, a game.Action) (*game.GameState, *models.MatchState, error) {
	log := svc.Log.WithFields(logrus.Fields{
		"match":   rec.MatchID,
		"seat":    seat,
		"action":  a.Kind,
		"version": rec.Version,
	})

	st, err := game.UnmarshalState(rec.State)
	if err != nil {
		return nil, nil, err
	}
	rng := svc.Rand()
	if st, err = game.Apply(st, seat, a, rng); err != nil {
		log.WithError(err).Debug("action rejected")
		return nil, nil, err
	}
	if st, err = autoplay.Run(st, rng, log); err != nil {
		log.WithError(err).Error("autoplay failed")
		return nil, nil, err
	}

	data, err := game.MarshalState(st)
	if err != nil {
		return nil, nil, err
	}
	now := svc.Now()
	next := rec.Clone()
	next.State = data
	next.Version = rec.Version + 1
	next.TurnDeadline = svc.Deadlines.DeadlineAt(st, now)
	next.UpdatedAt = now

	if err := svc.Store.CompareAndSwap(ctx, next, rec.Version); err != nil {
		if errors.Is(err, models.ErrVersionMismatch) {
			log.Warn("lost conditional write")
			return nil, nil, &ConflictError{MatchID: rec.MatchID, Expected: rec.Version, Stale: true}
		}
		return nil, nil, fmt.Errorf("store match %s: %w", rec.MatchID, err)
	}

	log.WithFields(logrus.Fields{"phase": st.Phase, "new_version": next.Version}).Info("action applied")
	svc.Hub.Publish(Update{MatchID: rec.MatchID, Version: next.Version})
	if st.Terminal() {
		svc.recordRound(ctx, next, st)
	}
	return st, next, nil
}

func (svc *Service) recordRound(ctx context.Context, rec *models.MatchState, st *game.GameState) {
	if svc.History == nil {
		return
	}
	round := models.RoundRecord{
		ID:         uuid.New(),
		MatchID:    rec.MatchID,
		WinnerSeat: st.Winner,
		ComboNames: []string{},
		Players:    rec.Seats,
		FinishedAt: rec.UpdatedAt,
	}
	if st.Winner != nil {
		for _, s := range rec.Seats {
			if s.Seat == *st.Winner {
				round.WinnerID = s.UserID
			}
		}
	}
	if st.Result != nil {
		round.Points = st.Result.Final
		round.ComboNames = st.Result.ComboNames()
		if data, err := json.Marshal(st.Result); err == nil {
			round.Result = data
		}
	}
	if err := svc.History.RecordRound(ctx, round); err != nil {
		svc.Log.WithError(err).WithField("match", rec.MatchID).Error("failed to record round")
	}
}

func (svc *Service) remaining(deadline *time.Time) *time.Duration {
	if deadline == nil {
		return nil
	}
	d := deadline.Sub(svc.Now())
	return &d
}
