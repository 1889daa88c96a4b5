// internal/match/service_test.go
package match

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/jason-s-yu/gostop/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	mu     sync.Mutex
	rounds []models.RoundRecord
}

func (h *fakeHistory) RecordRound(_ context.Context, rec models.RoundRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rounds = append(h.rounds, rec)
	return nil
}

// racingStore lets another writer bump the version just before every
// conditional write.
type racingStore struct {
	*MemoryStore
}

func (s racingStore) CompareAndSwap(ctx context.Context, m *models.MatchState, expected int64) error {
	cur, err := s.MemoryStore.Load(ctx, m.MatchID)
	if err != nil {
		return err
	}
	cur.Version++
	if err := s.MemoryStore.CompareAndSwap(ctx, cur, expected); err != nil {
		return err
	}
	return s.MemoryStore.CompareAndSwap(ctx, m, expected)
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func setupService(t *testing.T, store StateStore) (*Service, *testClock) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := NewService(store, log)
	clock := &testClock{t: time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)}
	svc.Now = clock.now
	svc.Rand = func() game.Rand { return game.NewRand(5) }
	return svc, clock
}

func humanSeats(user uuid.UUID) []models.Seat {
	return []models.Seat{
		{Seat: 0, UserID: &user, Name: "host"},
		{Seat: 1, Name: "AI 1", AI: true},
		{Seat: 2, Name: "AI 2", AI: true},
	}
}

func TestCreateAndView(t *testing.T) {
	svc, clock := setupService(t, NewMemoryStore())
	user := uuid.New()

	rec, err := svc.Create(context.Background(), game.Normal, humanSeats(user))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Version)
	require.NotNil(t, rec.TurnDeadline)
	assert.Equal(t, clock.t.Add(30*time.Second), *rec.TurnDeadline)

	clock.t = clock.t.Add(10 * time.Second)
	view, version, err := svc.View(context.Background(), rec.MatchID, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, game.PhasePlayHand, view.Phase)
	assert.Equal(t, rec.MatchID.String(), view.GameID)
	assert.Len(t, view.Players[0].Hand, game.HandSize)
	assert.Empty(t, view.Players[1].Hand)
	require.NotNil(t, view.DeadlineMs)
	assert.Equal(t, int64(20000), *view.DeadlineMs)

	_, _, err = svc.View(context.Background(), rec.MatchID, uuid.New())
	assert.True(t, errors.Is(err, ErrNotSeated))

	_, _, err = svc.View(context.Background(), uuid.New(), user)
	assert.True(t, errors.Is(err, models.ErrMatchNotFound))
}

func TestCreateValidatesSeats(t *testing.T) {
	svc, _ := setupService(t, NewMemoryStore())
	user := uuid.New()

	_, err := svc.Create(context.Background(), game.Easy, humanSeats(user)[:2])
	assert.Error(t, err)

	seats := humanSeats(user)
	seats[0].UserID = nil
	_, err = svc.Create(context.Background(), game.Easy, seats)
	assert.Error(t, err)

	seats = humanSeats(user)
	seats[1].Seat = 2
	_, err = svc.Create(context.Background(), game.Easy, seats)
	assert.Error(t, err)
}

func TestSubmitSameVersionTwice(t *testing.T) {
	svc, _ := setupService(t, NewMemoryStore())
	user := uuid.New()
	ctx := context.Background()

	rec, err := svc.Create(ctx, game.Normal, humanSeats(user))
	require.NoError(t, err)

	_, version, err := svc.Submit(ctx, rec.MatchID, user, game.TimeoutAction(), rec.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	_, _, err = svc.Submit(ctx, rec.MatchID, user, game.TimeoutAction(), rec.Version)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.False(t, ce.Stale)
	assert.Equal(t, int64(1), ce.Expected)
	assert.Equal(t, int64(2), ce.Actual)

	stored, err := svc.Store.Load(ctx, rec.MatchID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version, "second request left no trace")
}

func TestSubmitLosesWriteRace(t *testing.T) {
	store := racingStore{NewMemoryStore()}
	svc, _ := setupService(t, store)
	user := uuid.New()
	ctx := context.Background()

	rec, err := svc.Create(ctx, game.Normal, humanSeats(user))
	require.NoError(t, err)

	_, _, err = svc.Submit(ctx, rec.MatchID, user, game.TimeoutAction(), rec.Version)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.True(t, ce.Stale)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestSubmitRejectsIllegalAction(t *testing.T) {
	svc, _ := setupService(t, NewMemoryStore())
	user := uuid.New()
	ctx := context.Background()

	rec, err := svc.Create(ctx, game.Normal, humanSeats(user))
	require.NoError(t, err)

	_, _, err = svc.Submit(ctx, rec.MatchID, user, game.Go(), rec.Version)
	assert.True(t, errors.Is(err, game.ErrWrongPhase))
	assert.True(t, game.IsRuleViolation(err))

	_, version, err := svc.View(ctx, rec.MatchID, user)
	require.NoError(t, err)
	assert.Equal(t, rec.Version, version)

	_, _, err = svc.Submit(ctx, rec.MatchID, uuid.New(), game.Stop(), rec.Version)
	assert.True(t, errors.Is(err, ErrNotSeated))
}

func TestPlayToEndRecordsHistory(t *testing.T) {
	svc, _ := setupService(t, NewMemoryStore())
	history := &fakeHistory{}
	svc.History = history
	user := uuid.New()
	ctx := context.Background()

	rec, err := svc.Create(ctx, game.Hard, humanSeats(user))
	require.NoError(t, err)

	updates, stop := svc.Hub.Subscribe(rec.MatchID)
	defer stop()

	version := rec.Version
	view, _, err := svc.View(ctx, rec.MatchID, user)
	require.NoError(t, err)
	for i := 0; i < 100 && view.Phase != game.PhaseGameOver; i++ {
		view, version, err = svc.Submit(ctx, rec.MatchID, user, game.TimeoutAction(), version)
		require.NoError(t, err)
	}
	require.Equal(t, game.PhaseGameOver, view.Phase)

	select {
	case u := <-updates:
		assert.Equal(t, version, u.Version)
	default:
		t.Fatal("no update published")
	}

	require.Len(t, history.rounds, 1)
	round := history.rounds[0]
	assert.Equal(t, rec.MatchID, round.MatchID)
	assert.Equal(t, view.Winner, round.WinnerSeat)
	if view.Winner != nil && *view.Winner == 0 {
		require.NotNil(t, round.WinnerID)
		assert.Equal(t, user, *round.WinnerID)
	}
	assert.Nil(t, view.DeadlineMs)
}

func TestExpire(t *testing.T) {
	svc, clock := setupService(t, NewMemoryStore())
	user := uuid.New()
	ctx := context.Background()

	rec, err := svc.Create(ctx, game.Easy, humanSeats(user))
	require.NoError(t, err)

	_, err = svc.Expire(ctx, rec.MatchID)
	assert.True(t, errors.Is(err, ErrNotExpired))

	clock.t = clock.t.Add(31 * time.Second)
	version, err := svc.Expire(ctx, rec.MatchID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestHubKeepsNewest(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	ch, stop := h.Subscribe(id)
	assert.Equal(t, 1, h.Subscribers(id))

	h.Publish(Update{MatchID: id, Version: 2})
	h.Publish(Update{MatchID: id, Version: 3})
	h.Publish(Update{MatchID: uuid.New(), Version: 9})
	assert.Equal(t, int64(3), (<-ch).Version)

	stop()
	stop()
	assert.Equal(t, 0, h.Subscribers(id))
	_, open := <-ch
	assert.False(t, open)
}
