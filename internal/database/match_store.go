// internal/database/match_store.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/gostop/internal/models"
)

// MatchStore keeps match records in gostop_matches. The version column guards
// every update.
type MatchStore struct {
	pool *pgxpool.Pool
}

func NewMatchStore(pool *pgxpool.Pool) *MatchStore {
	return &MatchStore{pool: pool}
}

func (s *MatchStore) Create(ctx context.Context, m *models.MatchState) error {
	seats, err := json.Marshal(m.Seats)
	if err != nil {
		return fmt.Errorf("marshal seats: %w", err)
	}
	q := `INSERT INTO gostop_matches (match_id, state, version, turn_deadline, seats, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(ctx, q, m.MatchID, []byte(m.State), m.Version, m.TurnDeadline, seats, m.UpdatedAt); err != nil {
		return fmt.Errorf("insert match %s: %w", m.MatchID, err)
	}
	return nil
}

func (s *MatchStore) Load(ctx context.Context, id uuid.UUID) (*models.MatchState, error) {
	var (
		m     models.MatchState
		state []byte
		seats []byte
	)
	q := `SELECT match_id, state, version, turn_deadline, seats, updated_at
	      FROM gostop_matches
	      WHERE match_id=$1`
	err := s.pool.QueryRow(ctx, q, id).Scan(&m.MatchID, &state, &m.Version, &m.TurnDeadline, &seats, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", id, err)
	}
	m.State = state
	if err := json.Unmarshal(seats, &m.Seats); err != nil {
		return nil, fmt.Errorf("unmarshal seats of %s: %w", id, err)
	}
	return &m, nil
}

// CompareAndSwap writes m only while the row still carries expected. When no
// row matched it tells a missing match apart from a lost race.
func (s *MatchStore) CompareAndSwap(ctx context.Context, m *models.MatchState, expected int64) error {
	q := `UPDATE gostop_matches
	      SET state=$2, version=$3, turn_deadline=$4, updated_at=$5
	      WHERE match_id=$1 AND version=$6`
	tag, err := s.pool.Exec(ctx, q, m.MatchID, []byte(m.State), m.Version, m.TurnDeadline, m.UpdatedAt, expected)
	if err != nil {
		return fmt.Errorf("update match %s: %w", m.MatchID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM gostop_matches WHERE match_id=$1)`, m.MatchID).Scan(&exists); err != nil {
		return fmt.Errorf("check match %s: %w", m.MatchID, err)
	}
	if !exists {
		return models.ErrMatchNotFound
	}
	return models.ErrVersionMismatch
}

// Delete removes a match and its recorded rounds.
func (s *MatchStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM gostop_matches WHERE match_id=$1`, id)
	return err
}
