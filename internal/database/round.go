// internal/database/round.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/gostop/internal/models"
)

// RoundHistory stores finished rounds and their seat tables.
type RoundHistory struct {
	pool *pgxpool.Pool
}

func NewRoundHistory(pool *pgxpool.Pool) *RoundHistory {
	return &RoundHistory{pool: pool}
}

// RecordRound inserts one finished round.
func (h *RoundHistory) RecordRound(ctx context.Context, rec models.RoundRecord) error {
	return h.RecordRounds(ctx, []models.RoundRecord{rec})
}

// RecordRounds inserts every round and its seat rows in a single transaction.
// Recording the same round id twice is a no-op.
func (h *RoundHistory) RecordRounds(ctx context.Context, recs []models.RoundRecord) error {
	if len(recs) == 0 {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, h.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range recs {
			if err := insertRoundTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("round %s: %w", rec.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert rounds: %w", err)
	}
	return nil
}

func insertRoundTx(ctx context.Context, tx pgx.Tx, rec models.RoundRecord) error {
	insertRound := `
		INSERT INTO gostop_rounds (id, match_id, winner_seat, winner_id, points, combo_names, result, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	var result []byte
	if len(rec.Result) > 0 {
		result = rec.Result
	}
	combos := rec.ComboNames
	if combos == nil {
		combos = []string{}
	}
	if _, err := tx.Exec(ctx, insertRound,
		rec.ID, rec.MatchID, rec.WinnerSeat, rec.WinnerID,
		rec.Points, combos, result, rec.FinishedAt,
	); err != nil {
		return err
	}

	for _, p := range rec.Players {
		q := `
			INSERT INTO gostop_round_players (round_id, seat, user_id, name, is_ai)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (round_id, seat) DO NOTHING
		`
		if _, err := tx.Exec(ctx, q, rec.ID, p.Seat, p.UserID, p.Name, p.AI); err != nil {
			return err
		}
	}
	return nil
}

// RoundsForMatch lists the recorded rounds of a match, oldest first.
func (h *RoundHistory) RoundsForMatch(ctx context.Context, matchID uuid.UUID) ([]models.RoundRecord, error) {
	q := `SELECT id, match_id, winner_seat, winner_id, points, combo_names, result, finished_at
	      FROM gostop_rounds
	      WHERE match_id=$1
	      ORDER BY finished_at`
	rows, err := h.pool.Query(ctx, q, matchID)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var out []models.RoundRecord
	for rows.Next() {
		var (
			r      models.RoundRecord
			result []byte
		)
		if err := rows.Scan(&r.ID, &r.MatchID, &r.WinnerSeat, &r.WinnerID, &r.Points, &r.ComboNames, &result, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		r.Result = result
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		players, err := h.playersFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Players = players
	}
	return out, nil
}

func (h *RoundHistory) playersFor(ctx context.Context, roundID uuid.UUID) ([]models.Seat, error) {
	rows, err := h.pool.Query(ctx, `SELECT seat, user_id, name, is_ai FROM gostop_round_players WHERE round_id=$1 ORDER BY seat`, roundID)
	if err != nil {
		return nil, fmt.Errorf("query round players: %w", err)
	}
	defer rows.Close()

	var seats []models.Seat
	for rows.Next() {
		var s models.Seat
		if err := rows.Scan(&s.Seat, &s.UserID, &s.Name, &s.AI); err != nil {
			return nil, fmt.Errorf("scan round player: %w", err)
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
