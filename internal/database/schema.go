// internal/database/schema.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables this package reads and writes. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id           UUID PRIMARY KEY,
	username     TEXT NOT NULL,
	is_ephemeral BOOLEAN NOT NULL DEFAULT TRUE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS gostop_matches (
	match_id      UUID PRIMARY KEY,
	state         JSONB NOT NULL,
	version       BIGINT NOT NULL,
	turn_deadline TIMESTAMPTZ,
	seats         JSONB NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS gostop_rounds (
	id          UUID PRIMARY KEY,
	match_id    UUID NOT NULL REFERENCES gostop_matches(match_id) ON DELETE CASCADE,
	winner_seat INT,
	winner_id   UUID,
	points      INT NOT NULL,
	combo_names TEXT[] NOT NULL,
	result      JSONB,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS gostop_round_players (
	round_id UUID NOT NULL REFERENCES gostop_rounds(id) ON DELETE CASCADE,
	seat     INT NOT NULL,
	user_id  UUID,
	name     TEXT NOT NULL,
	is_ai    BOOLEAN NOT NULL,
	PRIMARY KEY (round_id, seat)
);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
