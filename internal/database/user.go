// internal/database/user.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/gostop/internal/models"
)

// ErrUserNotFound is returned by GetUserByID for an unknown id.
var ErrUserNotFound = errors.New("user not found")

// Users persists guest identities.
type Users struct {
	pool *pgxpool.Pool
}

func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{pool: pool}
}

// CreateUser inserts user, assigning a fresh id when it has none.
func (u *Users) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}

	q := `INSERT INTO users (id, username, is_ephemeral) VALUES ($1, $2, $3)`
	if _, err := u.pool.Exec(ctx, q, user.ID, user.Username, user.IsEphemeral); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (u *Users) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	q := `SELECT id, username, is_ephemeral FROM users WHERE id=$1`
	err := u.pool.QueryRow(ctx, q, id).Scan(&user.ID, &user.Username, &user.IsEphemeral)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
