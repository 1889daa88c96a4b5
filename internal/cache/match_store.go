// internal/cache/match_store.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrMatchExists is returned by Create when the key is already taken.
var ErrMatchExists = errors.New("match already exists")

// MatchStore keeps each match record as one JSON value. Conditional writes
// WATCH the key, compare the stored version and commit in MULTI/EXEC.
type MatchStore struct {
	rdb *redis.Client
	// TTL expires idle matches. Zero keeps them forever.
	TTL time.Duration
}

func NewMatchStore(rdb *redis.Client, ttl time.Duration) *MatchStore {
	return &MatchStore{rdb: rdb, TTL: ttl}
}

func matchKey(id uuid.UUID) string { return "gostop:match:" + id.String() }

func (s *MatchStore) Create(ctx context.Context, m *models.MatchState) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}
	ok, err := s.rdb.SetNX(ctx, matchKey(m.MatchID), data, s.TTL).Result()
	if err != nil {
		return fmt.Errorf("store match %s: %w", m.MatchID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchExists, m.MatchID)
	}
	return nil
}

func (s *MatchStore) Load(ctx context.Context, id uuid.UUID) (*models.MatchState, error) {
	return load(ctx, s.rdb, id)
}

func (s *MatchStore) CompareAndSwap(ctx context.Context, m *models.MatchState, expected int64) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}
	key := matchKey(m.MatchID)

	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := load(ctx, tx, m.MatchID)
		if err != nil {
			return err
		}
		if cur.Version != expected {
			return models.ErrVersionMismatch
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.TTL)
			return nil
		})
		return err
	}, key)

	// Another client touched the key between WATCH and EXEC.
	if errors.Is(err, redis.TxFailedErr) {
		return models.ErrVersionMismatch
	}
	return err
}

// Delete removes a match.
func (s *MatchStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.rdb.Del(ctx, matchKey(id)).Err()
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, c getter, id uuid.UUID) (*models.MatchState, error) {
	data, err := c.Get(ctx, matchKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", id, err)
	}
	var m models.MatchState
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal match %s: %w", id, err)
	}
	return &m, nil
}
