// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jason-s-yu/gostop/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// DefaultQueueName is the Redis list finished rounds are pushed onto.
var DefaultQueueName = "gostop_rounds"

// ConnectRedisFromEnv connects using environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedisFromEnv(ctx context.Context) (*redis.Client, error) {
	return ConnectRedis(ctx, getEnv("REDIS_ADDR", "localhost:6379"), getEnvInt("REDIS_DB", 0))
}

// ConnectRedis initializes the global Redis client and pings it.
func ConnectRedis(ctx context.Context, addr string, dbIdx int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	Rdb = rdb
	return rdb, nil
}

// RoundQueue hands finished rounds to the historian through a Redis list.
type RoundQueue struct {
	rdb  *redis.Client
	name string
	// Log receives payloads that were popped but could not be decoded.
	Log logrus.FieldLogger
}

// NewRoundQueue uses HISTORIAN_QUEUE_NAME, or DefaultQueueName when unset.
func NewRoundQueue(rdb *redis.Client) *RoundQueue {
	return &RoundQueue{
		rdb:  rdb,
		name: getEnv("HISTORIAN_QUEUE_NAME", DefaultQueueName),
		Log:  logrus.StandardLogger(),
	}
}

// RecordRound serializes rec and pushes it onto the queue.
func (q *RoundQueue) RecordRound(ctx context.Context, rec models.RoundRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal round record: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", q.name, err)
	}
	return nil
}

// PopRound blocks up to timeout for the next round. It returns ok=false when
// nothing arrived in time.
func (q *RoundQueue) PopRound(ctx context.Context, timeout time.Duration) (models.RoundRecord, bool, error) {
	res, err := q.rdb.BLPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return models.RoundRecord{}, false, nil
	}
	if err != nil {
		return models.RoundRecord{}, false, err
	}
	// res[0] is the queue name and res[1] the payload.
	if len(res) < 2 {
		return models.RoundRecord{}, false, nil
	}
	var rec models.RoundRecord
	if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
		q.Log.WithFields(logrus.Fields{
			"queue":   q.name,
			"payload": res[1],
		}).WithError(err).Error("dropping undecodable round record")
		return models.RoundRecord{}, false, fmt.Errorf("invalid round record: %w", err)
	}
	return rec, true, nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
