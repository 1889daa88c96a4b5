// cmd/historian is an asynchronous service that pops finished rounds from a
// Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jason-s-yu/gostop/internal/cache"
	"github.com/jason-s-yu/gostop/internal/database"
	"github.com/jason-s-yu/gostop/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.ConnectRedisFromEnv(ctx)
	if err != nil {
		logger.Fatal(err)
	}
	defer rdb.Close()

	pool, err := database.ConnectDB(ctx, database.ConnString())
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal(err)
	}

	hs := historian.New(cache.NewRoundQueue(rdb), database.NewRoundHistory(pool), logger)
	hs.BatchSize = getEnvInt("HISTORIAN_BATCH_SIZE", hs.BatchSize)
	hs.FlushDelay = time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond

	if err := hs.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal(err)
	}
	logger.Info("historian shutdown complete")
}

// getEnvInt retrieves an integer value from an environment variable or returns a default value.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}
