// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/gostop/internal/auth"
	"github.com/jason-s-yu/gostop/internal/cache"
	"github.com/jason-s-yu/gostop/internal/config"
	"github.com/jason-s-yu/gostop/internal/database"
	"github.com/jason-s-yu/gostop/internal/handlers"
	"github.com/jason-s-yu/gostop/internal/match"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	logger.SetLevel(cfg.Level())
	if cfg.Production() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	ttl, err := auth.ParseTokenExpireTime(cfg.TokenExpire)
	if err != nil {
		logger.Fatal(err)
	}
	if cfg.SigningKeyPath != "" {
		err = auth.InitFromPath(cfg.SigningKeyPath, ttl)
	} else {
		err = auth.Init(ttl)
	}
	if err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, users, cleanup, err := buildService(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("state backend: %v", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewServer(svc, users, logger).Routes(cfg.Origins()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if !cfg.Production() {
		// otherwise bind to localhost
		srv.Addr = "localhost:" + cfg.Port
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithFields(logrus.Fields{"addr": srv.Addr, "backend": cfg.Backend}).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
}

// buildService picks the match store and history recorder for cfg.Backend.
func buildService(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*match.Service, handlers.UserStore, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		connStr := cfg.DatabaseURL
		if connStr == "" {
			connStr = database.ConnString()
		}
		pool, err := database.ConnectDB(ctx, connStr)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		svc := match.NewService(database.NewMatchStore(pool), logger)
		svc.Deadlines = cfg.Deadlines
		svc.History = database.NewRoundHistory(pool)
		return svc, database.NewUsers(pool), pool.Close, nil

	case config.BackendRedis:
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, err
		}
		svc := match.NewService(cache.NewMatchStore(rdb, cfg.MatchTTL), logger)
		svc.Deadlines = cfg.Deadlines
		if cfg.HistoryQueue {
			// cmd/historian moves queued rounds into Postgres.
			svc.History = cache.NewRoundQueue(rdb)
		}
		return svc, nil, func() { rdb.Close() }, nil
	}

	svc := match.NewService(match.NewMemoryStore(), logger)
	svc.Deadlines = cfg.Deadlines
	return svc, nil, func() {}, nil
}
