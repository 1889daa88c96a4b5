// Package historian moves finished rounds from the Redis queue into
// PostgreSQL in batches.
package historian

import (
	"context"
	"time"

	"github.com/jason-s-yu/gostop/internal/models"
	"github.com/sirupsen/logrus"
)

// Source yields queued rounds. ok is false when nothing arrived within timeout.
type Source interface {
	PopRound(ctx context.Context, timeout time.Duration) (rec models.RoundRecord, ok bool, err error)
}

// Sink stores a batch of rounds atomically.
type Sink interface {
	RecordRounds(ctx context.Context, recs []models.RoundRecord) error
}

// Service drains Source into Sink. A batch is flushed when it reaches
// BatchSize or when FlushDelay has passed since the last flush.
type Service struct {
	Source     Source
	Sink       Sink
	BatchSize  int
	FlushDelay time.Duration
	PopTimeout time.Duration
	// RetryDelay is the pause after a failed pop.
	RetryDelay time.Duration
	Log        logrus.FieldLogger

	batch     []models.RoundRecord
	lastFlush time.Time
}

// New returns a service with the default batch of 20 and a 500ms flush delay.
func New(src Source, sink Sink, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		Source:     src,
		Sink:       sink,
		BatchSize:  20,
		FlushDelay: 500 * time.Millisecond,
		PopTimeout: 3 * time.Second,
		RetryDelay: time.Second,
		Log:        log,
	}
}

// Run pops rounds until ctx is cancelled, then flushes what it holds.
func (hs *Service) Run(ctx context.Context) error {
	hs.Log.Info("historian started")
	hs.lastFlush = time.Now()
	for {
		select {
		case <-ctx.Done():
			hs.flush(context.Background())
			hs.Log.Info("historian shutting down")
			return ctx.Err()
		default:
		}

		rec, ok, err := hs.Source.PopRound(ctx, hs.PopTimeout)
		switch {
		case err != nil && ctx.Err() == nil:
			hs.Log.WithError(err).Error("pop round")
			hs.wait(ctx, hs.RetryDelay)
		case ok:
			hs.batch = append(hs.batch, rec)
		}

		if len(hs.batch) >= hs.BatchSize || time.Since(hs.lastFlush) >= hs.FlushDelay {
			hs.flush(ctx)
		}
	}
}

// wait sleeps for d or until ctx is cancelled.
func (hs *Service) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// flush writes the pending batch. A failed batch is kept for the next try.
func (hs *Service) flush(ctx context.Context) {
	hs.lastFlush = time.Now()
	if len(hs.batch) == 0 {
		return
	}
	if err := hs.Sink.RecordRounds(ctx, hs.batch); err != nil {
		hs.Log.WithError(err).WithField("rounds", len(hs.batch)).Error("flush rounds")
		return
	}
	hs.Log.WithField("rounds", len(hs.batch)).Info("flushed rounds")
	hs.batch = hs.batch[:0]
}
