package jobs

import (
	"context"
	"fmt"
	"time"

	"yamdb/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CodeCleaner drops confirmation codes whose expiry has passed.
type CodeCleaner interface {
	ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// NewScheduler registers the expired-code purge under schedule (standard five-field
// cron or a descriptor such as "@hourly").
func NewScheduler(schedule string, cleaner CodeCleaner, log *zap.Logger) (*Scheduler, error) {
	log = log.With(zap.String("component", "scheduler"))
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := PurgeExpiredCodes(ctx, cleaner, time.Now(), log); err != nil {
			log.Error("Expired code purge failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule code purge %q: %w", schedule, err)
	}

	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop prevents new runs and waits for a running job, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.log.Info("Scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out")
	}
}

// PurgeExpiredCodes is the body of the scheduled purge.
func PurgeExpiredCodes(ctx context.Context, cleaner CodeCleaner, now time.Time, log *zap.Logger) (int64, error) {
	cleared, err := cleaner.ClearExpiredCodes(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("clear expired codes: %w", err)
	}

	metrics.ExpiredCodesCleared.Add(float64(cleared))
	if cleared > 0 {
		log.Info("Expired confirmation codes purged", zap.Int64("count", cleared))
	}
	return cleared, nil
}
