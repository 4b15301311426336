// Package maintenance фоновые задачи обслуживания хранилища событий
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const purgeTimeout = time.Minute

// Scheduler периодически удаляет неповторяющиеся события старше retentionDays
type Scheduler struct {
	cron          *cron.Cron
	purger        EventPurger
	retentionDays int
	metrics       MetricsRecorder
	logger        Logger
	now           func() time.Time
}

// NewScheduler создает планировщик; задача регистрируется по cron выражению schedule
// Пересекающиеся запуски пропускаются
func NewScheduler(
	schedule string,
	retentionDays int,
	purger EventPurger,
	metrics MetricsRecorder,
	logger Logger,
) (*Scheduler, error) {
	if metrics == nil {
		metrics = noopMetrics{}
	}

	s := &Scheduler{
		cron:          cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		purger:        purger,
		retentionDays: retentionDays,
		metrics:       metrics,
		logger:        logger,
		now:           time.Now,
	}

	if _, err := s.cron.AddFunc(schedule, s.runPurge); err != nil {
		return nil, fmt.Errorf("maintenance: invalid schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Maintenance: scheduler started, retention_days=%d", s.retentionDays)
}

// Stop останавливает планировщик и ждёт завершения текущей задачи или отмены ctx
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Maintenance: scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Maintenance: scheduler stop timed out: %v", ctx.Err())
	}
}

func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	if _, err := s.PurgeNow(ctx); err != nil {
		s.logger.Error("Maintenance: purge failed: %v", err)
	}
}

// PurgeNow выполняет очистку немедленно
func (s *Scheduler) PurgeNow(ctx context.Context) (int64, error) {
	start := time.Now()

	deleted, err := s.purger.PurgeExpired(ctx, s.now(), s.retentionDays)
	if err != nil {
		return 0, err
	}

	s.metrics.RecordPurgedEvents(deleted)
	s.logger.Info("Maintenance: purged %d expired events in %s", deleted, time.Since(start))
	return deleted, nil
}
