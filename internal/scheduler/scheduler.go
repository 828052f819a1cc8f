package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/config"
	"github.com/mamadbah2/ganado/internal/domain/models"
	"github.com/mamadbah2/ganado/internal/service/reporting"
)

// Reporter builds and formats the periodic reconciliation.
type Reporter interface {
	Reconciliation(ctx context.Context, window reporting.Window) (models.ReconciliationSnapshot, error)
	FormatReconciliation(snap models.ReconciliationSnapshot) string
}

// SnapshotStore keeps a history of the reports sent.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot models.ReconciliationSnapshot) error
}

// Notifier delivers the report to the owner.
type Notifier interface {
	NotifyOwner(ctx context.Context, message string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	reporter  Reporter
	snapshots SnapshotStore
	notifier  Notifier
	cfg       config.ReportingConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler running in the configured timezone.
// A nil notifier only stores the snapshots.
func NewScheduler(cfg config.ReportingConfig, reporter Reporter, snapshots SnapshotStore, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load report timezone: %w", err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reporter:  reporter,
		snapshots: snapshots,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.cfg.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendWeeklyReport); err != nil {
		return fmt.Errorf("schedule weekly report: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendWeeklyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunWeeklyReport(ctx); err != nil {
		s.logger.Error("weekly report failed", zap.Error(err))
		return
	}
	s.logger.Info("weekly report sent successfully")
}

// RunWeeklyReport computes the last-7-days reconciliation, stores it and
// sends it to the owner.
func (s *Scheduler) RunWeeklyReport(ctx context.Context) error {
	s.logger.Info("generating weekly report")

	snap, err := s.reporter.Reconciliation(ctx, reporting.WindowWeek)
	if err != nil {
		return fmt.Errorf("compute reconciliation: %w", err)
	}

	if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("store reconciliation: %w", err)
	}

	if s.notifier == nil {
		s.logger.Debug("owner notifications disabled, snapshot stored only")
		return nil
	}

	if err := s.notifier.NotifyOwner(ctx, s.reporter.FormatReconciliation(snap)); err != nil {
		return fmt.Errorf("send weekly report: %w", err)
	}
	return nil
}
