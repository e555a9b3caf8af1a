package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/internal/infrastructure/reportstore"
	reportUC "github.com/kabulqd1101/kanban/usecase/report"
)

// SchedulerConfig controls when the weekly report is produced and how
// long archived reports are retained.
type SchedulerConfig struct {
	Spec      string
	Timeout   time.Duration
	Retention time.Duration
}

// ReportScheduler generates the weekly report on a cron schedule and
// prunes the archive. Results land in the archive through the report
// service; a run that overlaps a user-triggered generation is simply
// refused by the in-flight guard and retried at the next tick.
type ReportScheduler struct {
	reports *reportUC.Service
	archive *reportstore.Store
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     SchedulerConfig
}

func NewReportScheduler(reports *reportUC.Service, archive *reportstore.Store, logger *zap.Logger, cfg SchedulerConfig) *ReportScheduler {
	if cfg.Spec == "" {
		cfg.Spec = "0 18 * * FRI"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := &ReportScheduler{
		reports: reports,
		archive: archive,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(),
	}

	_, err := rs.cron.AddFunc(cfg.Spec, rs.run)
	if err != nil {
		logger.Error("invalid report schedule, scheduler disabled",
			zap.String("spec", cfg.Spec), zap.Error(err))
		rs.cron = nil
	}
	return rs
}

// Start launches the cron scheduler.
func (rs *ReportScheduler) Start() {
	if rs == nil || rs.cron == nil {
		return
	}
	rs.cron.Start()
	rs.logger.Info("report scheduler started", zap.String("spec", rs.cfg.Spec))
}

// Stop gracefully stops the scheduler.
func (rs *ReportScheduler) Stop(ctx context.Context) {
	if rs == nil || rs.cron == nil {
		return
	}
	stopCtx := rs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	rs.logger.Info("report scheduler stopped")
}

func (rs *ReportScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), rs.cfg.Timeout)
	defer cancel()

	if _, err := rs.reports.WeeklyReport(ctx, ""); err != nil {
		rs.logger.Warn("scheduled weekly report skipped", zap.Error(err))
	} else {
		rs.logger.Info("scheduled weekly report generated")
	}

	if rs.archive != nil && rs.cfg.Retention > 0 {
		if err := rs.archive.Cleanup(time.Now().Add(-rs.cfg.Retention)); err != nil {
			rs.logger.Warn("report archive cleanup failed", zap.Error(err))
		}
	}
}
