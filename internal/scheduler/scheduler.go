package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/cantine/internal/config"
	"github.com/mamadbah2/cantine/internal/entry"
	"github.com/mamadbah2/cantine/internal/service/reporting"
)

// Scheduler manages the recurring jobs: refreshing the active-hospital list
// and exporting the weekly production report.
type Scheduler struct {
	cron         *cron.Cron
	form         *entry.Form
	reportingSvc *reporting.Service
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. Cron expressions run in the
// configured timezone so "20:00 Friday" means kitchen-local time.
func NewScheduler(cfg config.ReportingConfig, form *entry.Form, reportingSvc *reporting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		form:         form,
		reportingSvc: reportingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("refresh", s.cfg.RefreshCronSchedule),
		zap.String("export", s.cfg.ExportCronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.RefreshCronSchedule, s.refreshHospitals); err != nil {
		s.logger.Error("failed to schedule hospital refresh", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.cfg.ExportCronSchedule, s.exportWeeklyReport); err != nil {
		s.logger.Error("failed to schedule weekly export", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// refreshHospitals re-fetches the hospital list so the form stays 1:1 with
// the active set. Pending edits are discarded when the list changes.
func (s *Scheduler) refreshHospitals() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.form.LoadHospitals(ctx); err != nil {
		s.logger.Error("scheduled hospital refresh failed", zap.Error(err))
	}
}

func (s *Scheduler) exportWeeklyReport() {
	s.logger.Info("generating weekly report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	if err := s.reportingSvc.ExportWeeklyReport(ctx, now); err != nil {
		s.logger.Error("failed to export weekly report", zap.Error(err))
		return
	}

	summary, err := s.reportingSvc.WeeklySummary(ctx, now)
	if err != nil {
		s.logger.Error("failed to generate weekly summary", zap.Error(err))
		return
	}
	s.logger.Info("weekly report complete", zap.String("summary", summary))
}
