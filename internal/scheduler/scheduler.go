package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/config"
	"github.com/mamadbah2/timeclock/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// TimesheetSource computes export rows for a date range.
type TimesheetSource interface {
	Timesheet(ctx context.Context, r models.DateRange) ([]models.TimesheetRow, error)
}

// TimesheetSink receives exported rows.
type TimesheetSink interface {
	AppendTimesheet(ctx context.Context, rows []models.TimesheetRow) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	source TimesheetSource
	sink   TimesheetSink
	cfg    config.ReportingConfig
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler creates a new scheduler instance running in the reporting timezone.
func NewScheduler(cfg config.ReportingConfig, source TimesheetSource, sink TimesheetSink, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := cfg.Location()

	// Standard 5 field parser: min, hour, dom, month, dow.
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:   c,
		source: source,
		sink:   sink,
		cfg:    cfg,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("timesheet_schedule", s.cfg.CronSchedule), zap.String("timezone", s.loc.String()))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.exportTimesheet); err != nil {
		return fmt.Errorf("schedule timesheet export %q: %w", s.cfg.CronSchedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) exportTimesheet() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	// Runs after midnight, so sessions closed late in the day are complete.
	yesterday := s.now().In(s.loc).AddDate(0, 0, -1)
	if _, err := s.ExportDay(ctx, yesterday); err != nil {
		s.logger.Error("failed to export timesheet", zap.Error(err))
	}
}

// ExportDay appends the summaries of day's calendar date to the sink.
func (s *Scheduler) ExportDay(ctx context.Context, day time.Time) (int, error) {
	date := day.In(s.loc).Format(models.DateLayout)
	s.logger.Info("exporting timesheet", zap.String("date", date))

	rows, err := s.source.Timesheet(ctx, models.DateRange{Start: date, End: date})
	if err != nil {
		return 0, fmt.Errorf("compute timesheet for %s: %w", date, err)
	}

	n, err := s.sink.AppendTimesheet(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("write timesheet for %s: %w", date, err)
	}

	s.logger.Info("timesheet exported", zap.String("date", date), zap.Int("rows", n))
	return n, nil
}
