package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

// defaultWindowDays is used when a caller omits both range bounds.
const defaultWindowDays = 7

// EntryFinder is the read side of the time entry store.
type EntryFinder interface {
	FindEntries(ctx context.Context, query models.EntryQuery) ([]models.TimeEntry, error)
}

// Service exposes dashboard analytics computed from a single store query per call.
type Service struct {
	repo   EntryFinder
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(repository EntryFinder, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repository, loc: loc, logger: logger, now: time.Now}
}

// Location returns the calendar timezone used for wall-clock rendering.
func (s *Service) Location() *time.Location {
	return s.loc
}

// ResolveRange fills an empty range with the last week and validates the bounds.
func (s *Service) ResolveRange(r models.DateRange) (models.DateRange, error) {
	if r.Start == "" && r.End == "" {
		r = models.LastDays(s.now(), defaultWindowDays, s.loc)
	}
	if err := r.Validate(); err != nil {
		return models.DateRange{}, err
	}
	return r, nil
}

// Analytics aggregates all entries within the range.
func (s *Service) Analytics(ctx context.Context, r models.DateRange) (models.Analytics, error) {
	r, err := s.ResolveRange(r)
	if err != nil {
		return models.Analytics{}, err
	}

	entries, err := s.repo.FindEntries(ctx, models.EntryQuery{Range: r})
	if err != nil {
		return models.Analytics{}, fmt.Errorf("load entries for analytics: %w", err)
	}

	analytics := ComputeAnalytics(entries, r)
	s.logger.Debug("analytics computed",
		zap.String("start", r.Start),
		zap.String("end", r.End),
		zap.Int("entries", analytics.TotalEntries),
		zap.Float64("hours", analytics.TotalHours))

	return analytics, nil
}

// StaffReport builds the timesheet of one staff member within the range.
func (s *Service) StaffReport(ctx context.Context, staffID string, r models.DateRange) (models.StaffReport, error) {
	if staffID == "" {
		return models.StaffReport{}, fmt.Errorf("%w: missing staffId", models.ErrValidation)
	}

	r, err := s.ResolveRange(r)
	if err != nil {
		return models.StaffReport{}, err
	}

	entries, err := s.repo.FindEntries(ctx, models.EntryQuery{StaffID: staffID, Range: r, Sort: models.SortAscending})
	if err != nil {
		return models.StaffReport{}, fmt.Errorf("load entries for staff report: %w", err)
	}

	return BuildStaffReport(staffID, entries, r), nil
}

// DailySummaries returns the per staff, per day summaries within the range.
func (s *Service) DailySummaries(ctx context.Context, r models.DateRange) (map[string]map[string]*models.DailySummary, error) {
	r, err := s.ResolveRange(r)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindEntries(ctx, models.EntryQuery{Range: r})
	if err != nil {
		return nil, fmt.Errorf("load entries for summaries: %w", err)
	}

	return ComputeDailySummaries(entries), nil
}

// Timesheet returns the summaries of the range as export rows.
func (s *Service) Timesheet(ctx context.Context, r models.DateRange) ([]models.TimesheetRow, error) {
	summaries, err := s.DailySummaries(ctx, r)
	if err != nil {
		return nil, err
	}
	return Timesheet(summaries), nil
}

// Entries lists entries matching the filter, most recent first.
func (s *Service) Entries(ctx context.Context, filter models.EntryFilter) ([]models.TimeEntry, error) {
	if filter.Action != "" && !filter.Action.Valid() {
		return nil, fmt.Errorf("%w: invalid action %q", models.ErrValidation, filter.Action)
	}

	r := models.DateRange{Start: filter.DateFrom, End: filter.DateTo}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	for _, bound := range []string{filter.TimeFrom, filter.TimeTo} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(clockLayout, bound); err != nil {
			return nil, fmt.Errorf("%w: time %q must use HH:MM", models.ErrValidation, bound)
		}
	}

	entries, err := s.repo.FindEntries(ctx, models.EntryQuery{
		StaffID: filter.StaffID,
		Action:  filter.Action,
		Range:   r,
		Sort:    models.SortDescending,
	})
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	return FilterEntries(entries, filter, s.loc), nil
}
