package sheets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

// TimesheetWriter appends daily summaries to a sheet, skipping staff days
// that were already exported.
type TimesheetWriter struct {
	repo       Repository
	sheetRange string
	loc        *time.Location
	logger     *zap.Logger
}

// NewTimesheetWriter builds a writer targeting sheetRange, e.g. "Timesheet!A:G".
func NewTimesheetWriter(repository Repository, sheetRange string, loc *time.Location, logger *zap.Logger) *TimesheetWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TimesheetWriter{repo: repository, sheetRange: sheetRange, loc: loc, logger: logger}
}

// AppendTimesheet writes the rows not yet present in the sheet and returns
// how many were appended. A sheet without a header gets one first.
func (w *TimesheetWriter) AppendTimesheet(ctx context.Context, rows []models.TimesheetRow) (int, error) {
	exported, err := w.repo.ExportedDays(ctx, w.sheetRange)
	if err != nil {
		return 0, fmt.Errorf("load exported timesheet: %w", err)
	}

	var values [][]interface{}
	for _, row := range rows {
		if exported.Contains(row.Date, row.StaffID) {
			w.logger.Debug("timesheet row already exported", zap.String("date", row.Date), zap.String("staff_id", row.StaffID))
			continue
		}
		values = append(values, w.rowValues(row))
	}

	if len(values) == 0 {
		return 0, nil
	}
	if err := w.repo.AppendTimesheetRows(ctx, w.sheetRange, values, !exported.HasHeader); err != nil {
		return 0, fmt.Errorf("append timesheet: %w", err)
	}
	return len(values), nil
}

func (w *TimesheetWriter) rowValues(row models.TimesheetRow) []interface{} {
	return []interface{}{
		row.Date,
		row.StaffID,
		w.clock(row.Summary.ClockIn),
		w.clock(row.Summary.ClockOut),
		strconv.FormatFloat(row.Summary.Hours, 'f', 2, 64),
		row.Summary.Breaks,
		row.Summary.Lunch,
	}
}

func (w *TimesheetWriter) clock(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.In(w.loc).Format("15:04")
}
