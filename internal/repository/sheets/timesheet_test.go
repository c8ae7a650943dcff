package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

type fakeSheet struct {
	existing [][]interface{}
	readErr  error
	appended [][]interface{}
	calls    int
}

func (f *fakeSheet) ExportedDays(context.Context, string) (*ExportedDays, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return indexExportedDays(f.existing), nil
}

func (f *fakeSheet) AppendTimesheetRows(_ context.Context, _ string, rows [][]interface{}, withHeader bool) error {
	f.calls++
	if withHeader {
		f.appended = append(f.appended, TimesheetHeader)
	}
	f.appended = append(f.appended, rows...)
	return nil
}

func summaryRow(date, staffID string, hours float64) models.TimesheetRow {
	in := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	return models.TimesheetRow{
		Date:    date,
		StaffID: staffID,
		Summary: models.DailySummary{ClockIn: &in, Hours: hours, Lunch: 1},
	}
}

func TestAppendTimesheetWritesHeaderOnEmptySheet(t *testing.T) {
	sheet := &fakeSheet{}
	w := NewTimesheetWriter(sheet, "Timesheet!A:G", time.FixedZone("UTC+1", 3600), nil)

	n, err := w.AppendTimesheet(context.Background(), []models.TimesheetRow{summaryRow("2024-03-04", "john_doe", 8)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, sheet.appended, 2)
	assert.Equal(t, TimesheetHeader, sheet.appended[0])
	assert.Equal(t, []interface{}{"2024-03-04", "john_doe", "10:00", "", "8.00", 0, 1}, sheet.appended[1])
}

func TestAppendTimesheetSkipsExportedRows(t *testing.T) {
	sheet := &fakeSheet{existing: [][]interface{}{
		TimesheetHeader,
		{"2024-03-04", "john_doe", "09:00", "17:00", "8.00", "0", "1"},
	}}
	w := NewTimesheetWriter(sheet, "Timesheet!A:G", nil, nil)

	n, err := w.AppendTimesheet(context.Background(), []models.TimesheetRow{
		summaryRow("2024-03-04", "john_doe", 8),
		summaryRow("2024-03-04", "jane_smith", 7.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, sheet.appended, 1)
	assert.Equal(t, "jane_smith", sheet.appended[0][1])
}

func TestAppendTimesheetNothingNew(t *testing.T) {
	sheet := &fakeSheet{existing: [][]interface{}{TimesheetHeader, {"2024-03-04", "john_doe"}}}
	w := NewTimesheetWriter(sheet, "Timesheet!A:G", nil, nil)

	n, err := w.AppendTimesheet(context.Background(), []models.TimesheetRow{summaryRow("2024-03-04", "john_doe", 8)})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, sheet.calls)
}

func TestAppendTimesheetReadFailure(t *testing.T) {
	sheet := &fakeSheet{readErr: errors.New("quota exceeded")}
	w := NewTimesheetWriter(sheet, "Timesheet!A:G", nil, nil)

	_, err := w.AppendTimesheet(context.Background(), []models.TimesheetRow{summaryRow("2024-03-04", "john_doe", 8)})
	require.Error(t, err)
	assert.Zero(t, sheet.calls)
}

func TestIndexExportedDays(t *testing.T) {
	days := indexExportedDays([][]interface{}{
		TimesheetHeader,
		{"2024-03-04", "john_doe", "09:00"},
		{"2024-03-04"},
		{},
		{"2024-03-05", "jane_smith"},
	})

	assert.True(t, days.HasHeader)
	assert.Equal(t, 2, days.Len())
	assert.True(t, days.Contains("2024-03-04", "john_doe"))
	assert.True(t, days.Contains("2024-03-05", "jane_smith"))
	assert.False(t, days.Contains("2024-03-05", "john_doe"))

	headerless := indexExportedDays([][]interface{}{{"2024-03-04", "john_doe"}})
	assert.False(t, headerless.HasHeader)
	assert.True(t, headerless.Contains("2024-03-04", "john_doe"))
}
