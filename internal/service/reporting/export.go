package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

const (
	exportTimeLayout = "2006-01-02 15:04:05"
	entriesSheet     = "Entries"
)

var entryHeader = []string{"Staff ID", "Action", "Date", "Time"}

// WriteEntriesCSV writes one line per entry with local timestamps.
func WriteEntriesCSV(w io.Writer, entries []models.TimeEntry, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(entryHeader); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := cw.Write(entryRow(entry, loc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStaffReportCSV writes the staff report header block followed by the
// daily breakdown ordered by date.
func WriteStaffReportCSV(w io.Writer, report models.StaffReport, loc *time.Location) error {
	cw := csv.NewWriter(w)

	lines := [][]string{
		{"Report Type", "Staff Report"},
		{"Staff ID", report.StaffID},
		{"Period Start", report.Period.Start},
		{"Period End", report.Period.End},
		{"Total Hours", formatDecimal(report.TotalHours)},
		{"Average Hours", formatDecimal(report.AverageHours)},
		{"Breaks Taken", strconv.Itoa(report.BreaksTaken)},
		{"Lunch Breaks", strconv.Itoa(report.LunchBreaks)},
		{""},
		{"Daily Breakdown"},
		{"Date", "Clock In", "Clock Out", "Hours", "Breaks", "Lunch"},
	}
	for _, date := range sortedKeys(report.DailyBreakdown) {
		day := report.DailyBreakdown[date]
		lines = append(lines, []string{
			date,
			formatClock(day.ClockIn, loc),
			formatClock(day.ClockOut, loc),
			formatDecimal(day.Hours),
			strconv.Itoa(day.Breaks),
			strconv.Itoa(day.Lunch),
		})
	}

	if err := cw.WriteAll(lines); err != nil {
		return fmt.Errorf("write staff report csv: %w", err)
	}
	return nil
}

// EntriesXLSX renders the entries into a single-sheet workbook.
func EntriesXLSX(entries []models.TimeEntry, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", entriesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(entryHeader))
	for i, col := range entryHeader {
		header[i] = col
	}
	if err := f.SetSheetRow(entriesSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := entryRow(entry, loc)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(entriesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func entryRow(entry models.TimeEntry, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	return []string{
		entry.StaffID,
		string(entry.Action),
		entry.Day(),
		entry.Timestamp.In(loc).Format(exportTimeLayout),
	}
}

func formatClock(ts *time.Time, loc *time.Location) string {
	if ts == nil {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc).Format(clockLayout)
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
