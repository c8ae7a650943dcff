package reporting

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

// ComputeDailySummaries pairs clock_in/clock_out entries into worked hours per
// staff member and calendar date. The input order does not matter; entries of
// one staff member are stably sorted by timestamp before pairing. The input
// slice is not modified.
func ComputeDailySummaries(entries []models.TimeEntry) map[string]map[string]*models.DailySummary {
	out := make(map[string]map[string]*models.DailySummary)
	for staffID, staffEntries := range groupByStaff(entries) {
		days, _ := pairStaffEntries(staffEntries)
		out[staffID] = days
	}
	return out
}

// ComputeAnalytics aggregates entries whose date falls within dateRange.
func ComputeAnalytics(entries []models.TimeEntry, dateRange models.DateRange) models.Analytics {
	analytics := models.Analytics{
		ByStaff:  make(map[string]models.StaffTotals),
		ByAction: make(map[models.Action]int, len(models.AllActions)),
		ByDay:    make(map[string]int),
	}
	for _, action := range models.AllActions {
		analytics.ByAction[action] = 0
	}

	inRange := make([]models.TimeEntry, 0, len(entries))
	for _, entry := range entries {
		if !dateRange.Contains(entry.Day()) {
			continue
		}
		inRange = append(inRange, entry)

		if _, known := analytics.ByAction[entry.Action]; known {
			analytics.ByAction[entry.Action]++
		}
		analytics.ByDay[entry.Day()]++
	}

	analytics.TotalEntries = len(inRange)

	grouped := groupByStaff(inRange)
	analytics.UniqueStaff = len(grouped)

	for _, staffID := range sortedKeys(grouped) {
		_, hours := pairStaffEntries(grouped[staffID])
		analytics.ByStaff[staffID] = models.StaffTotals{Hours: hours, Entries: len(grouped[staffID])}
		analytics.TotalHours += hours
	}

	return analytics
}

// BuildStaffReport produces the timesheet of a single staff member over dateRange.
func BuildStaffReport(staffID string, entries []models.TimeEntry, dateRange models.DateRange) models.StaffReport {
	staffEntries := make([]models.TimeEntry, 0)
	for _, entry := range entries {
		if entry.StaffID == staffID && dateRange.Contains(entry.Day()) {
			staffEntries = append(staffEntries, entry)
		}
	}
	sortByTimestamp(staffEntries)

	days, total := pairStaffEntries(staffEntries)

	report := models.StaffReport{
		StaffID:        staffID,
		Period:         dateRange,
		TotalHours:     total,
		DailyBreakdown: days,
		Entries:        staffEntries,
	}
	if len(days) > 0 {
		report.AverageHours = total / float64(len(days))
	}
	for _, day := range days {
		report.BreaksTaken += day.Breaks
		report.LunchBreaks += day.Lunch
	}

	return report
}

// Timesheet flattens daily summaries into rows ordered by date then staff id.
func Timesheet(summaries map[string]map[string]*models.DailySummary) []models.TimesheetRow {
	var rows []models.TimesheetRow
	for staffID, days := range summaries {
		for date, summary := range days {
			rows = append(rows, models.TimesheetRow{Date: date, StaffID: staffID, Summary: *summary})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].StaffID < rows[j].StaffID
	})
	return rows
}

// pairStaffEntries runs the single left-to-right pairing pass over one staff
// member's entries, which must already be sorted by timestamp. Hours of a
// session are booked on the clock-in's date. A clock_in replaces any earlier
// unmatched one; a clock_out without an open clock_in is ignored. Negative
// intervals are kept as-is.
func pairStaffEntries(entries []models.TimeEntry) (map[string]*models.DailySummary, float64) {
	days := make(map[string]*models.DailySummary)
	var (
		total   float64
		openIn  *time.Time
		openDay string
	)

	for _, entry := range entries {
		day := entry.Day()
		summary := dayBucket(days, day)

		switch entry.Action {
		case models.ActionClockIn:
			ts := entry.Timestamp
			openIn = &ts
			openDay = day
			summary.ClockIn = &ts
		case models.ActionClockOut:
			if openIn == nil {
				continue
			}
			ts := entry.Timestamp
			hours := ts.Sub(*openIn).Seconds() / 3600
			target := dayBucket(days, openDay)
			target.Hours += hours
			target.ClockOut = &ts
			total += hours
			openIn = nil
		case models.ActionBreak:
			summary.Breaks++
		case models.ActionLunch:
			summary.Lunch++
		}
	}

	return days, total
}

func dayBucket(days map[string]*models.DailySummary, day string) *models.DailySummary {
	summary, ok := days[day]
	if !ok {
		summary = &models.DailySummary{}
		days[day] = summary
	}
	return summary
}

func groupByStaff(entries []models.TimeEntry) map[string][]models.TimeEntry {
	grouped := make(map[string][]models.TimeEntry)
	for _, entry := range entries {
		grouped[entry.StaffID] = append(grouped[entry.StaffID], entry)
	}
	for _, staffEntries := range grouped {
		sortByTimestamp(staffEntries)
	}
	return grouped
}

func sortByTimestamp(entries []models.TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FormatHours renders decimal hours as "8h 30m", "45m", "8h" or "0h 0m".
func FormatHours(hours float64) string {
	sign := ""
	if hours < 0 {
		sign = "-"
		hours = -hours
	}

	totalMinutes := int(math.Round(hours * 60))
	h, m := totalMinutes/60, totalMinutes%60

	switch {
	case h == 0 && m == 0:
		return "0h 0m"
	case h == 0:
		return sign + strconv.Itoa(m) + "m"
	case m == 0:
		return sign + strconv.Itoa(h) + "h"
	default:
		return sign + strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
	}
}
