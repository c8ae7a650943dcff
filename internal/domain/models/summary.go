package models

import "time"

// DailySummary aggregates one staff member's entries for one calendar date.
type DailySummary struct {
	ClockIn  *time.Time `json:"clockIn"`
	ClockOut *time.Time `json:"clockOut"`
	Hours    float64    `json:"hours"`
	Breaks   int        `json:"breaks"`
	Lunch    int        `json:"lunch"`
}

// StaffTotals is the per-staff slice of Analytics.
type StaffTotals struct {
	Hours   float64 `json:"hours"`
	Entries int     `json:"entries"`
}

// Analytics aggregates entries over a date range.
type Analytics struct {
	TotalEntries int                    `json:"totalEntries"`
	UniqueStaff  int                    `json:"uniqueStaff"`
	TotalHours   float64                `json:"totalHours"`
	ByStaff      map[string]StaffTotals `json:"byStaff"`
	ByAction     map[Action]int         `json:"byAction"`
	ByDay        map[string]int         `json:"byDay"`
}

// StaffReport is the per-staff timesheet over a date range.
type StaffReport struct {
	StaffID        string                   `json:"staffId"`
	Period         DateRange                `json:"period"`
	TotalHours     float64                  `json:"totalHours"`
	AverageHours   float64                  `json:"averageHours"`
	BreaksTaken    int                      `json:"breaksTaken"`
	LunchBreaks    int                      `json:"lunchBreaks"`
	DailyBreakdown map[string]*DailySummary `json:"dailyBreakdown"`
	Entries        []TimeEntry              `json:"entries"`
}

// TimesheetRow is one exported staff/day line.
type TimesheetRow struct {
	Date    string
	StaffID string
	Summary DailySummary
}
