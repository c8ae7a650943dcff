package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format stored on every time entry.
const DateLayout = "2006-01-02"

// Action enumerates the clock actions a staff member can record.
type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
	ActionBreak    Action = "break"
	ActionLunch    Action = "lunch"
)

// AllActions lists every known action in display order.
var AllActions = []Action{ActionClockIn, ActionClockOut, ActionBreak, ActionLunch}

// Valid reports whether the action is one of the known clock actions.
func (a Action) Valid() bool {
	switch a {
	case ActionClockIn, ActionClockOut, ActionBreak, ActionLunch:
		return true
	default:
		return false
	}
}

// Label renders the action for humans, e.g. "clock in".
func (a Action) Label() string {
	return strings.ReplaceAll(string(a), "_", " ")
}

// TimeEntry is one staff action persisted in the timeEntries collection.
type TimeEntry struct {
	ID        string    `bson:"-" json:"id"`
	StaffID   string    `bson:"staffId" json:"staffId"`
	Action    Action    `bson:"action" json:"action"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Date      string    `bson:"date" json:"date"`
}

// Day returns the calendar bucket of the entry: the stored date, or the UTC
// date of the timestamp when no date was stored.
func (e TimeEntry) Day() string {
	if e.Date != "" {
		return e.Date
	}
	return e.Timestamp.UTC().Format(DateLayout)
}

// DateRange is an inclusive range of calendar dates. Empty bounds are open.
type DateRange struct {
	Start string `json:"startDate"`
	End   string `json:"endDate"`
}

// Contains reports whether the date string lies within the range.
func (r DateRange) Contains(date string) bool {
	if r.Start != "" && date < r.Start {
		return false
	}
	if r.End != "" && date > r.End {
		return false
	}
	return true
}

// Validate checks both bounds use DateLayout and are ordered.
func (r DateRange) Validate() error {
	for _, bound := range []string{r.Start, r.End} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, bound); err != nil {
			return fmt.Errorf("%w: date %q must use YYYY-MM-DD", ErrValidation, bound)
		}
	}
	if r.Start != "" && r.End != "" && r.Start > r.End {
		return fmt.Errorf("%w: startDate %s is after endDate %s", ErrValidation, r.Start, r.End)
	}
	return nil
}

// LastDays returns the range covering the n days ending on now's date in loc.
func LastDays(now time.Time, n int, loc *time.Location) DateRange {
	end := now.In(loc)
	start := end.AddDate(0, 0, -(n - 1))
	return DateRange{Start: start.Format(DateLayout), End: end.Format(DateLayout)}
}

// SortOrder selects the timestamp ordering of a store query.
type SortOrder int

const (
	// SortNone keeps whatever order the store returns.
	SortNone SortOrder = iota
	SortAscending
	SortDescending
)

// EntryQuery narrows the entries returned by the store.
type EntryQuery struct {
	StaffID string
	Action  Action
	Range   DateRange
	Sort    SortOrder
	Limit   int64
}

// EntryFilter is the admin entry filter. Time bounds are "HH:MM" wall-clock values.
type EntryFilter struct {
	StaffID  string `form:"staffId" json:"staffId"`
	Action   Action `form:"action" json:"action"`
	DateFrom string `form:"dateFrom" json:"dateFrom"`
	DateTo   string `form:"dateTo" json:"dateTo"`
	TimeFrom string `form:"timeFrom" json:"timeFrom"`
	TimeTo   string `form:"timeTo" json:"timeTo"`
}

// EntryPatch carries the fields an admin may overwrite on an entry.
type EntryPatch struct {
	StaffID   *string
	Action    *Action
	Date      *string
	Timestamp *time.Time
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.StaffID == nil && p.Action == nil && p.Date == nil && p.Timestamp == nil
}
