package reporting

import (
	"time"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

const clockLayout = "15:04"

// FilterEntries keeps the entries matching every non-empty filter field, in
// input order. Time bounds compare the timestamp's wall clock in loc.
func FilterEntries(entries []models.TimeEntry, filter models.EntryFilter, loc *time.Location) []models.TimeEntry {
	if loc == nil {
		loc = time.UTC
	}

	filtered := make([]models.TimeEntry, 0, len(entries))
	for _, entry := range entries {
		if filter.StaffID != "" && entry.StaffID != filter.StaffID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if filter.DateFrom != "" && entry.Day() < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && entry.Day() > filter.DateTo {
			continue
		}
		if filter.TimeFrom != "" || filter.TimeTo != "" {
			wall := entry.Timestamp.In(loc).Format(clockLayout)
			if filter.TimeFrom != "" && wall < filter.TimeFrom {
				continue
			}
			if filter.TimeTo != "" && wall > filter.TimeTo {
				continue
			}
		}
		filtered = append(filtered, entry)
	}
	return filtered
}
