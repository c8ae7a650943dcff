package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActionValid(t *testing.T) {
	for _, action := range AllActions {
		assert.True(t, action.Valid(), string(action))
	}
	assert.False(t, Action("coffee").Valid())
	assert.False(t, Action("").Valid())
	assert.Equal(t, "clock out", ActionClockOut.Label())
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: "2024-03-01", End: "2024-03-07"}

	assert.True(t, r.Contains("2024-03-01"))
	assert.True(t, r.Contains("2024-03-07"))
	assert.False(t, r.Contains("2024-02-29"))
	assert.False(t, r.Contains("2024-03-08"))
	assert.True(t, DateRange{}.Contains("1999-12-31"))
	assert.True(t, DateRange{End: "2024-03-07"}.Contains("2020-01-01"))
}

func TestTimeEntryDayFallsBackToTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 4, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))

	assert.Equal(t, "2024-03-04", TimeEntry{Date: "2024-03-04", Timestamp: ts}.Day())
	assert.Equal(t, "2024-03-05", TimeEntry{Timestamp: ts}.Day())
}

func TestLastDays(t *testing.T) {
	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, DateRange{Start: "2024-03-01", End: "2024-03-07"}, LastDays(now, 7, time.UTC))
}

func TestEntryPatchEmpty(t *testing.T) {
	assert.True(t, EntryPatch{}.Empty())
	staff := "jane_smith"
	assert.False(t, EntryPatch{StaffID: &staff}.Empty())
}

func TestDateRangeValidate(t *testing.T) {
	assert.NoError(t, DateRange{}.Validate())
	assert.NoError(t, DateRange{Start: "2024-03-01", End: "2024-03-01"}.Validate())
	assert.ErrorIs(t, DateRange{Start: "03/01/2024"}.Validate(), ErrValidation)
	assert.ErrorIs(t, DateRange{Start: "2024-03-08", End: "2024-03-01"}.Validate(), ErrValidation)
}
