package timeclock

import (
	"testing"
	"time"

	"timekeep/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", "2025-03-10 "+clock)
	require.NoError(t, err)
	return parsed
}

func entryWith(t *testing.T, clockIn, clockOut string) *models.TimesheetEntry {
	t.Helper()
	entry := &models.TimesheetEntry{
		Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status: models.EntryDraft,
	}
	if clockIn != "" {
		in := at(t, clockIn)
		entry.ClockIn = &in
	}
	if clockOut != "" {
		out := at(t, clockOut)
		entry.ClockOut = &out
	}
	return entry
}

func TestComputeDayWithLunch(t *testing.T) {
	// 09:00-18:00 with a 30 minute lunch: 8.5 worked hours, so half an
	// hour of overtime past the 8h threshold.
	entry := entryWith(t, "09:00", "18:00")
	lunchStart, lunchEnd := at(t, "12:00"), at(t, "12:30")
	entry.LunchStart, entry.LunchEnd = &lunchStart, &lunchEnd

	c := Compute(entry)

	assert.Equal(t, 540, c.WorkedMinutes)
	assert.Equal(t, 30, c.BreakMinutes)
	assert.Equal(t, 8.00, c.RegularHours)
	assert.Equal(t, 0.50, c.OvertimeHours)
	assert.Equal(t, 0.50, c.BreakHours)
	assert.Equal(t, 8.50, c.TotalPaidHours)
	assert.Empty(t, c.Warnings)
}

func TestComputeUnderThreshold(t *testing.T) {
	entry := entryWith(t, "09:00", "16:30")

	c := Compute(entry)

	assert.Equal(t, 7.50, c.RegularHours)
	assert.Equal(t, 0.00, c.OvertimeHours)
	assert.Equal(t, 7.50, c.TotalPaidHours)
}

func TestComputeRegularPlusOvertimeEqualsWorked(t *testing.T) {
	for _, clockOut := range []string{"15:00", "17:00", "19:45", "21:13"} {
		entry := entryWith(t, "09:00", clockOut)
		c := Compute(entry)
		worked := float64(c.WorkedMinutes) / 60
		assert.InDelta(t, worked, c.RegularHours+c.OvertimeHours, 0.01, "clock out %s", clockOut)
		if worked <= DailyThresholdHours {
			assert.Equal(t, 0.00, c.OvertimeHours)
		} else {
			assert.Equal(t, 8.00, c.RegularHours)
		}
	}
}

func TestComputePureLeaveDay(t *testing.T) {
	// No clock activity at all: the day is paid purely from leave hours.
	entry := entryWith(t, "", "")
	entry.VacationHours = 8

	c := Compute(entry)

	assert.Equal(t, 0, c.WorkedMinutes)
	assert.Equal(t, 0.00, c.RegularHours)
	assert.Equal(t, 0.00, c.OvertimeHours)
	assert.Equal(t, 8.00, c.TotalPaidHours)
}

func TestComputeStackedLeaveOnWorkedDay(t *testing.T) {
	entry := entryWith(t, "09:00", "13:00")
	entry.SickHours = 4

	c := Compute(entry)

	assert.Equal(t, 4.00, c.RegularHours)
	assert.Equal(t, 8.00, c.TotalPaidHours)
	assert.GreaterOrEqual(t, c.TotalPaidHours, c.RegularHours+c.OvertimeHours)
}

func TestComputeOpenBreakWarning(t *testing.T) {
	// A break left open past clock-out contributes nothing to break time
	// and is flagged for review.
	entry := entryWith(t, "09:00", "17:00")
	open := at(t, "12:00")
	entry.LunchStart = &open

	c := Compute(entry)

	assert.Equal(t, 0, c.BreakMinutes)
	assert.Equal(t, 8.00, c.RegularHours)
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0], "lunch")
}

func TestComputeMissingClockOut(t *testing.T) {
	entry := entryWith(t, "09:00", "")
	entry.HolidayHours = 8

	c := Compute(entry)

	assert.Equal(t, 0, c.WorkedMinutes)
	assert.Equal(t, 0.00, c.RegularHours)
	assert.Equal(t, 8.00, c.TotalPaidHours)
	assert.Empty(t, c.Warnings)
}

func TestComputeBreaksLongerThanShift(t *testing.T) {
	// Breaks exceeding the worked window clamp the worked hours at zero.
	entry := entryWith(t, "09:00", "09:30")
	lunchStart, lunchEnd := at(t, "09:00"), at(t, "10:30")
	entry.LunchStart, entry.LunchEnd = &lunchStart, &lunchEnd

	c := Compute(entry)

	assert.Equal(t, 0.00, c.RegularHours)
	assert.Equal(t, 0.00, c.OvertimeHours)
	assert.Equal(t, 0.00, c.TotalPaidHours)
}

func TestComputeRounding(t *testing.T) {
	// 09:00 to 17:20 is 8h20m = 8.333... hours.
	entry := entryWith(t, "09:00", "17:20")

	c := Compute(entry)

	assert.Equal(t, 8.00, c.RegularHours)
	assert.Equal(t, 0.33, c.OvertimeHours)
}

func TestApplyWritesDerivedFields(t *testing.T) {
	entry := entryWith(t, "09:00", "18:00")
	entry.VacationHours = 1

	Compute(entry).Apply(entry)

	assert.Equal(t, 8.00, entry.RegularHours)
	assert.Equal(t, 1.00, entry.OvertimeHours)
	assert.Equal(t, 10.00, entry.TotalPaidHours)
}
