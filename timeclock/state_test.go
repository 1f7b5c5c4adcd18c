package timeclock

import (
	"testing"
	"time"

	"timekeep/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry() *models.TimesheetEntry {
	return &models.TimesheetEntry{
		Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status: models.EntryDraft,
	}
}

func TestClockInIdempotent(t *testing.T) {
	entry := newEntry()
	m := ForEntry(entry)

	first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	m.ClockIn(first)
	m.ClockIn(first.Add(2 * time.Hour))

	require.NotNil(t, entry.ClockIn)
	assert.Equal(t, first, *entry.ClockIn)
}

func TestBreakLifecycle(t *testing.T) {
	entry := newEntry()
	m := ForEntry(entry)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	m.ClockIn(base)
	require.NoError(t, m.StartBreak(models.BreakLunch, base.Add(3*time.Hour)))

	// A second break cannot open while one is open.
	assert.ErrorIs(t, m.StartBreak(models.BreakFirst, base.Add(3*time.Hour)), ErrBreakOpen)

	// Ending a break that is not the open one fails.
	assert.ErrorIs(t, m.EndBreak(models.BreakFirst, base.Add(4*time.Hour)), ErrBreakNotOpen)

	require.NoError(t, m.EndBreak(models.BreakLunch, base.Add(3*time.Hour+30*time.Minute)))

	// The same break kind cannot be reopened.
	assert.ErrorIs(t, m.StartBreak(models.BreakLunch, base.Add(5*time.Hour)), ErrBreakUsed)

	// But another kind can.
	require.NoError(t, m.StartBreak(models.BreakFirst, base.Add(5*time.Hour)))
	require.NoError(t, m.EndBreak(models.BreakFirst, base.Add(5*time.Hour+15*time.Minute)))
}

func TestBreakInstantsMustBeOrdered(t *testing.T) {
	entry := newEntry()
	m := ForEntry(entry)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	m.ClockIn(base)

	// A break cannot start before the day's clock-in.
	assert.ErrorIs(t, m.StartBreak(models.BreakLunch, base.Add(-30*time.Minute)), ErrBreakBeforeIn)

	// An inverted break window is rejected, not recorded: 12:00 start,
	// 11:00 end would otherwise subtract negative break time and pay an
	// 8-hour shift as 9 hours.
	require.NoError(t, m.StartBreak(models.BreakLunch, base.Add(3*time.Hour)))
	assert.ErrorIs(t, m.EndBreak(models.BreakLunch, base.Add(2*time.Hour)), ErrBreakEndBeforeStart)
	assert.ErrorIs(t, m.EndBreak(models.BreakLunch, base.Add(3*time.Hour)), ErrBreakEndBeforeStart)

	require.NoError(t, m.EndBreak(models.BreakLunch, base.Add(3*time.Hour+30*time.Minute)))
	require.NoError(t, m.ClockOut(base.Add(8*time.Hour)))

	c := Compute(entry)
	assert.Equal(t, 30, c.BreakMinutes)
	assert.Equal(t, 7.50, c.RegularHours)
	assert.Equal(t, 0.00, c.OvertimeHours)
}

func TestBreakRequiresClockIn(t *testing.T) {
	m := ForEntry(newEntry())
	assert.ErrorIs(t, m.StartBreak(models.BreakLunch, time.Now()), ErrNotClockedIn)
}

func TestBreakRejectsUnknownKind(t *testing.T) {
	entry := newEntry()
	m := ForEntry(entry)
	m.ClockIn(time.Now())
	assert.ErrorIs(t, m.StartBreak("siesta", time.Now()), ErrBadBreakKind)
}

func TestClockOut(t *testing.T) {
	entry := newEntry()
	m := ForEntry(entry)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, m.ClockOut(base), ErrNotClockedIn)

	m.ClockIn(base)
	assert.ErrorIs(t, m.ClockOut(base.Add(-time.Hour)), ErrClockOutBeforeIn)
	require.NoError(t, m.ClockOut(base.Add(8*time.Hour)))
	assert.ErrorIs(t, m.ClockOut(base.Add(9*time.Hour)), ErrAlreadyClockedOut)
}

func TestClockOutLeavesOpenBreak(t *testing.T) {
	// Clocking out with a break still open succeeds; the open break is
	// left for the hours calculator to flag.
	entry := newEntry()
	m := ForEntry(entry)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	m.ClockIn(base)
	require.NoError(t, m.StartBreak(models.BreakLunch, base.Add(3*time.Hour)))
	require.NoError(t, m.ClockOut(base.Add(8*time.Hour)))

	assert.NotNil(t, entry.LunchStart)
	assert.Nil(t, entry.LunchEnd)
	kind, open := entry.OpenBreak()
	assert.True(t, open)
	assert.Equal(t, models.BreakLunch, kind)
}

func TestSubmissionCycle(t *testing.T) {
	entry := newEntry()
	m := ForEntry(entry)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// Submitting before clock-out is rejected.
	m.ClockIn(base)
	assert.ErrorIs(t, m.Submit(base.Add(8*time.Hour)), ErrNotClockedOut)

	require.NoError(t, m.ClockOut(base.Add(8*time.Hour)))
	require.NoError(t, m.Submit(base.Add(8*time.Hour)))
	assert.Equal(t, models.EntrySubmitted, entry.Status)
	assert.NotNil(t, entry.SubmittedAt)

	// A submitted entry cannot be submitted again.
	assert.ErrorIs(t, m.Submit(base.Add(9*time.Hour)), ErrAlreadySubmitted)

	decidedAt := base.Add(10 * time.Hour)
	require.NoError(t, m.Approve(decidedAt, 42, "looks right"))
	assert.Equal(t, models.EntryApproved, entry.Status)
	require.NotNil(t, entry.DecidedBy)
	assert.Equal(t, uint(42), *entry.DecidedBy)
	assert.Equal(t, "looks right", entry.DecisionComment)

	// Decisions only apply to submitted entries.
	assert.ErrorIs(t, m.Reject(decidedAt, 42, ""), ErrNotSubmitted)
}

func TestRejectThenResubmit(t *testing.T) {
	entry := newEntry()
	m := ForEntry(entry)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	m.ClockIn(base)
	require.NoError(t, m.ClockOut(base.Add(8*time.Hour)))
	require.NoError(t, m.Submit(base.Add(8*time.Hour)))
	require.NoError(t, m.Reject(base.Add(9*time.Hour), 7, "missing lunch"))

	// Reopening clears the whole submission cycle.
	m.Reopen()
	assert.Equal(t, models.EntryDraft, entry.Status)
	assert.Nil(t, entry.SubmittedAt)
	assert.Nil(t, entry.DecidedAt)
	assert.Nil(t, entry.DecidedBy)
	assert.Empty(t, entry.DecisionComment)

	require.NoError(t, m.Submit(base.Add(10*time.Hour)))
	require.NoError(t, m.Approve(base.Add(11*time.Hour), 7, ""))
}

func TestApproveRequiresSubmission(t *testing.T) {
	m := ForEntry(newEntry())
	assert.ErrorIs(t, m.Approve(time.Now(), 1, ""), ErrNotSubmitted)
}
