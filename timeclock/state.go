package timeclock

import (
	"errors"
	"time"

	"timekeep/models"
)

var (
	ErrNotClockedIn        = errors.New("no open clock-in for this day")
	ErrAlreadyClockedOut   = errors.New("already clocked out")
	ErrClockOutBeforeIn    = errors.New("clock-out must be after clock-in")
	ErrBreakOpen           = errors.New("a break is already open")
	ErrBreakNotOpen        = errors.New("no open break of that kind")
	ErrBreakUsed           = errors.New("break of that kind already taken")
	ErrBreakBeforeIn       = errors.New("break cannot start before clock-in")
	ErrBreakEndBeforeStart = errors.New("break end must be after break start")
	ErrBadBreakKind        = errors.New("unknown break kind")
	ErrNotClockedOut       = errors.New("cannot submit before clocking out")
	ErrAlreadySubmitted    = errors.New("entry already submitted")
	ErrNotSubmitted        = errors.New("entry is not awaiting a decision")
)

// Machine drives one day's clock and submission transitions on a single
// timesheet entry. It only mutates the wrapped entry; loading the row
// and persisting it afterwards belong to the caller, which is also
// responsible for serializing concurrent operations on the same
// (employee, date) key.
type Machine struct {
	entry *models.TimesheetEntry
}

func ForEntry(entry *models.TimesheetEntry) *Machine {
	return &Machine{entry: entry}
}

// ClockIn records the day's first clock-in. A repeated call is a no-op:
// the original instant is never overwritten.
func (m *Machine) ClockIn(at time.Time) {
	if m.entry.ClockIn != nil {
		return
	}
	m.entry.ClockIn = &at
	m.reopenIfDecided()
}

// StartBreak opens the given break. It requires an active clock-in, no
// other open break, and that this break kind has not already been taken;
// a second concurrent break is rejected rather than silently overwriting.
func (m *Machine) StartBreak(kind models.BreakKind, at time.Time) error {
	if !kind.Valid() {
		return ErrBadBreakKind
	}
	if m.entry.ClockIn == nil {
		return ErrNotClockedIn
	}
	if m.entry.ClockOut != nil {
		return ErrAlreadyClockedOut
	}
	if _, open := m.entry.OpenBreak(); open {
		return ErrBreakOpen
	}
	if start, _ := m.entry.Break(kind); start != nil {
		return ErrBreakUsed
	}
	if at.Before(*m.entry.ClockIn) {
		return ErrBreakBeforeIn
	}
	m.entry.SetBreakStart(kind, at)
	m.reopenIfDecided()
	return nil
}

// EndBreak closes the open break of the given kind.
func (m *Machine) EndBreak(kind models.BreakKind, at time.Time) error {
	if !kind.Valid() {
		return ErrBadBreakKind
	}
	start, end := m.entry.Break(kind)
	if start == nil || end != nil {
		return ErrBreakNotOpen
	}
	if !at.After(*start) {
		return ErrBreakEndBeforeStart
	}
	m.entry.SetBreakEnd(kind, at)
	m.reopenIfDecided()
	return nil
}

// ClockOut ends the working day. An open break is left as-is: the hours
// calculator surfaces it as a warning for human review instead of the
// machine guessing when the break ended.
func (m *Machine) ClockOut(at time.Time) error {
	if m.entry.ClockIn == nil {
		return ErrNotClockedIn
	}
	if m.entry.ClockOut != nil {
		return ErrAlreadyClockedOut
	}
	if !at.After(*m.entry.ClockIn) {
		return ErrClockOutBeforeIn
	}
	m.entry.ClockOut = &at
	m.reopenIfDecided()
	return nil
}

// Submit moves a draft entry into review. The day must be closed first.
func (m *Machine) Submit(at time.Time) error {
	if m.entry.Status != models.EntryDraft {
		return ErrAlreadySubmitted
	}
	if m.entry.ClockOut == nil {
		return ErrNotClockedOut
	}
	m.entry.Status = models.EntrySubmitted
	m.entry.SubmittedAt = &at
	return nil
}

// Approve records an approval decision on a submitted entry.
func (m *Machine) Approve(at time.Time, reviewerID uint, comment string) error {
	return m.decide(models.EntryApproved, at, reviewerID, comment)
}

// Reject records a rejection decision on a submitted entry.
func (m *Machine) Reject(at time.Time, reviewerID uint, comment string) error {
	return m.decide(models.EntryRejected, at, reviewerID, comment)
}

func (m *Machine) decide(status models.EntryStatus, at time.Time, reviewerID uint, comment string) error {
	if m.entry.Status != models.EntrySubmitted {
		return ErrNotSubmitted
	}
	m.entry.Status = status
	m.entry.DecidedAt = &at
	m.entry.DecidedBy = &reviewerID
	m.entry.DecisionComment = comment
	return nil
}

// Reopen puts a decided entry back into draft for another submission
// cycle. Editing any clock or hour field after a decision goes through
// here so the next submission starts clean.
func (m *Machine) Reopen() {
	m.entry.Status = models.EntryDraft
	m.entry.SubmittedAt = nil
	m.entry.DecidedAt = nil
	m.entry.DecidedBy = nil
	m.entry.DecisionComment = ""
}

func (m *Machine) reopenIfDecided() {
	if m.entry.Decided() {
		m.Reopen()
	}
}
