package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntryStatus string

const (
	EntryDraft     EntryStatus = "draft"
	EntrySubmitted EntryStatus = "submitted"
	EntryApproved  EntryStatus = "approved"
	EntryRejected  EntryStatus = "rejected"
)

type BreakKind string

const (
	BreakLunch  BreakKind = "lunch"
	BreakFirst  BreakKind = "break1"
	BreakSecond BreakKind = "break2"
)

func (k BreakKind) Valid() bool {
	switch k {
	case BreakLunch, BreakFirst, BreakSecond:
		return true
	}
	return false
}

// TimesheetEntry is one employee's clock record for one calendar day,
// unique per (employee_id, date). Clock and break fields are raw event
// instants; RegularHours/OvertimeHours/BreakHours/TotalPaidHours are
// derived and overwritten on every recompute.
type TimesheetEntry struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	EmployeeID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_entries_employee_date" json:"employee_id"`
	Employee   *Employee      `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Date       time.Time      `gorm:"type:date;not null;uniqueIndex:idx_entries_employee_date" json:"date"`

	ClockIn  *time.Time `json:"clock_in,omitempty"`
	ClockOut *time.Time `json:"clock_out,omitempty"`

	LunchStart  *time.Time `json:"lunch_start,omitempty"`
	LunchEnd    *time.Time `json:"lunch_end,omitempty"`
	Break1Start *time.Time `json:"break1_start,omitempty"`
	Break1End   *time.Time `json:"break1_end,omitempty"`
	Break2Start *time.Time `json:"break2_start,omitempty"`
	Break2End   *time.Time `json:"break2_end,omitempty"`

	VacationHours float64 `gorm:"not null;default:0" json:"vacation_hours"`
	SickHours     float64 `gorm:"not null;default:0" json:"sick_hours"`
	HolidayHours  float64 `gorm:"not null;default:0" json:"holiday_hours"`

	RegularHours   float64 `gorm:"not null;default:0" json:"regular_hours"`
	OvertimeHours  float64 `gorm:"not null;default:0" json:"overtime_hours"`
	BreakHours     float64 `gorm:"not null;default:0" json:"break_hours"`
	TotalPaidHours float64 `gorm:"not null;default:0" json:"total_paid_hours"`

	Status          EntryStatus `gorm:"not null;size:20;default:draft" json:"status"`
	SubmittedAt     *time.Time  `json:"submitted_at,omitempty"`
	DecidedAt       *time.Time  `json:"decided_at,omitempty"`
	DecidedBy       *uint       `json:"decided_by,omitempty"`
	DecisionComment string      `gorm:"size:500" json:"decision_comment,omitempty"`
	Notes           string      `gorm:"size:500" json:"notes,omitempty"`
}

func (e *TimesheetEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = EntryDraft
	}
	return nil
}

// Break returns the start/end instants recorded for the given break kind.
func (e *TimesheetEntry) Break(kind BreakKind) (start, end *time.Time) {
	switch kind {
	case BreakLunch:
		return e.LunchStart, e.LunchEnd
	case BreakFirst:
		return e.Break1Start, e.Break1End
	case BreakSecond:
		return e.Break2Start, e.Break2End
	}
	return nil, nil
}

func (e *TimesheetEntry) SetBreakStart(kind BreakKind, at time.Time) {
	switch kind {
	case BreakLunch:
		e.LunchStart = &at
	case BreakFirst:
		e.Break1Start = &at
	case BreakSecond:
		e.Break2Start = &at
	}
}

func (e *TimesheetEntry) SetBreakEnd(kind BreakKind, at time.Time) {
	switch kind {
	case BreakLunch:
		e.LunchEnd = &at
	case BreakFirst:
		e.Break1End = &at
	case BreakSecond:
		e.Break2End = &at
	}
}

// OpenBreak reports the break that has a start but no end, if any.
func (e *TimesheetEntry) OpenBreak() (BreakKind, bool) {
	for _, kind := range []BreakKind{BreakLunch, BreakFirst, BreakSecond} {
		start, end := e.Break(kind)
		if start != nil && end == nil {
			return kind, true
		}
	}
	return "", false
}

func (e *TimesheetEntry) Decided() bool {
	return e.Status == EntryApproved || e.Status == EntryRejected
}
