// Package status derives an employee's lifecycle status from their
// hire/end/leave dates. Status is never stored: it is recomputed from the
// date fields every time, against an explicit "as of" instant.
package status

import (
	"fmt"
	"time"

	"timekeep/models"
)

type Code string

const (
	Active     Code = "active"
	OnLeave    Code = "on_leave"
	Terminated Code = "terminated"
)

// Result is a status label plus the human-readable reason shown next to
// it in employee lists.
type Result struct {
	Status Code   `json:"status"`
	Reason string `json:"reason"`
}

// Resolve evaluates the employee's dates as of the given instant. Rule
// order matters: an as-of date inside the leave window wins even when the
// employment has already ended, so someone on leave past their end date
// reads as on_leave, not terminated. That precedence is intentional; do
// not reorder.
func Resolve(employee *models.Employee, asOf time.Time) Result {
	day := dateOf(asOf)

	onLeave := false
	if employee.HasLeaveWindow() {
		start := dateOf(*employee.LeaveStartDate)
		end := dateOf(*employee.LeaveEndDate)
		onLeave = !day.Before(start) && !day.After(end)
	}

	if employee.EndDate != nil && dateOf(*employee.EndDate).Before(day) {
		if onLeave {
			return Result{Status: OnLeave, Reason: fmt.Sprintf("on leave until %s", employee.LeaveEndDate.Format("2006-01-02"))}
		}
		return Result{Status: Terminated, Reason: fmt.Sprintf("ended on %s", employee.EndDate.Format("2006-01-02"))}
	}

	if onLeave {
		return Result{Status: OnLeave, Reason: fmt.Sprintf("on leave until %s", employee.LeaveEndDate.Format("2006-01-02"))}
	}

	if employee.HasLeaveWindow() && day.Before(dateOf(*employee.LeaveStartDate)) {
		return Result{Status: Active, Reason: fmt.Sprintf("scheduled for leave starting %s", employee.LeaveStartDate.Format("2006-01-02"))}
	}

	return Result{Status: Active, Reason: "currently active"}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
