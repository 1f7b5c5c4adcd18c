package timeclock

import (
	"fmt"
	"math"
	"time"

	"timekeep/models"
)

// DailyThresholdHours is the daily overtime threshold: worked time at or
// below it is regular, anything beyond is overtime.
const DailyThresholdHours = 8.0

// Computation is the derived payroll view of one entry. Hour values are
// rounded to two decimals; warnings flag conditions a reviewer should
// look at but that never block the computation.
type Computation struct {
	WorkedMinutes  int      `json:"worked_minutes"`
	BreakMinutes   int      `json:"break_minutes"`
	RegularHours   float64  `json:"regular_hours"`
	OvertimeHours  float64  `json:"overtime_hours"`
	BreakHours     float64  `json:"break_hours"`
	TotalPaidHours float64  `json:"total_paid_hours"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Compute derives regular/overtime/break/paid hours from an entry's raw
// clock fields. With no complete clock-in/clock-out pair the worked
// portion is zero and the day is paid purely from leave-type hours. Only
// break windows with both ends set count toward break time; a break left
// open past clock-out contributes nothing and raises a warning.
func Compute(entry *models.TimesheetEntry) Computation {
	var c Computation

	if entry.ClockIn != nil && entry.ClockOut != nil {
		c.WorkedMinutes = wholeMinutes(entry.ClockOut.Sub(*entry.ClockIn))

		for _, kind := range []models.BreakKind{models.BreakLunch, models.BreakFirst, models.BreakSecond} {
			start, end := entry.Break(kind)
			switch {
			case start != nil && end != nil:
				c.BreakMinutes += wholeMinutes(end.Sub(*start))
			case start != nil:
				c.Warnings = append(c.Warnings, fmt.Sprintf("%s break was never ended and is excluded from break time", kind))
			}
		}
	}

	workedHours := math.Max(0, float64(c.WorkedMinutes-c.BreakMinutes)/60)
	regular := math.Min(workedHours, DailyThresholdHours)
	overtime := math.Max(0, workedHours-DailyThresholdHours)

	c.RegularHours = round2(regular)
	c.OvertimeHours = round2(overtime)
	c.BreakHours = round2(float64(c.BreakMinutes) / 60)
	c.TotalPaidHours = round2(regular + overtime + entry.VacationHours + entry.SickHours + entry.HolidayHours)
	return c
}

// Apply writes the computation's derived values back onto the entry.
// Derived fields are owned by this package; nothing else mutates them.
func (c Computation) Apply(entry *models.TimesheetEntry) {
	entry.RegularHours = c.RegularHours
	entry.OvertimeHours = c.OvertimeHours
	entry.BreakHours = c.BreakHours
	entry.TotalPaidHours = c.TotalPaidHours
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
