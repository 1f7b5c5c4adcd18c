package status

import (
	"strings"
	"testing"
	"time"

	"timekeep/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestResolve(t *testing.T) {
	asOf := date(2025, time.June, 15)

	cases := []struct {
		name       string
		employee   models.Employee
		wantStatus Code
		wantReason string // substring
	}{
		{
			name:       "plain active",
			employee:   models.Employee{HireDate: date(2024, time.January, 1)},
			wantStatus: Active,
			wantReason: "currently active",
		},
		{
			name: "terminated",
			employee: models.Employee{
				HireDate: date(2024, time.January, 1),
				EndDate:  datePtr(2025, time.May, 31),
			},
			wantStatus: Terminated,
			wantReason: "ended on 2025-05-31",
		},
		{
			name: "end date today is not yet terminated",
			employee: models.Employee{
				HireDate: date(2024, time.January, 1),
				EndDate:  datePtr(2025, time.June, 15),
			},
			wantStatus: Active,
		},
		{
			name: "on leave",
			employee: models.Employee{
				HireDate:       date(2024, time.January, 1),
				LeaveType:      "parental",
				LeaveStartDate: datePtr(2025, time.June, 1),
				LeaveEndDate:   datePtr(2025, time.June, 30),
			},
			wantStatus: OnLeave,
			wantReason: "on leave until 2025-06-30",
		},
		{
			name: "leave overrides termination",
			employee: models.Employee{
				HireDate:       date(2024, time.January, 1),
				EndDate:        datePtr(2025, time.June, 1),
				LeaveType:      "medical",
				LeaveStartDate: datePtr(2025, time.May, 20),
				LeaveEndDate:   datePtr(2025, time.July, 10),
			},
			wantStatus: OnLeave,
			wantReason: "on leave until 2025-07-10",
		},
		{
			name: "terminated after leave window passed",
			employee: models.Employee{
				HireDate:       date(2024, time.January, 1),
				EndDate:        datePtr(2025, time.June, 1),
				LeaveType:      "medical",
				LeaveStartDate: datePtr(2025, time.April, 1),
				LeaveEndDate:   datePtr(2025, time.April, 30),
			},
			wantStatus: Terminated,
			wantReason: "ended on 2025-06-01",
		},
		{
			name: "scheduled leave in the future",
			employee: models.Employee{
				HireDate:       date(2024, time.January, 1),
				LeaveType:      "vacation",
				LeaveStartDate: datePtr(2025, time.July, 1),
				LeaveEndDate:   datePtr(2025, time.July, 14),
			},
			wantStatus: Active,
			wantReason: "scheduled for leave starting 2025-07-01",
		},
		{
			name: "leave window boundaries are inclusive",
			employee: models.Employee{
				HireDate:       date(2024, time.January, 1),
				LeaveType:      "vacation",
				LeaveStartDate: datePtr(2025, time.June, 15),
				LeaveEndDate:   datePtr(2025, time.June, 15),
			},
			wantStatus: OnLeave,
		},
		{
			name: "leave dates without a type are ignored",
			employee: models.Employee{
				HireDate:       date(2024, time.January, 1),
				LeaveStartDate: datePtr(2025, time.June, 1),
				LeaveEndDate:   datePtr(2025, time.June, 30),
			},
			wantStatus: Active,
			wantReason: "currently active",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(&tc.employee, asOf)
			if got.Status != tc.wantStatus {
				t.Fatalf("status = %q, want %q (reason %q)", got.Status, tc.wantStatus, got.Reason)
			}
			if tc.wantReason != "" && !strings.Contains(got.Reason, tc.wantReason) {
				t.Fatalf("reason = %q, want it to contain %q", got.Reason, tc.wantReason)
			}
		})
	}
}

func TestResolveIgnoresTimeOfDay(t *testing.T) {
	employee := models.Employee{
		HireDate: date(2024, time.January, 1),
		EndDate:  datePtr(2025, time.June, 14),
	}
	// Late evening on the day after the end date is still terminated,
	// regardless of the clock time in asOf.
	got := Resolve(&employee, time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC))
	if got.Status != Terminated {
		t.Fatalf("status = %q, want terminated", got.Status)
	}
}
