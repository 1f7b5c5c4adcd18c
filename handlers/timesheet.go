package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"timekeep/database"
	"timekeep/middleware"
	"timekeep/models"
	"timekeep/timeclock"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimesheetHandler struct{}

func NewTimesheetHandler() *TimesheetHandler {
	return &TimesheetHandler{}
}

// clockRequest is one clock/break event: which employee and day it is
// for, and optionally the instant (defaults to now). Admin/HR may act
// for any employee; everyone else only for their own linked employee.
type clockRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Date       string `json:"date,omitempty"`
	At         string `json:"at,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

// entryView is an entry plus the calculator's full derivation, warnings
// included.
type entryView struct {
	models.TimesheetEntry
	Computation timeclock.Computation `json:"computation"`
}

func viewOf(entry *models.TimesheetEntry) entryView {
	return entryView{TimesheetEntry: *entry, Computation: timeclock.Compute(entry)}
}

// resolveClockTarget turns a clock request into (employee, date, instant).
func (h *TimesheetHandler) resolveClockTarget(w http.ResponseWriter, r *http.Request, req clockRequest) (uuid.UUID, time.Time, time.Time, bool) {
	user := middleware.GetUserFromContext(r.Context())

	var employeeID uuid.UUID
	if req.EmployeeID != "" && user.CanReviewTimesheets() {
		parsed, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid employee_id")
			return uuid.Nil, time.Time{}, time.Time{}, false
		}
		employeeID = parsed
	} else {
		if user.EmployeeID == nil {
			respondError(w, http.StatusForbidden, "no employee record linked to this account")
			return uuid.Nil, time.Time{}, time.Time{}, false
		}
		employeeID = *user.EmployeeID
	}

	at := time.Now()
	if req.At != "" {
		parsed, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid at instant, use RFC3339")
			return uuid.Nil, time.Time{}, time.Time{}, false
		}
		at = parsed
	}

	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date")
			return uuid.Nil, time.Time{}, time.Time{}, false
		}
		day = parsed
	}

	return employeeID, day, at, true
}

func (h *TimesheetHandler) findEntry(employeeID uuid.UUID, day time.Time) (*models.TimesheetEntry, error) {
	var entry models.TimesheetEntry
	err := database.GetDB().
		Where("employee_id = ? AND date = ?", employeeID, day).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (h *TimesheetHandler) saveEntry(w http.ResponseWriter, entry *models.TimesheetEntry) {
	timeclock.Compute(entry).Apply(entry)
	if err := database.GetDB().Save(entry).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}
	respondJSON(w, http.StatusOK, viewOf(entry))
}

// ClockIn records the day's clock-in, creating the entry on first use.
// A repeated clock-in returns the existing entry unchanged.
func (h *TimesheetHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req clockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	employeeID, day, at, ok := h.resolveClockTarget(w, r, req)
	if !ok {
		return
	}

	entry, err := h.findEntry(employeeID, day)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var employee models.Employee
		if err := database.GetDB().First(&employee, "id = ?", employeeID).Error; err != nil {
			respondError(w, http.StatusNotFound, "employee not found")
			return
		}
		entry = &models.TimesheetEntry{EmployeeID: employeeID, Date: day, Status: models.EntryDraft}
		if err := database.GetDB().Create(entry).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "failed to create entry")
			return
		}
	} else if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load entry")
		return
	}

	timeclock.ForEntry(entry).ClockIn(at)
	h.saveEntry(w, entry)
}

func (h *TimesheetHandler) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.clockTransition(w, r, func(m *timeclock.Machine, req clockRequest, at time.Time) error {
		return m.StartBreak(models.BreakKind(req.Kind), at)
	})
}

func (h *TimesheetHandler) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.clockTransition(w, r, func(m *timeclock.Machine, req clockRequest, at time.Time) error {
		return m.EndBreak(models.BreakKind(req.Kind), at)
	})
}

func (h *TimesheetHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clockTransition(w, r, func(m *timeclock.Machine, req clockRequest, at time.Time) error {
		return m.ClockOut(at)
	})
}

func (h *TimesheetHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.clockTransition(w, r, func(m *timeclock.Machine, req clockRequest, at time.Time) error {
		return m.Submit(at)
	})
}

// clockTransition runs one state-machine operation against an existing
// day entry. Only clock-in may create a row; everything else on a day
// with no row is reported as an error, never retried.
func (h *TimesheetHandler) clockTransition(w http.ResponseWriter, r *http.Request, op func(*timeclock.Machine, clockRequest, time.Time) error) {
	var req clockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	employeeID, day, at, ok := h.resolveClockTarget(w, r, req)
	if !ok {
		return
	}

	entry, err := h.findEntry(employeeID, day)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "no timesheet entry for this day")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load entry")
		return
	}

	if err := op(timeclock.ForEntry(entry), req, at); err != nil {
		respondError(w, transitionStatus(err), err.Error())
		return
	}
	h.saveEntry(w, entry)
}

func transitionStatus(err error) int {
	switch {
	case errors.Is(err, timeclock.ErrBadBreakKind),
		errors.Is(err, timeclock.ErrClockOutBeforeIn),
		errors.Is(err, timeclock.ErrBreakBeforeIn),
		errors.Is(err, timeclock.ErrBreakEndBeforeStart):
		return http.StatusBadRequest
	case errors.Is(err, timeclock.ErrNotClockedIn),
		errors.Is(err, timeclock.ErrNotClockedOut),
		errors.Is(err, timeclock.ErrNotSubmitted):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}

type decisionRequest struct {
	Comment string `json:"comment"`
}

func (h *TimesheetHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, (*timeclock.Machine).Approve)
}

func (h *TimesheetHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, (*timeclock.Machine).Reject)
}

func (h *TimesheetHandler) decide(w http.ResponseWriter, r *http.Request, op func(*timeclock.Machine, time.Time, uint, string) error) {
	user := middleware.GetUserFromContext(r.Context())

	entry, ok := h.loadByID(w, r)
	if !ok {
		return
	}

	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := op(timeclock.ForEntry(entry), time.Now(), user.ID, req.Comment); err != nil {
		respondError(w, transitionStatus(err), err.Error())
		return
	}
	h.saveEntry(w, entry)
}

// editRequest carries manual corrections: leave-type hours, notes, and
// (for reviewers) raw clock instants. Editing a decided entry reopens it
// to draft for a fresh submission cycle.
type editRequest struct {
	VacationHours *float64 `json:"vacation_hours,omitempty"`
	SickHours     *float64 `json:"sick_hours,omitempty"`
	HolidayHours  *float64 `json:"holiday_hours,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	ClockIn       *string  `json:"clock_in,omitempty"`
	ClockOut      *string  `json:"clock_out,omitempty"`
}

func (h *TimesheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	entry, ok := h.loadByID(w, r)
	if !ok {
		return
	}
	if !user.CanManageEntryFor(entry.EmployeeID) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req editRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, hours := range []*float64{req.VacationHours, req.SickHours, req.HolidayHours} {
		if hours != nil && (*hours < 0 || *hours > 24) {
			respondError(w, http.StatusBadRequest, "leave hours must be between 0 and 24")
			return
		}
	}

	if req.VacationHours != nil {
		entry.VacationHours = *req.VacationHours
	}
	if req.SickHours != nil {
		entry.SickHours = *req.SickHours
	}
	if req.HolidayHours != nil {
		entry.HolidayHours = *req.HolidayHours
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}

	if req.ClockIn != nil || req.ClockOut != nil {
		if !user.CanReviewTimesheets() {
			respondError(w, http.StatusForbidden, "only admin or HR may edit clock instants")
			return
		}
		if req.ClockIn != nil {
			parsed, err := time.Parse(time.RFC3339, *req.ClockIn)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid clock_in, use RFC3339")
				return
			}
			entry.ClockIn = &parsed
		}
		if req.ClockOut != nil {
			parsed, err := time.Parse(time.RFC3339, *req.ClockOut)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid clock_out, use RFC3339")
				return
			}
			entry.ClockOut = &parsed
		}
		if entry.ClockIn != nil && entry.ClockOut != nil && !entry.ClockOut.After(*entry.ClockIn) {
			respondError(w, http.StatusBadRequest, "clock_out must be after clock_in")
			return
		}
	}

	machine := timeclock.ForEntry(entry)
	if entry.Decided() {
		machine.Reopen()
	}
	h.saveEntry(w, entry)
}

// List returns entries with derived fields, filtered by employee and an
// optional date range. Non-reviewers only ever see their own.
func (h *TimesheetHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	query := database.GetDB().Preload("Employee")
	if user.CanReviewTimesheets() {
		if raw := r.URL.Query().Get("employee_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid employee_id")
				return
			}
			query = query.Where("employee_id = ?", id)
		}
		if rawStatus := r.URL.Query().Get("status"); rawStatus != "" {
			query = query.Where("status = ?", rawStatus)
		}
	} else {
		if user.EmployeeID == nil {
			respondError(w, http.StatusForbidden, "no employee record linked to this account")
			return
		}
		query = query.Where("employee_id = ?", *user.EmployeeID)
	}

	if from := r.URL.Query().Get("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		query = query.Where("date >= ?", parsed)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		query = query.Where("date <= ?", parsed)
	}

	var entries []models.TimesheetEntry
	if err := query.Order("date desc").Limit(200).Find(&entries).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}

	views := make([]entryView, 0, len(entries))
	for i := range entries {
		views = append(views, viewOf(&entries[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *TimesheetHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	entry, ok := h.loadByID(w, r)
	if !ok {
		return
	}
	if !user.CanManageEntryFor(entry.EmployeeID) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	respondJSON(w, http.StatusOK, viewOf(entry))
}

func (h *TimesheetHandler) loadByID(w http.ResponseWriter, r *http.Request) (*models.TimesheetEntry, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid entry id")
		return nil, false
	}
	var entry models.TimesheetEntry
	if err := database.GetDB().First(&entry, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "entry not found")
		return nil, false
	}
	return &entry, true
}

// ExportCSV streams one month of entries with their derived hour columns.
func (h *TimesheetHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanExport() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		respondError(w, http.StatusBadRequest, "invalid month")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		respondError(w, http.StatusBadRequest, "invalid year")
		return
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, 0)

	var entries []models.TimesheetEntry
	database.GetDB().Preload("Employee").
		Where("date >= ? AND date < ?", startDate, endDate).
		Order("date asc, employee_id asc").
		Find(&entries)

	filename := fmt.Sprintf("timesheets_%d_%02d.csv", year, month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"Employee", "Date", "Regular", "Overtime", "Break", "Vacation", "Sick", "Holiday", "Total Paid", "Status"})

	// Write data
	for i := range entries {
		entry := &entries[i]
		comp := timeclock.Compute(entry)
		name := ""
		if entry.Employee != nil {
			name = entry.Employee.FullName
		}
		writer.Write([]string{
			name,
			entry.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", comp.RegularHours),
			fmt.Sprintf("%.2f", comp.OvertimeHours),
			fmt.Sprintf("%.2f", comp.BreakHours),
			fmt.Sprintf("%.2f", entry.VacationHours),
			fmt.Sprintf("%.2f", entry.SickHours),
			fmt.Sprintf("%.2f", entry.HolidayHours),
			fmt.Sprintf("%.2f", comp.TotalPaidHours),
			string(entry.Status),
		})
	}
}
