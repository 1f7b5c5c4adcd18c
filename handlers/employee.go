package handlers

import (
	"net/http"
	"time"

	"timekeep/database"
	"timekeep/models"
	"timekeep/status"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type EmployeeHandler struct{}

func NewEmployeeHandler() *EmployeeHandler {
	return &EmployeeHandler{}
}

// employeeView is an employee record plus its resolved lifecycle status.
// The status is recomputed on every read; it is never stored.
type employeeView struct {
	models.Employee
	Status status.Result `json:"lifecycle"`
}

type employeeRequest struct {
	Email          string      `json:"email"`
	FullName       string      `json:"full_name"`
	Role           models.Role `json:"role"`
	Phone          string      `json:"phone"`
	HireDate       string      `json:"hire_date"`
	EndDate        string      `json:"end_date"`
	LeaveType      string      `json:"leave_type"`
	LeaveStartDate string      `json:"leave_start_date"`
	LeaveEndDate   string      `json:"leave_end_date"`
}

// asOfParam reads an optional ?as_of=YYYY-MM-DD override, defaulting to now.
func asOfParam(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Now(), true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid as_of date")
		return
	}

	var employees []models.Employee
	if err := database.GetDB().Order("full_name asc").Find(&employees).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}

	statusFilter := r.URL.Query().Get("status")
	views := make([]employeeView, 0, len(employees))
	for i := range employees {
		resolved := status.Resolve(&employees[i], asOf)
		if statusFilter != "" && string(resolved.Status) != statusFilter {
			continue
		}
		views = append(views, employeeView{Employee: employees[i], Status: resolved})
	}

	respondJSON(w, http.StatusOK, views)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	employee, ok := h.load(w, r)
	if !ok {
		return
	}
	asOf, okDate := asOfParam(r)
	if !okDate {
		respondError(w, http.StatusBadRequest, "invalid as_of date")
		return
	}
	respondJSON(w, http.StatusOK, employeeView{Employee: *employee, Status: status.Resolve(employee, asOf)})
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	employee, errMsg := employeeFromRequest(&models.Employee{}, req)
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	if err := database.GetDB().Create(employee).Error; err != nil {
		respondError(w, http.StatusConflict, "failed to create employee")
		return
	}

	respondJSON(w, http.StatusCreated, employeeView{Employee: *employee, Status: status.Resolve(employee, time.Now())})
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	employee, ok := h.load(w, r)
	if !ok {
		return
	}

	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, errMsg := employeeFromRequest(employee, req)
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	if err := database.GetDB().Save(updated).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update employee")
		return
	}

	respondJSON(w, http.StatusOK, employeeView{Employee: *updated, Status: status.Resolve(updated, time.Now())})
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	employee, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := database.GetDB().Delete(employee).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete employee")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *EmployeeHandler) load(w http.ResponseWriter, r *http.Request) (*models.Employee, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return nil, false
	}

	var employee models.Employee
	if err := database.GetDB().First(&employee, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "employee not found")
		return nil, false
	}
	return &employee, true
}

// employeeFromRequest applies the request fields onto the employee,
// enforcing the date-field invariants before anything is persisted.
func employeeFromRequest(employee *models.Employee, req employeeRequest) (*models.Employee, string) {
	if req.Email == "" || req.FullName == "" {
		return nil, "email and full_name are required"
	}
	if !req.Role.Valid() {
		return nil, "invalid role"
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return nil, "invalid hire_date"
	}

	endDate, errMsg := optionalDate(req.EndDate, "end_date")
	if errMsg != "" {
		return nil, errMsg
	}
	leaveStart, errMsg := optionalDate(req.LeaveStartDate, "leave_start_date")
	if errMsg != "" {
		return nil, errMsg
	}
	leaveEnd, errMsg := optionalDate(req.LeaveEndDate, "leave_end_date")
	if errMsg != "" {
		return nil, errMsg
	}

	if req.LeaveType != "" {
		if leaveStart == nil || leaveEnd == nil {
			return nil, "leave_type requires leave_start_date and leave_end_date"
		}
		if leaveEnd.Before(*leaveStart) {
			return nil, "leave_end_date cannot be before leave_start_date"
		}
	}

	employee.Email = req.Email
	employee.FullName = req.FullName
	employee.Role = req.Role
	employee.Phone = req.Phone
	employee.HireDate = hireDate
	employee.EndDate = endDate
	employee.LeaveType = req.LeaveType
	employee.LeaveStartDate = leaveStart
	employee.LeaveEndDate = leaveEnd
	return employee, ""
}

func optionalDate(raw, field string) (*time.Time, string) {
	if raw == "" {
		return nil, ""
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, "invalid " + field
	}
	return &parsed, ""
}
