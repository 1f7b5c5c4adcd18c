package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"timekeep/database"
	"timekeep/middleware"
	"timekeep/models"
	"timekeep/timeclock"
	"timekeep/validation"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type UploadHandler struct{}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

type uploadRequest struct {
	Rows []map[string]string `json:"rows"`
}

type uploadView struct {
	ID       uint                    `json:"id"`
	Kind     models.UploadKind       `json:"kind"`
	Status   models.UploadStatus     `json:"status"`
	RowCount int                     `json:"row_count"`
	Result   validation.UploadResult `json:"result"`
}

// Create validates an uploaded table against its kind's schema and
// persists the batch with its full valid/error partition. A re-upload is
// a new batch; results are never merged across passes.
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	kind := models.UploadKind(chi.URLParam(r, "kind"))
	schema, ok := validation.SchemaFor(string(kind))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown upload kind")
		return
	}

	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Rows) == 0 {
		respondError(w, http.StatusBadRequest, "no rows to validate")
		return
	}

	result := validation.ValidateRows(req.Rows, schema)

	rowsJSON, err := json.Marshal(req.Rows)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode rows")
		return
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode result")
		return
	}

	upload := models.Upload{
		Kind:      kind,
		Status:    models.UploadPending,
		CreatedBy: user.ID,
		RowCount:  len(req.Rows),
		Rows:      rowsJSON,
		Result:    resultJSON,
	}
	if err := database.GetDB().Create(&upload).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save upload")
		return
	}

	log.Info().Uint("upload_id", upload.ID).Str("kind", string(kind)).
		Int("rows", len(req.Rows)).Int("rejected", len(result.Errors)).
		Msg("upload validated")

	respondJSON(w, http.StatusCreated, uploadView{
		ID: upload.ID, Kind: upload.Kind, Status: upload.Status,
		RowCount: upload.RowCount, Result: result,
	})
}

func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	upload, result, ok := h.load(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, uploadView{
		ID: upload.ID, Kind: upload.Kind, Status: upload.Status,
		RowCount: upload.RowCount, Result: *result,
	})
}

type correctRowRequest struct {
	Data map[string]string `json:"data"`
}

// CorrectRow replaces one rejected row and re-runs the full schema
// against it, moving it into the accepted set when every field passes.
func (h *UploadHandler) CorrectRow(w http.ResponseWriter, r *http.Request) {
	upload, result, ok := h.load(w, r)
	if !ok {
		return
	}
	if upload.Status == models.UploadCommitted {
		respondError(w, http.StatusConflict, "batch already committed")
		return
	}

	rowNum, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil || rowNum < 1 {
		respondError(w, http.StatusBadRequest, "invalid row number")
		return
	}

	var req correctRowRequest
	if err := decodeJSON(r, &req); err != nil || req.Data == nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	schema, _ := validation.SchemaFor(string(upload.Kind))
	if _, err := result.RevalidateRow(rowNum, req.Data, schema); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode result")
		return
	}
	upload.Result = resultJSON
	if err := database.GetDB().Save(upload).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save upload")
		return
	}

	respondJSON(w, http.StatusOK, uploadView{
		ID: upload.ID, Kind: upload.Kind, Status: upload.Status,
		RowCount: upload.RowCount, Result: *result,
	})
}

// Commit persists the accepted records. It is all-or-nothing: while any
// row is still rejected the commit is refused outright.
func (h *UploadHandler) Commit(w http.ResponseWriter, r *http.Request) {
	upload, result, ok := h.load(w, r)
	if !ok {
		return
	}
	if upload.Status == models.UploadCommitted {
		respondError(w, http.StatusConflict, "batch already committed")
		return
	}
	if !result.CommitReady() {
		respondError(w, http.StatusConflict, validation.ErrBatchBlocked.Error())
		return
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		switch upload.Kind {
		case models.UploadEmployees:
			if err := commitEmployees(tx, result.Valid); err != nil {
				return err
			}
		case models.UploadPayroll:
			if err := commitPayroll(tx, result.Valid); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown upload kind %q", upload.Kind)
		}
		upload.Status = models.UploadCommitted
		return tx.Save(upload).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("upload_id", upload.ID).Msg("commit failed")
		respondError(w, http.StatusInternalServerError, "commit failed: "+err.Error())
		return
	}

	log.Info().Uint("upload_id", upload.ID).Int("records", len(result.Valid)).Msg("batch committed")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "committed",
		"committed": len(result.Valid),
	})
}

func commitEmployees(tx *gorm.DB, records []map[string]string) error {
	for _, record := range records {
		hireDate, err := time.Parse("2006-01-02", record["hire_date"])
		if err != nil {
			return fmt.Errorf("hire_date %q: %w", record["hire_date"], err)
		}
		employee := models.Employee{
			Email:    record["email"],
			FullName: record["full_name"],
			Role:     models.Role(record["role"]),
			Phone:    record["phone"],
			HireDate: hireDate,
		}
		if record["end_date"] != "" {
			endDate, err := time.Parse("2006-01-02", record["end_date"])
			if err != nil {
				return fmt.Errorf("end_date %q: %w", record["end_date"], err)
			}
			employee.EndDate = &endDate
		}
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}
	}
	return nil
}

// commitPayroll applies leave-type hours onto each employee's entry for
// the given date, creating the entry when the day has no clock activity.
func commitPayroll(tx *gorm.DB, records []map[string]string) error {
	for _, record := range records {
		var employee models.Employee
		if err := tx.Where("email = ?", record["email"]).First(&employee).Error; err != nil {
			return fmt.Errorf("employee %q: %w", record["email"], err)
		}

		day, err := time.Parse("2006-01-02", record["date"])
		if err != nil {
			return fmt.Errorf("date %q: %w", record["date"], err)
		}

		var entry models.TimesheetEntry
		err = tx.Where("employee_id = ? AND date = ?", employee.ID, day).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = models.TimesheetEntry{EmployeeID: employee.ID, Date: day, Status: models.EntryDraft}
		} else if err != nil {
			return err
		}

		entry.VacationHours = parseHours(record["vacation_hours"])
		entry.SickHours = parseHours(record["sick_hours"])
		entry.HolidayHours = parseHours(record["holiday_hours"])
		if record["notes"] != "" {
			entry.Notes = record["notes"]
		}
		timeclock.Compute(&entry).Apply(&entry)

		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

func parseHours(raw string) float64 {
	if raw == "" {
		return 0
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return hours
}

func (h *UploadHandler) load(w http.ResponseWriter, r *http.Request) (*models.Upload, *validation.UploadResult, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload id")
		return nil, nil, false
	}

	var upload models.Upload
	if err := database.GetDB().First(&upload, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "upload not found")
		return nil, nil, false
	}

	var result validation.UploadResult
	if err := json.Unmarshal(upload.Result, &result); err != nil {
		respondError(w, http.StatusInternalServerError, "corrupt upload result")
		return nil, nil, false
	}
	return &upload, &result, true
}

// TemplateCSV serves an empty upload template: one header row with the
// schema's field names, one row of field descriptions.
func (h *UploadHandler) TemplateCSV(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	schema, ok := validation.SchemaFor(kind)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown upload kind")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_template.csv", kind))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	names := make([]string, len(schema))
	descriptions := make([]string, len(schema))
	for i, field := range schema {
		names[i] = field.Name
		descriptions[i] = templateHint(field)
	}
	writer.Write(names)
	writer.Write(descriptions)
}

// TemplateXLSX serves the same template as a spreadsheet, with a bolded
// header row and a description row per field.
func (h *UploadHandler) TemplateXLSX(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	schema, ok := validation.SchemaFor(kind)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown upload kind")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build template")
		return
	}

	for i, field := range schema {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", field.Name)
		f.SetCellValue(sheet, col+"2", templateHint(field))
		f.SetColWidth(sheet, col, col, 22)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(schema))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_template.xlsx", kind))
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("write xlsx template")
	}
}

func templateHint(field validation.FieldSchema) string {
	hint := field.Description
	if field.Required {
		hint += " (required)"
	}
	switch field.Kind {
	case validation.KindDate:
		hint += ", YYYY-MM-DD"
	case validation.KindEnum:
		hint += ", one of: "
		for i, option := range field.Options {
			if i > 0 {
				hint += "/"
			}
			hint += option
		}
	}
	return hint
}
