package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBatchBlocked is returned when a batch is committed while rows are
// still rejected. The batch is all-or-nothing: nothing is committed until
// every row validates.
var ErrBatchBlocked = errors.New("batch has rejected rows; correct them before committing")

// RowError is one rejected row: its 1-based position in the uploaded
// table, the raw row as received (kept for correction), and every field
// message collected for it.
type RowError struct {
	Row    int               `json:"row"`
	Data   map[string]string `json:"data"`
	Errors []string          `json:"errors"`
}

// UploadResult is the accepted/rejected partition of one validation
// pass. A fresh result is produced per pass; results are never merged.
type UploadResult struct {
	Valid  []map[string]string `json:"valid"`
	Errors []RowError          `json:"errors"`
}

// CommitReady reports whether the batch may be committed.
func (r *UploadResult) CommitReady() bool {
	return len(r.Errors) == 0
}

// ValidateRows partitions rows into accepted records and per-row error
// reports. Every declared field is checked and every message kept, each
// prefixed with its field name. An accepted record carries exactly the
// schema's declared fields; extra input columns are dropped.
func ValidateRows(rows []map[string]string, schema []FieldSchema) UploadResult {
	result := UploadResult{
		Valid:  []map[string]string{},
		Errors: []RowError{},
	}
	for i, row := range rows {
		record, errs := validateRow(row, schema)
		if len(errs) > 0 {
			result.Errors = append(result.Errors, RowError{Row: i + 1, Data: row, Errors: errs})
			continue
		}
		result.Valid = append(result.Valid, record)
	}
	return result
}

// RevalidateRow re-runs the full schema against a corrected row and
// re-merges it: the row leaves Errors for Valid only when every field
// passes, otherwise its error report is replaced in place. It returns
// the messages from the pass and whether the row was accepted.
func (r *UploadResult) RevalidateRow(rowNum int, corrected map[string]string, schema []FieldSchema) ([]string, error) {
	index := -1
	for i, rowErr := range r.Errors {
		if rowErr.Row == rowNum {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("row %d is not in the rejected set", rowNum)
	}

	record, errs := validateRow(corrected, schema)
	if len(errs) > 0 {
		r.Errors[index] = RowError{Row: rowNum, Data: corrected, Errors: errs}
		return errs, nil
	}
	r.Errors = append(r.Errors[:index], r.Errors[index+1:]...)
	r.Valid = append(r.Valid, record)
	return nil, nil
}

func validateRow(row map[string]string, schema []FieldSchema) (map[string]string, []string) {
	var errs []string
	record := make(map[string]string, len(schema))
	for _, field := range schema {
		value := row[field.Name]
		for _, msg := range ValidateField(value, field) {
			errs = append(errs, fmt.Sprintf("%s: %s", field.Name, msg))
		}
		record[field.Name] = strings.TrimSpace(value)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return record, nil
}
