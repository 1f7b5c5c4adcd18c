package validation

import (
	"strings"
	"testing"
)

func TestValidateField(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		schema  FieldSchema
		wantErr string // substring of the first message, "" means valid
	}{
		{
			name:    "required empty",
			value:   "",
			schema:  FieldSchema{Name: "email", Required: true, Kind: KindEmail, Description: "Work Email"},
			wantErr: "Work Email is required",
		},
		{
			name:   "optional empty",
			value:  "",
			schema: FieldSchema{Name: "phone", Kind: KindPhone, Description: "Phone Number"},
		},
		{
			name:   "optional whitespace only",
			value:  "   ",
			schema: FieldSchema{Name: "phone", Kind: KindPhone, Description: "Phone Number"},
		},
		{
			name:   "valid email",
			value:  "jane.doe@example.com",
			schema: FieldSchema{Name: "email", Required: true, Kind: KindEmail, Description: "Work Email"},
		},
		{
			name:    "email missing domain dot",
			value:   "jane@example",
			schema:  FieldSchema{Name: "email", Required: true, Kind: KindEmail, Description: "Work Email"},
			wantErr: "valid email",
		},
		{
			name:    "email missing at",
			value:   "jane.example.com",
			schema:  FieldSchema{Name: "email", Required: true, Kind: KindEmail, Description: "Work Email"},
			wantErr: "valid email",
		},
		{
			name:   "valid date",
			value:  "2025-02-28",
			schema: FieldSchema{Name: "hire_date", Required: true, Kind: KindDate, Description: "Hire Date"},
		},
		{
			name:    "date wrong shape",
			value:   "28/02/2025",
			schema:  FieldSchema{Name: "hire_date", Required: true, Kind: KindDate, Description: "Hire Date"},
			wantErr: "YYYY-MM-DD",
		},
		{
			name:    "date not a real day",
			value:   "2025-02-30",
			schema:  FieldSchema{Name: "hire_date", Required: true, Kind: KindDate, Description: "Hire Date"},
			wantErr: "real calendar date",
		},
		{
			name:   "valid decimal",
			value:  "7.25",
			schema: FieldSchema{Name: "vacation_hours", Kind: KindDecimal, Description: "Vacation Hours"},
		},
		{
			name:    "negative decimal",
			value:   "-1",
			schema:  FieldSchema{Name: "vacation_hours", Kind: KindDecimal, Description: "Vacation Hours"},
			wantErr: "non-negative",
		},
		{
			name:    "decimal not a number",
			value:   "eight",
			schema:  FieldSchema{Name: "vacation_hours", Kind: KindDecimal, Description: "Vacation Hours"},
			wantErr: "non-negative",
		},
		{
			name:    "decimal NaN",
			value:   "NaN",
			schema:  FieldSchema{Name: "vacation_hours", Kind: KindDecimal, Description: "Vacation Hours"},
			wantErr: "non-negative",
		},
		{
			name:    "decimal positive infinity",
			value:   "+Inf",
			schema:  FieldSchema{Name: "vacation_hours", Kind: KindDecimal, Description: "Vacation Hours"},
			wantErr: "non-negative",
		},
		{
			name:    "decimal bare infinity",
			value:   "Inf",
			schema:  FieldSchema{Name: "vacation_hours", Kind: KindDecimal, Description: "Vacation Hours"},
			wantErr: "non-negative",
		},
		{
			name:   "valid phone",
			value:  "+1 (555) 123-4567",
			schema: FieldSchema{Name: "phone", Kind: KindPhone, Description: "Phone Number"},
		},
		{
			name:    "phone with letters",
			value:   "call me",
			schema:  FieldSchema{Name: "phone", Kind: KindPhone, Description: "Phone Number"},
			wantErr: "valid phone",
		},
		{
			name:   "enum exact match",
			value:  "HR",
			schema: FieldSchema{Name: "role", Required: true, Kind: KindEnum, Options: []string{"ADMIN", "HR", "EMPLOYEE"}, Description: "Role"},
		},
		{
			name:    "enum is case sensitive",
			value:   "hr",
			schema:  FieldSchema{Name: "role", Required: true, Kind: KindEnum, Options: []string{"ADMIN", "HR", "EMPLOYEE"}, Description: "Role"},
			wantErr: "one of",
		},
		{
			name:   "text at limit",
			value:  strings.Repeat("a", 500),
			schema: FieldSchema{Name: "notes", Kind: KindText, Description: "Notes"},
		},
		{
			name:    "text over limit",
			value:   strings.Repeat("a", 501),
			schema:  FieldSchema{Name: "notes", Kind: KindText, Description: "Notes"},
			wantErr: "500 characters",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateField(tc.value, tc.schema)
			if tc.wantErr == "" {
				if len(errs) != 0 {
					t.Fatalf("expected valid, got %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected exactly one message, got %v", errs)
			}
			if !strings.Contains(errs[0], tc.wantErr) {
				t.Fatalf("expected message containing %q, got %q", tc.wantErr, errs[0])
			}
		})
	}
}

func TestValidateFieldRequiredShortCircuits(t *testing.T) {
	// An empty required field must yield the single "required" message,
	// not a shape error on top of it.
	schema := FieldSchema{Name: "hire_date", Required: true, Kind: KindDate, Description: "Hire Date"}
	errs := ValidateField("", schema)
	if len(errs) != 1 {
		t.Fatalf("expected one message, got %v", errs)
	}
	if errs[0] != "Hire Date is required" {
		t.Fatalf("unexpected message %q", errs[0])
	}
}
