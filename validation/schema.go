package validation

// Kind selects which shape check a field value gets.
type Kind string

const (
	KindEmail   Kind = "email"
	KindDate    Kind = "date"
	KindDecimal Kind = "decimal"
	KindPhone   Kind = "phone"
	KindEnum    Kind = "enum"
	KindText    Kind = "text"
)

// FieldSchema declares one column of an upload: its name in the row,
// whether it may be empty, which shape check applies, and the label used
// in error messages and generated templates. Schemas are declared once
// per upload kind and never mutated at validation time.
type FieldSchema struct {
	Name        string   `json:"name"`
	Required    bool     `json:"required"`
	Kind        Kind     `json:"validation"`
	Options     []string `json:"options,omitempty"`
	Description string   `json:"description"`
}

// EmployeeSchema declares the columns of an employee bulk upload.
var EmployeeSchema = []FieldSchema{
	{Name: "email", Required: true, Kind: KindEmail, Description: "Work Email"},
	{Name: "full_name", Required: true, Kind: KindText, Description: "Full Name"},
	{Name: "role", Required: true, Kind: KindEnum, Options: []string{"ADMIN", "HR", "EMPLOYEE"}, Description: "Role"},
	{Name: "hire_date", Required: true, Kind: KindDate, Description: "Hire Date"},
	{Name: "phone", Required: false, Kind: KindPhone, Description: "Phone Number"},
	{Name: "end_date", Required: false, Kind: KindDate, Description: "End Date"},
}

// PayrollSchema declares the columns of a payroll-hours bulk upload.
var PayrollSchema = []FieldSchema{
	{Name: "email", Required: true, Kind: KindEmail, Description: "Work Email"},
	{Name: "date", Required: true, Kind: KindDate, Description: "Date"},
	{Name: "vacation_hours", Required: false, Kind: KindDecimal, Description: "Vacation Hours"},
	{Name: "sick_hours", Required: false, Kind: KindDecimal, Description: "Sick Hours"},
	{Name: "holiday_hours", Required: false, Kind: KindDecimal, Description: "Holiday Hours"},
	{Name: "notes", Required: false, Kind: KindText, Description: "Notes"},
}

// SchemaFor maps an upload kind name to its schema table.
func SchemaFor(kind string) ([]FieldSchema, bool) {
	switch kind {
	case "employees":
		return EmployeeSchema, true
	case "payroll":
		return PayrollSchema, true
	}
	return nil, false
}
