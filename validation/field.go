package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const maxTextLength = 500

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s().-]{7,20}$`)
)

// ValidateField checks one raw value against its schema and returns the
// failure messages, empty when the value is acceptable. A required field
// that is empty short-circuits with a single message; an optional empty
// field is always acceptable. It never panics on any input value.
func ValidateField(value string, schema FieldSchema) []string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if schema.Required {
			return []string{fmt.Sprintf("%s is required", schema.Description)}
		}
		return nil
	}

	var errs []string
	switch schema.Kind {
	case KindEmail:
		if !emailPattern.MatchString(trimmed) {
			errs = append(errs, fmt.Sprintf("%s must be a valid email address", schema.Description))
		}
	case KindDate:
		if !datePattern.MatchString(trimmed) {
			errs = append(errs, fmt.Sprintf("%s must use YYYY-MM-DD format", schema.Description))
		} else if _, err := time.Parse("2006-01-02", trimmed); err != nil {
			errs = append(errs, fmt.Sprintf("%s must be a real calendar date", schema.Description))
		}
	case KindDecimal:
		number, err := strconv.ParseFloat(trimmed, 64)
		// ParseFloat accepts NaN and the infinities, which are not
		// usable hour values.
		if err != nil || math.IsNaN(number) || math.IsInf(number, 0) || number < 0 {
			errs = append(errs, fmt.Sprintf("%s must be a non-negative number", schema.Description))
		}
	case KindPhone:
		if !phonePattern.MatchString(trimmed) {
			errs = append(errs, fmt.Sprintf("%s must be a valid phone number", schema.Description))
		}
	case KindEnum:
		if !containsExact(schema.Options, trimmed) {
			errs = append(errs, fmt.Sprintf("%s must be one of: %s", schema.Description, strings.Join(schema.Options, ", ")))
		}
	case KindText:
		if utf8.RuneCountInString(trimmed) > maxTextLength {
			errs = append(errs, fmt.Sprintf("%s must be %d characters or fewer", schema.Description, maxTextLength))
		}
	}
	return errs
}

func containsExact(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
