package application

import (
	"fmt"
	"math"
	"strings"

	"dasha/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "birthJD" -> "birth JD")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"birthJD":       "birth JD",
		"targetJD":      "target JD",
		"fromJD":        "from JD",
		"toJD":          "to JD",
		"moonLongitude": "moon longitude",
		"profileID":     "profile ID",
		"daysPerYear":   "days per year",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateJulianDay rejects non-finite and non-positive Julian Days
func ValidateJulianDay(fieldName string, jd float64) error {
	if math.IsNaN(jd) || math.IsInf(jd, 0) || jd <= 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be a positive Julian Day, got: %v", formatFieldName(fieldName), jd),
		}
	}
	return nil
}

// ValidateLongitude rejects non-finite longitudes. Any finite value is
// accepted; the engine normalizes it into [0, 360).
func ValidateLongitude(fieldName string, lon float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be finite, got: %v", formatFieldName(fieldName), lon),
		}
	}
	return nil
}

// ValidatePositive rejects zero, negative and non-finite values
func ValidatePositive(fieldName string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be > 0, got: %v", formatFieldName(fieldName), v),
		}
	}
	return nil
}

// ValidateDepth checks 1 <= depth <= max
func ValidateDepth(fieldName string, depth, max int) error {
	if depth < 1 || depth > max {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be between 1 and %d, got: %d", formatFieldName(fieldName), max, depth),
		}
	}
	return nil
}

// ValidateDashaDepth checks a Dasha depth (1=Maha .. 5=Prana)
func ValidateDashaDepth(depth int) error {
	return ValidateDepth("depth", depth, domain.MaxDashaDepth)
}

// ValidateKPDepth checks a KP depth (1=star .. 3=sub-sub)
func ValidateKPDepth(depth int) error {
	return ValidateDepth("depth", depth, domain.MaxKPDepth)
}
