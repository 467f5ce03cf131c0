package cell

import (
	"math"
	"strconv"
	"strings"

	apperrors "celldata/internal/errors"
)

// ValidationConfig names the columns and fields the pipeline depends on
type ValidationConfig struct {
	CapacityColumn string
	MassField      string
	RequiredFields []string
}

// DefaultValidationConfig returns the canonical names
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		CapacityColumn: DefaultCapacityColumn,
		MassField:      DefaultMassField,
		RequiredFields: RequiredMetadataFields(),
	}
}

// parseNumeric strictly converts a cell value to a float. Rejects empty
// strings, NaN and infinities.
func parseNumeric(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ValidateRawTable checks that the capacity column exists and every cell
// in it converts to a number. Pure and fail-fast: the first failing cell
// aborts with a typed error.
func ValidateRawTable(t *RawTable, capacityColumn string) error {
	values, ok := t.Column(capacityColumn)
	if !ok {
		return apperrors.MissingColumn(capacityColumn, t.Headers)
	}
	for i, v := range values {
		if _, ok := parseNumeric(v); !ok {
			return apperrors.NonNumericData(capacityColumn, i, v)
		}
	}
	return nil
}

// ValidateMetadata checks that the mass field exists, parses as a number
// after trimming, and is strictly positive. Returns the mass in mg.
func ValidateMetadata(m MetadataRecord, massField string) (float64, error) {
	raw, ok := m.Get(massField)
	if !ok {
		return 0, apperrors.MissingField(massField)
	}
	mass, ok := parseNumeric(raw)
	if !ok {
		return 0, apperrors.NonNumericMass(massField, raw)
	}
	if mass <= 0 {
		return 0, apperrors.NonPositiveMass(massField, mass)
	}
	return mass, nil
}
