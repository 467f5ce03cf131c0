package errors

import (
	"errors"
	"fmt"
	"strings"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving its code
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code of the nearest AppError in the chain,
// or "UNKNOWN" if there is none
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether the nearest AppError in the chain carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Error codes for every failure kind the pipeline can produce
const (
	// Raw-table shape problems
	CodeMissingColumn  = "MISSING_COLUMN"
	CodeNonNumericData = "NON_NUMERIC_DATA"

	// Metadata shape problems
	CodeMissingField    = "MISSING_FIELD"
	CodeNonNumericMass  = "NON_NUMERIC_MASS"
	CodeNonPositiveMass = "NON_POSITIVE_MASS"

	// Post-coercion sanity failure
	CodeInvalidCapacity = "INVALID_CAPACITY"

	// Collaborator lookup failures
	CodeNotFound          = "NOT_FOUND"
	CodePartitionNotFound = "PARTITION_NOT_FOUND"

	// Ambient failures
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// MissingColumn reports a required raw-table column that is absent
func MissingColumn(column string, available []string) *AppError {
	return New(CodeMissingColumn,
		fmt.Sprintf("missing column '%s' in raw data; available: [%s]", column, strings.Join(available, ", ")))
}

// NonNumericData reports the first raw-table cell that failed numeric conversion
func NonNumericData(column string, row int, value string) *AppError {
	return New(CodeNonNumericData,
		fmt.Sprintf("column '%s' row %d: value '%s' is not numeric", column, row, value))
}

// MissingField reports a required metadata field that is absent
func MissingField(field string) *AppError {
	return New(CodeMissingField, fmt.Sprintf("missing '%s' in metadata", field))
}

// MissingRequiredHeaders reports absent required headers in a metadata partition
func MissingRequiredHeaders(partition string, missing, found []string) *AppError {
	return New(CodeMissingField,
		fmt.Sprintf("missing required header(s) in partition '%s': [%s]; found columns: [%s]",
			partition, strings.Join(missing, ", "), strings.Join(found, ", ")))
}

// NonNumericMass reports a mass value that failed numeric conversion
func NonNumericMass(field, value string) *AppError {
	return New(CodeNonNumericMass,
		fmt.Sprintf("mass value '%s' for '%s' is not numeric", value, field))
}

// NonPositiveMass reports a mass value that is zero or negative
func NonPositiveMass(field string, value float64) *AppError {
	return New(CodeNonPositiveMass,
		fmt.Sprintf("mass %g mg for '%s' must be > 0 to normalize capacity", value, field))
}

// InvalidCapacity reports a capacity value that is missing or negative after coercion
func InvalidCapacity(row int, value string) *AppError {
	return New(CodeInvalidCapacity,
		fmt.Sprintf("capacity at row %d: value '%s' is missing or negative after numeric conversion", row, value))
}

// NotFound reports an identifier absent from its source
func NotFound(resource, id string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s '%s' not found", resource, id))
}

// PartitionNotFound reports a metadata partition that does not exist
func PartitionNotFound(partition string) *AppError {
	return New(CodePartitionNotFound, fmt.Sprintf("metadata partition '%s' not found", partition))
}

// ConfigInvalid reports a configuration problem
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// ExternalServiceError wraps a collaborator transport failure
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

// InternalError reports an unexpected internal failure
func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
