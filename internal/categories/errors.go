package categories

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Domain errors for category operations.
var (
	ErrNotFound  = errors.New("category not found")
	ErrDuplicate = errors.New("category title already exists")
)

// FieldViolation describes a single field-level validation failure.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries the complete set of field violations for a rejected
// candidate. The candidate is never partially applied.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field violation(s)", len(e.Violations))
}

// StorageError indicates a blob store dependency failure during a category
// operation. It carries the operation and asset id for observability.
type StorageError struct {
	Op      string
	AssetID string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for asset %q: %v", e.Op, e.AssetID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PartialDeleteError reports a record delete that failed after the asset
// delete already succeeded, leaving the category with a dangling image
// reference. It is surfaced distinctly so operators can reconcile manually.
type PartialDeleteError struct {
	CategoryID uuid.UUID
	ImageID    string
	Err        error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("category %s record delete failed after asset %q was removed: %v", e.CategoryID, e.ImageID, e.Err)
}

func (e *PartialDeleteError) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	var validation *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
