package categories

import (
	"context"

	"github.com/google/uuid"

	"github.com/nhp-platform/catalog/pkg/pagination"
)

// System defines the interface for category lifecycle operations.
type System interface {
	Handler() *Handler

	// List returns a page of categories in stable order. Page numbers below 1
	// are clamped to 1, never rejected.
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Category], error)

	// Find retrieves a category by id. Returns ErrNotFound if absent.
	Find(ctx context.Context, id uuid.UUID) (*Category, error)

	// Image returns the raw image bytes and content type for a category.
	Image(ctx context.Context, id uuid.UUID) ([]byte, string, error)

	// Create stores the image asset, validates the candidate fields, and
	// persists the record, in that order. A validation or persistence failure
	// after the asset write leaves an orphaned asset rather than a dangling
	// reference.
	Create(ctx context.Context, cmd CreateCommand) (*Category, error)

	// Update overwrites title and description. Caller-supplied violations
	// fail the operation before any repository access; when none are passed
	// the candidate is validated here. The image reference never changes.
	Update(ctx context.Context, cmd UpdateCommand, violations []FieldViolation) (*Category, error)

	// Delete removes the image asset first and the record second. A record
	// delete failure after the asset delete is surfaced as PartialDeleteError.
	Delete(ctx context.Context, id uuid.UUID) error
}
