package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/nhp-platform/catalog/pkg/query"
	"github.com/nhp-platform/catalog/pkg/repository"
)

// projection maps database columns to Category struct fields for query building.
var projection = query.NewProjectionMap("public", "categories", "c").
	Project("id", "ID").
	Project("title", "Title").
	Project("description", "Description").
	Project("image_id", "ImageID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// defaultSort orders categories by creation time; the builder adds the id
// tiebreak so page slices are stable across repeated reads.
const defaultSort = "CreatedAt"

// scanCategory reads a Category from a database row.
func scanCategory(s repository.Scanner) (Category, error) {
	var c Category
	err := s.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.ImageID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// Resource is the externally-visible representation of a category.
type Resource struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageID     string    `json:"image_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResource converts a persisted Category into its external representation.
// The conversion is pure: no I/O and no failure modes.
func ToResource(c Category) Resource {
	return Resource{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ImageID:     c.ImageID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToResources converts a slice of categories, preserving order.
func ToResources(cs []Category) []Resource {
	resources := make([]Resource, len(cs))
	for i, c := range cs {
		resources[i] = ToResource(c)
	}
	return resources
}
