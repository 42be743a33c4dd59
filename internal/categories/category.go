// Package categories provides catalog category management: metadata records
// persisted in Postgres coupled to image assets held in blob storage. The
// module owns the lifecycle ordering between the two stores and the accepted
// failure windows of each operation.
package categories

import (
	"time"

	"github.com/google/uuid"
)

// ImageNamespace is the blob store namespace holding category image assets.
const ImageNamespace = "category"

// Category represents a catalog category with an associated image asset.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageID     string    `json:"image_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand contains the data required to create a new category.
// Image holds the raw image bytes to be stored; the asset is written to the
// blob store before the record is persisted.
type CreateCommand struct {
	Title       string
	Description string
	Image       []byte
}

// UpdateCommand contains the fields that can be modified on an existing
// category. The image reference is immutable after creation: there is no
// replacement path in the current contract.
type UpdateCommand struct {
	ID          uuid.UUID
	Title       string
	Description string
}
