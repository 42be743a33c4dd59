package categories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhp-platform/catalog/pkg/query"
	"github.com/nhp-platform/catalog/pkg/repository"
)

// Repository defines the persistence capability for category records.
// Implementations map driver errors to ErrNotFound and ErrDuplicate.
type Repository interface {
	// FindByID retrieves a category by id. Returns ErrNotFound if absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindPage returns one page of categories in stable order along with the
	// total record count.
	FindPage(ctx context.Context, page, pageSize int) ([]Category, int, error)

	// Create inserts a new record and returns it with assigned id and timestamps.
	Create(ctx context.Context, c *Category) (*Category, error)

	// Update overwrites title and description of an existing record.
	// Returns ErrNotFound if absent.
	Update(ctx context.Context, c *Category) (*Category, error)

	// Delete removes a record by id. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists reports whether a record exists for the id.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type pgRepository struct {
	db *sql.DB
}

// NewRepository creates a Postgres-backed category repository.
func NewRepository(db *sql.DB) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) FindByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCategory)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *pgRepository) FindPage(ctx context.Context, page, pageSize int) ([]Category, int, error) {
	qb := query.NewBuilder(projection, defaultSort)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page, pageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCategory)
	if err != nil {
		return nil, 0, fmt.Errorf("query categories: %w", err)
	}

	return items, total, nil
}

func (r *pgRepository) Create(ctx context.Context, c *Category) (*Category, error) {
	q := `INSERT INTO categories (title, description, image_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, description, image_id, created_at, updated_at`

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Category, error) {
		return repository.QueryOne(ctx, tx, q, []any{c.Title, c.Description, c.ImageID}, scanCategory)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &created, nil
}

func (r *pgRepository) Update(ctx context.Context, c *Category) (*Category, error) {
	q := `UPDATE categories SET title = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, description, image_id, created_at, updated_at`

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Category, error) {
		return repository.QueryOne(ctx, tx, q, []any{c.ID, c.Title, c.Description}, scanCategory)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &updated, nil
}

func (r *pgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q := `DELETE FROM categories WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, q, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return nil
}

func (r *pgRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildExists("ID", id)

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}

	return exists, nil
}
