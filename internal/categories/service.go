package categories

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/nhp-platform/catalog/internal/storage"
	"github.com/nhp-platform/catalog/pkg/pagination"
)

type service struct {
	repo       Repository
	assets     *storage.AssetStore
	validator  *Validator
	logger     *slog.Logger
	pagination pagination.Config
	imageExt   string
	maxUpload  int64
}

// New creates a category system coupling the record repository with the
// asset store under the configured image extension policy.
func New(
	repo Repository,
	assets *storage.AssetStore,
	validator *Validator,
	logger *slog.Logger,
	pagination pagination.Config,
	imageExt string,
	maxUpload int64,
) System {
	return &service{
		repo:       repo,
		assets:     assets,
		validator:  validator,
		logger:     logger.With("system", "categories"),
		pagination: pagination,
		imageExt:   imageExt,
		maxUpload:  maxUpload,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.validator, s.logger, s.pagination, s.maxUpload)
}

func (s *service) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Category], error) {
	page.Normalize(s.pagination)

	items, total, err := s.repo.FindPage(ctx, page.Page, page.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Image(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := s.assets.Retrieve(ctx, ImageNamespace, c.ImageID)
	if err != nil {
		return nil, "", &StorageError{Op: "retrieve", AssetID: c.ImageID, Err: err}
	}

	contentType := mime.TypeByExtension(path.Ext(c.ImageID))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return data, contentType, nil
}

func (s *service) Create(ctx context.Context, cmd CreateCommand) (*Category, error) {
	if len(cmd.Image) == 0 {
		return nil, &ValidationError{Violations: []FieldViolation{
			{Field: "image", Reason: "image payload must not be empty"},
		}}
	}

	// The asset is written before the record so a persistence failure can
	// never leave a record referencing a missing asset. The reverse failure,
	// an orphaned asset, is accepted and logged for reconciliation.
	imageID, err := s.assets.Store(ctx, ImageNamespace, s.imageExt, cmd.Image)
	if err != nil {
		return nil, &StorageError{Op: "store", AssetID: imageID, Err: err}
	}

	if violations := s.validator.Validate(Candidate{Title: cmd.Title, Description: cmd.Description}); len(violations) > 0 {
		s.logger.Warn("asset orphaned by validation failure", "namespace", ImageNamespace, "asset_id", imageID)
		return nil, &ValidationError{Violations: violations}
	}

	created, err := s.repo.Create(ctx, &Category{
		Title:       cmd.Title,
		Description: cmd.Description,
		ImageID:     imageID,
	})
	if err != nil {
		s.logger.Warn("asset orphaned by persistence failure", "namespace", ImageNamespace, "asset_id", imageID, "error", err)
		return nil, err
	}

	s.logger.Info("category created", "id", created.ID, "title", created.Title, "image_id", created.ImageID)
	return created, nil
}

func (s *service) Update(ctx context.Context, cmd UpdateCommand, violations []FieldViolation) (*Category, error) {
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if own := s.validator.Validate(Candidate{Title: cmd.Title, Description: cmd.Description}); len(own) > 0 {
		return nil, &ValidationError{Violations: own}
	}

	existing, err := s.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	existing.Title = cmd.Title
	existing.Description = cmd.Description

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated", "id", updated.ID, "title", updated.Title)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Asset first, record second. If the record delete fails the category is
	// left with a dangling image reference; the distinct error makes the
	// window observable instead of hiding it.
	if err := s.assets.Delete(ctx, ImageNamespace, c.ImageID); err != nil {
		return &StorageError{Op: "delete", AssetID: c.ImageID, Err: err}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		partial := &PartialDeleteError{CategoryID: id, ImageID: c.ImageID, Err: err}
		s.logger.Error("dangling image reference after partial delete", "id", id, "image_id", c.ImageID, "error", err)
		return partial
	}

	s.logger.Info("category deleted", "id", id, "image_id", c.ImageID)
	return nil
}
