package categories_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nhp-platform/catalog/internal/categories"
	"github.com/nhp-platform/catalog/internal/storage"
	"github.com/nhp-platform/catalog/pkg/pagination"
)

// fakeRepository is an in-memory Repository used to exercise the service
// without a database. Failure modes are injected through the err fields.
type fakeRepository struct {
	mu    sync.Mutex
	items []categories.Category

	createErr error
	updateErr error
	deleteErr error

	findByIDCalls int
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*categories.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findByIDCalls++

	for _, c := range f.items {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}

	return nil, categories.ErrNotFound
}

func (f *fakeRepository) FindPage(ctx context.Context, page, pageSize int) ([]categories.Category, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := len(f.items)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	result := make([]categories.Category, end-start)
	copy(result, f.items[start:end])
	return result, total, nil
}

func (f *fakeRepository) Create(ctx context.Context, c *categories.Category) (*categories.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}

	for _, existing := range f.items {
		if existing.Title == c.Title {
			return nil, categories.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now

	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeRepository) Update(ctx context.Context, c *categories.Category) (*categories.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return nil, f.updateErr
	}

	for i, existing := range f.items {
		if existing.ID == c.ID {
			existing.Title = c.Title
			existing.Description = c.Description
			existing.UpdatedAt = time.Now().UTC()
			f.items[i] = existing
			return &existing, nil
		}
	}

	return nil, categories.ErrNotFound
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}

	for i, existing := range f.items {
		if existing.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}

	return categories.ErrNotFound
}

func (f *fakeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.items {
		if existing.ID == id {
			return true, nil
		}
	}

	return false, nil
}

type testFixture struct {
	sys      categories.System
	repo     *fakeRepository
	assets   *storage.AssetStore
	basePath string
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()

	basePath := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sys, err := storage.NewFilesystem(basePath, logger)
	if err != nil {
		t.Fatalf("create storage: %v", err)
	}

	assets := storage.NewAssetStore(sys)
	repo := &fakeRepository{}

	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

	return &testFixture{
		sys:      categories.New(repo, assets, categories.NewValidator(), logger, cfg, ".jpg", 10<<20),
		repo:     repo,
		assets:   assets,
		basePath: basePath,
	}
}

// storedAssets counts the files currently held in the image namespace.
func (fx *testFixture) storedAssets(t *testing.T) int {
	t.Helper()

	entries, err := os.ReadDir(filepath.Join(fx.basePath, categories.ImageNamespace))
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	if err != nil {
		t.Fatalf("read namespace dir: %v", err)
	}

	return len(entries)
}

func validCreate(title string) categories.CreateCommand {
	return categories.CreateCommand{
		Title:       title,
		Description: "Description of " + title,
		Image:       []byte("jpeg bytes for " + title),
	}
}

func TestService_Create(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("created category should have an id")
	}
	if created.ImageID == "" {
		t.Fatal("created category should reference an image asset")
	}

	data, err := fx.assets.Retrieve(ctx, categories.ImageNamespace, created.ImageID)
	if err != nil {
		t.Fatalf("retrieve asset: %v", err)
	}
	if string(data) != "jpeg bytes for Fruits" {
		t.Errorf("asset bytes = %q, want the uploaded payload", data)
	}

	found, err := fx.sys.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Title != "Fruits" || found.ImageID != created.ImageID {
		t.Errorf("found = %+v, want persisted create result", found)
	}
}

func TestService_Create_EmptyImageRejectedBeforeStore(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.sys.Create(context.Background(), categories.CreateCommand{
		Title:       "Fruits",
		Description: "Fresh fruits",
	})

	var validation *categories.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(validation.Violations) != 1 || validation.Violations[0].Field != "image" {
		t.Errorf("violations = %v, want single image violation", validation.Violations)
	}

	if n := fx.storedAssets(t); n != 0 {
		t.Errorf("stored assets = %d, want 0 when payload is empty", n)
	}
}

func TestService_Create_ValidationFailureOrphansAsset(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.sys.Create(context.Background(), categories.CreateCommand{
		Title:       "  ",
		Description: "",
		Image:       []byte("jpeg bytes"),
	})

	var validation *categories.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(validation.Violations) != 2 {
		t.Errorf("violations = %v, want both title and description reported", validation.Violations)
	}

	// The asset is written before validation and is not rolled back.
	if n := fx.storedAssets(t); n != 1 {
		t.Errorf("stored assets = %d, want 1 orphan", n)
	}

	fx.repo.mu.Lock()
	records := len(fx.repo.items)
	fx.repo.mu.Unlock()
	if records != 0 {
		t.Errorf("records = %d, want 0 after rejected create", records)
	}
}

func TestService_Create_DuplicateTitleOrphansAsset(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.sys.Create(ctx, validCreate("Fruits")); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if !errors.Is(err, categories.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	// First asset plus the orphan from the failed create.
	if n := fx.storedAssets(t); n != 2 {
		t.Errorf("stored assets = %d, want 2", n)
	}
}

func TestService_Update(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := fx.sys.Update(ctx, categories.UpdateCommand{
		ID:          created.ID,
		Title:       "Citrus",
		Description: "Citrus fruits only",
	}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "Citrus" || updated.Description != "Citrus fruits only" {
		t.Errorf("updated = %+v, want new title and description", updated)
	}
	if updated.ImageID != created.ImageID {
		t.Errorf("ImageID = %q, want unchanged %q", updated.ImageID, created.ImageID)
	}

	data, err := fx.assets.Retrieve(ctx, categories.ImageNamespace, updated.ImageID)
	if err != nil {
		t.Fatalf("retrieve asset after update: %v", err)
	}
	if string(data) != "jpeg bytes for Fruits" {
		t.Error("update must not touch the stored asset")
	}
}

func TestService_Update_CallerViolationsShortCircuit(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fx.repo.mu.Lock()
	fx.repo.findByIDCalls = 0
	fx.repo.mu.Unlock()

	violations := []categories.FieldViolation{{Field: "title", Reason: "must not be blank"}}

	_, err = fx.sys.Update(ctx, categories.UpdateCommand{
		ID:          created.ID,
		Title:       "Citrus",
		Description: "Citrus fruits",
	}, violations)

	var validation *categories.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	fx.repo.mu.Lock()
	calls := fx.repo.findByIDCalls
	fx.repo.mu.Unlock()
	if calls != 0 {
		t.Errorf("repository reached %d time(s) despite caller violations", calls)
	}

	found, err := fx.sys.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Title != "Fruits" {
		t.Errorf("Title = %q, record must be untouched by a rejected update", found.Title)
	}
}

func TestService_Update_BlankFieldsRejected(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = fx.sys.Update(ctx, categories.UpdateCommand{
		ID:          created.ID,
		Title:       "",
		Description: "   ",
	}, nil)

	var validation *categories.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(validation.Violations) != 2 {
		t.Errorf("violations = %v, want both fields reported", validation.Violations)
	}
}

func TestService_Update_NotFound(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.sys.Update(context.Background(), categories.UpdateCommand{
		ID:          uuid.New(),
		Title:       "Citrus",
		Description: "Citrus fruits",
	}, nil)

	if !errors.Is(err, categories.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestService_Delete(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := fx.sys.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := fx.sys.Find(ctx, created.ID); !errors.Is(err, categories.ErrNotFound) {
		t.Errorf("find after delete err = %v, want ErrNotFound", err)
	}

	exists, err := fx.assets.Exists(ctx, categories.ImageNamespace, created.ImageID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("asset should be removed with the record")
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	fx := newFixture(t)

	if err := fx.sys.Delete(context.Background(), uuid.New()); !errors.Is(err, categories.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestService_Delete_RecordFailureReportsPartialDelete(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cause := errors.New("connection reset")
	fx.repo.mu.Lock()
	fx.repo.deleteErr = cause
	fx.repo.mu.Unlock()

	err = fx.sys.Delete(ctx, created.ID)

	var partial *categories.PartialDeleteError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want PartialDeleteError", err)
	}
	if partial.CategoryID != created.ID || partial.ImageID != created.ImageID {
		t.Errorf("partial = %+v, want category %s and image %q", partial, created.ID, created.ImageID)
	}
	if !errors.Is(err, cause) {
		t.Error("partial delete should unwrap to the record delete failure")
	}

	// The asset delete already succeeded: the record now dangles.
	exists, err := fx.assets.Exists(ctx, categories.ImageNamespace, created.ImageID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("asset should be gone even though the record delete failed")
	}
}

func TestService_Find_Idempotent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := fx.sys.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("first find: %v", err)
	}

	second, err := fx.sys.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("second find: %v", err)
	}

	if *first != *second {
		t.Errorf("repeated finds differ: %+v vs %+v", first, second)
	}
}

func TestService_List_ClampsPage(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	for _, title := range []string{"Fruits", "Dairy", "Bakery"} {
		if _, err := fx.sys.Create(ctx, validCreate(title)); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	clamped, err := fx.sys.List(ctx, pagination.PageRequest{Page: -3, PageSize: 20})
	if err != nil {
		t.Fatalf("list clamped: %v", err)
	}

	first, err := fx.sys.List(ctx, pagination.PageRequest{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list first: %v", err)
	}

	if clamped.Page != 1 {
		t.Errorf("Page = %d, want clamp to 1", clamped.Page)
	}
	if len(clamped.Data) != len(first.Data) {
		t.Fatalf("clamped page has %d items, first page has %d", len(clamped.Data), len(first.Data))
	}
	for i := range first.Data {
		if clamped.Data[i].ID != first.Data[i].ID {
			t.Errorf("item %d differs between clamped and first page", i)
		}
	}
}

func TestService_List_Pagination(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	titles := []string{"Fruits", "Dairy", "Bakery", "Beverages", "Vegetables"}
	for _, title := range titles {
		if _, err := fx.sys.Create(ctx, validCreate(title)); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	result, err := fx.sys.List(ctx, pagination.PageRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if result.Total != 5 {
		t.Errorf("Total = %d, want 5", result.Total)
	}
	if result.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.TotalPages)
	}
	if len(result.Data) != 2 {
		t.Errorf("len(Data) = %d, want 2", len(result.Data))
	}

	beyond, err := fx.sys.List(ctx, pagination.PageRequest{Page: 10, PageSize: 2})
	if err != nil {
		t.Fatalf("list beyond: %v", err)
	}
	if len(beyond.Data) != 0 {
		t.Errorf("page beyond range should be empty, got %d items", len(beyond.Data))
	}
	if beyond.Total != 5 {
		t.Errorf("Total = %d, want 5 on empty page", beyond.Total)
	}
}

func TestService_Image(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	data, contentType, err := fx.sys.Image(ctx, created.ID)
	if err != nil {
		t.Fatalf("image: %v", err)
	}

	if string(data) != "jpeg bytes for Fruits" {
		t.Errorf("data = %q, want uploaded payload", data)
	}
	if contentType != "image/jpeg" {
		t.Errorf("contentType = %q, want image/jpeg", contentType)
	}
}

func TestService_Image_MissingAsset(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.sys.Create(ctx, validCreate("Fruits"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := fx.assets.Delete(ctx, categories.ImageNamespace, created.ImageID); err != nil {
		t.Fatalf("delete asset: %v", err)
	}

	_, _, err = fx.sys.Image(ctx, created.ID)

	var storageErr *categories.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("err = %v, want StorageError", err)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		t.Error("StorageError should unwrap to the storage sentinel")
	}
}
