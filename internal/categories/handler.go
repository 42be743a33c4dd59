package categories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/nhp-platform/catalog/pkg/handlers"
	"github.com/nhp-platform/catalog/pkg/pagination"
	"github.com/nhp-platform/catalog/pkg/routes"
)

// Handler provides HTTP endpoints for category management.
type Handler struct {
	sys        System
	validator  *Validator
	logger     *slog.Logger
	pagination pagination.Config
	maxUpload  int64
}

// NewHandler creates a new categories HTTP handler.
func NewHandler(sys System, validator *Validator, logger *slog.Logger, pagination pagination.Config, maxUpload int64) *Handler {
	return &Handler{
		sys:        sys,
		validator:  validator,
		logger:     logger.With("handler", "categories"),
		pagination: pagination,
		maxUpload:  maxUpload,
	}
}

// Routes returns the route configuration for category endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/categories",
		Description: "Catalog category management",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/image", Handler: h.Image},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List handles GET / - returns a page of categories. The page number is read
// from the p query parameter and clamped, never rejected.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	resources := pagination.NewPageResult(ToResources(result.Data), result.Total, result.Page, result.PageSize)
	handlers.RespondJSON(w, http.StatusOK, resources)
}

// Find handles GET /{id} - returns a single category.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ToResource(*c))
}

// Image handles GET /{id}/image - returns the raw image bytes.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	data, contentType, err := h.sys.Image(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Create handles POST / - creates a category from a multipart form carrying
// title, description, and the image file.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
		return
	}

	cmd := CreateCommand{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	// A missing file reaches the system as an empty payload and fails
	// validation there, so the violation list stays in one place.
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
			return
		}
		cmd.Image = data
	}

	created, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, ToResource(*created))
}

type updateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Update handles PATCH /{id} - overwrites title and description. The handler
// validates the decoded representation and hands the violations to the system,
// which enforces them before any repository access.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	violations := h.validator.Validate(Candidate{Title: req.Title, Description: req.Description})

	updated, err := h.sys.Update(r.Context(), UpdateCommand{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
	}, violations)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ToResource(*updated))
}

// Delete handles DELETE /{id} - removes the category and its image asset.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondDomainError renders validation failures with their full violation
// list and maps every other domain error to a status code.
func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		handlers.RespondJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"violations": validation.Violations,
		})
		return
	}

	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}
