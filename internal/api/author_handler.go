package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/booklib-api/internal/api/shared"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/service"
)

// AuthorHandler handles the /authors endpoints.
type AuthorHandler struct {
	authors service.AuthorService
	logger  *slog.Logger
}

// NewAuthorHandler creates an AuthorHandler.
func NewAuthorHandler(authors service.AuthorService, logger *slog.Logger) *AuthorHandler {
	if authors == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("author service cannot be nil for AuthorHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorHandler{
		authors: authors,
		logger:  logger.With(slog.String("component", "author_handler")),
	}
}

// ListAuthors handles GET /authors/list.
func (h *AuthorHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := parsePaging(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid page or limit")
		return
	}

	result, err := h.authors.ListAuthors(r.Context(), page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list authors")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toAuthorListResponse(result))
}

// SearchAuthors handles GET /authors/search.
func (h *AuthorHandler) SearchAuthors(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := parsePaging(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid page or limit")
		return
	}

	result, err := h.authors.SearchAuthors(r.Context(), r.URL.Query().Get("search"), page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search authors")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toAuthorListResponse(result))
}

// CreateAuthor handles POST /authors.
func (h *AuthorHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req CreateAuthorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	author, err := h.authors.CreateAuthor(r.Context(), req.Name, req.Bio)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create author")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthorResponse{Author: authorToDTO(author)})
}

// GetAuthor handles GET /authors/{id}.
func (h *AuthorHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid author ID format")
		return
	}

	author, err := h.authors.GetAuthor(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get author")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthorResponse{Author: authorToDTO(author)})
}

// UpdateAuthor handles PATCH /authors/{id}.
func (h *AuthorHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid author ID format")
		return
	}

	var req UpdateAuthorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	author, err := h.authors.UpdateAuthor(r.Context(), id, domain.AuthorPatch{Name: req.Name, Bio: req.Bio})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update author")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthorResponse{Author: authorToDTO(author)})
}

// DeleteAuthor handles DELETE /authors/{id}.
func (h *AuthorHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid author ID format")
		return
	}

	author, err := h.authors.DeleteAuthor(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete author")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeletedAuthorResponse{
		Message: DeletedMessage,
		Author:  authorToDTO(author),
	})
}

func toAuthorListResponse(page *service.AuthorPage) AuthorListResponse {
	authors := make([]AuthorDTO, 0, len(page.Authors))
	for _, a := range page.Authors {
		authors = append(authors, authorToDTO(a))
	}
	return AuthorListResponse{Authors: authors, Pagination: page.Pagination}
}
