package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/api/shared"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/phrazzld/booklib-api/internal/service"
)

// BookHandler handles the /books endpoints.
type BookHandler struct {
	books  service.BookService
	logger *slog.Logger
}

// NewBookHandler creates a BookHandler.
func NewBookHandler(books service.BookService, logger *slog.Logger) *BookHandler {
	if books == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("book service cannot be nil for BookHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookHandler{
		books:  books,
		logger: logger.With(slog.String("component", "book_handler")),
	}
}

// ListBooks handles GET /books/list.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := parsePaging(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid page or limit")
		return
	}

	result, err := h.books.ListBooks(r.Context(), page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toBookListResponse(result))
}

// SearchBooks handles GET /books/search.
func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := parsePaging(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid page or limit")
		return
	}

	result, err := h.books.SearchBooks(r.Context(), r.URL.Query().Get("search"), page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search books")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toBookListResponse(result))
}

// CreateBook handles POST /books. The insert runs through the book queue;
// the response is written once it has completed.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateBookRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.books.CreateBook(r.Context(), service.CreateBookInput{
		Title:        req.Title,
		ShortSummary: req.ShortSummary,
		ImagePreview: req.ImagePreview,
		AuthorID:     uuid.MustParse(req.AuthorID),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create book")
		return
	}

	log.Debug("book created", slog.String("book_id", book.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, BookResponse{Book: bookWithAuthorToDTO(book)})
}

// GetBook handles GET /books/{id}.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book ID format")
		return
	}

	book, err := h.books.GetBook(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookResponse{Book: bookWithAuthorToDTO(book)})
}

// UpdateBook handles PATCH /books/{id}.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book ID format")
		return
	}

	var req UpdateBookRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	patch := domain.BookPatch{
		Title:        req.Title,
		ShortSummary: req.ShortSummary,
		ImagePreview: req.ImagePreview,
	}
	if req.AuthorID != nil {
		authorID := uuid.MustParse(*req.AuthorID)
		patch.AuthorID = &authorID
	}

	book, err := h.books.UpdateBook(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookResponse{Book: bookWithAuthorToDTO(book)})
}

// DeleteBook handles DELETE /books/{id}.
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book ID format")
		return
	}

	book, err := h.books.DeleteBook(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeletedBookResponse{
		Message: DeletedMessage,
		Book:    bookToDTO(book),
	})
}

func toBookListResponse(page *service.BookPage) BookListResponse {
	books := make([]BookDTO, 0, len(page.Books))
	for _, b := range page.Books {
		books = append(books, bookWithAuthorToDTO(b))
	}
	return BookListResponse{Books: books, Pagination: page.Pagination}
}
