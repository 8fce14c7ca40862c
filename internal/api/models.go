package api

import (
	"time"

	"github.com/phrazzld/booklib-api/internal/domain"
)

// CreateBookRequest is the body of POST /books.
type CreateBookRequest struct {
	Title        string `json:"title"        validate:"required,max=255"`
	ShortSummary string `json:"shortSummary" validate:"required"`
	ImagePreview string `json:"imagePreview"`
	AuthorID     string `json:"authorId"     validate:"required,uuid"`
}

// UpdateBookRequest is the body of PATCH /books/{id}. Omitted fields are
// left unchanged.
type UpdateBookRequest struct {
	Title        *string `json:"title"        validate:"omitempty,max=255"`
	ShortSummary *string `json:"shortSummary"`
	ImagePreview *string `json:"imagePreview"`
	AuthorID     *string `json:"authorId"     validate:"omitempty,uuid"`
}

// CreateAuthorRequest is the body of POST /authors.
type CreateAuthorRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Bio  string `json:"bio"`
}

// UpdateAuthorRequest is the body of PATCH /authors/{id}.
type UpdateAuthorRequest struct {
	Name *string `json:"name" validate:"omitempty,max=255"`
	Bio  *string `json:"bio"`
}

// AuthorDTO is the wire form of an author.
type AuthorDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Bio       string     `json:"bio"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}

// BookDTO is the wire form of a book. Author is set when the book was
// loaded together with its author.
type BookDTO struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	ShortSummary string     `json:"shortSummary"`
	ImagePreview string     `json:"imagePreview"`
	AuthorID     *string    `json:"authorId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
	DeletedAt    *time.Time `json:"deletedAt"`
	Author       *AuthorDTO `json:"author,omitempty"`
}

// BookResponse wraps a single book.
type BookResponse struct {
	Book BookDTO `json:"book"`
}

// BookListResponse is a page of books.
type BookListResponse struct {
	Books      []BookDTO         `json:"books"`
	Pagination domain.Pagination `json:"pagination"`
}

// DeletedBookResponse is returned by DELETE /books/{id}.
type DeletedBookResponse struct {
	Message string  `json:"message"`
	Book    BookDTO `json:"book"`
}

// AuthorResponse wraps a single author.
type AuthorResponse struct {
	Author AuthorDTO `json:"author"`
}

// AuthorListResponse is a page of authors.
type AuthorListResponse struct {
	Authors    []AuthorDTO       `json:"authors"`
	Pagination domain.Pagination `json:"pagination"`
}

// DeletedAuthorResponse is returned by DELETE /authors/{id}.
type DeletedAuthorResponse struct {
	Message string    `json:"message"`
	Author  AuthorDTO `json:"author"`
}

// DeletedMessage is the message of delete responses.
const DeletedMessage = "Deleted"

func authorToDTO(a *domain.Author) AuthorDTO {
	return AuthorDTO{
		ID:        a.ID.String(),
		Name:      a.Name,
		Bio:       a.Bio,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		DeletedAt: a.DeletedAt,
	}
}

func bookToDTO(b *domain.Book) BookDTO {
	dto := BookDTO{
		ID:           b.ID.String(),
		Title:        b.Title,
		ShortSummary: b.ShortSummary,
		ImagePreview: b.ImagePreview,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
		DeletedAt:    b.DeletedAt,
	}
	if b.AuthorID != nil {
		id := b.AuthorID.String()
		dto.AuthorID = &id
	}
	return dto
}

func bookWithAuthorToDTO(b *domain.BookWithAuthor) BookDTO {
	dto := bookToDTO(&b.Book)
	if b.Author != nil {
		author := authorToDTO(b.Author)
		dto.Author = &author
	}
	return dto
}
