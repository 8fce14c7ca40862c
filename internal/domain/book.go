package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Book validation errors.
var (
	ErrEmptyBookID      = fmt.Errorf("%w: book ID cannot be empty", ErrValidation)
	ErrEmptyTitle       = fmt.Errorf("%w: book title cannot be empty", ErrValidation)
	ErrTitleTooLong     = fmt.Errorf("%w: book title exceeds %d characters", ErrValidation, MaxNameLength)
	ErrEmptySummary     = fmt.Errorf("%w: book short summary cannot be empty", ErrValidation)
	ErrMissingAuthorRef = fmt.Errorf("%w: book author ID is required", ErrValidation)
)

// Book is a catalog entry. AuthorID is nil for books whose author is unknown.
type Book struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	ShortSummary string     `json:"shortSummary"`
	ImagePreview string     `json:"imagePreview"`
	AuthorID     *uuid.UUID `json:"authorId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
	DeletedAt    *time.Time `json:"deletedAt"`
}

// BookWithAuthor is a Book enriched with its author, which may be nil.
type BookWithAuthor struct {
	Book
	Author *Author `json:"author"`
}

// NewBook creates a validated Book with a fresh ID. New books must reference
// an author and carry a short summary.
func NewBook(title, shortSummary, imagePreview string, authorID uuid.UUID) (*Book, error) {
	if authorID == uuid.Nil {
		return nil, ErrMissingAuthorRef
	}
	if strings.TrimSpace(shortSummary) == "" {
		return nil, ErrEmptySummary
	}

	book := &Book{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(title),
		ShortSummary: strings.TrimSpace(shortSummary),
		ImagePreview: strings.TrimSpace(imagePreview),
		AuthorID:     &authorID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks the Book's required fields.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(b.Title) > MaxNameLength {
		return ErrTitleTooLong
	}
	return nil
}

// IsDeleted reports whether the book is soft-deleted as of now.
func (b *Book) IsDeleted(now time.Time) bool {
	return isDeleted(b.DeletedAt, now)
}

// BookPatch carries the fields of a partial book update. Nil fields are left
// unchanged.
type BookPatch struct {
	Title        *string
	ShortSummary *string
	ImagePreview *string
	AuthorID     *uuid.UUID
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.ShortSummary == nil && p.ImagePreview == nil && p.AuthorID == nil
}

// Apply writes the patch onto a copy of b and validates the result.
func (p BookPatch) Apply(b Book, now time.Time) (*Book, error) {
	if p.IsEmpty() {
		return nil, ErrEmptyPatch
	}
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.ShortSummary != nil {
		b.ShortSummary = strings.TrimSpace(*p.ShortSummary)
	}
	if p.ImagePreview != nil {
		b.ImagePreview = strings.TrimSpace(*p.ImagePreview)
	}
	if p.AuthorID != nil {
		id := *p.AuthorID
		b.AuthorID = &id
	}
	updated := now.UTC()
	b.UpdatedAt = &updated

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
