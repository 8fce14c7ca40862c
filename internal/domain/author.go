package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNameLength is the column width of names and titles.
const MaxNameLength = 255

// Author validation errors.
var (
	ErrEmptyAuthorID     = fmt.Errorf("%w: author ID cannot be empty", ErrValidation)
	ErrEmptyAuthorName   = fmt.Errorf("%w: author name cannot be empty", ErrValidation)
	ErrAuthorNameTooLong = fmt.Errorf("%w: author name exceeds %d characters", ErrValidation, MaxNameLength)
)

// Author is a person credited with books.
type Author struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Bio       string     `json:"bio"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}

// NewAuthor creates a validated Author with a fresh ID.
func NewAuthor(name, bio string) (*Author, error) {
	author := &Author{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Bio:       strings.TrimSpace(bio),
		CreatedAt: time.Now().UTC(),
	}

	if err := author.Validate(); err != nil {
		return nil, err
	}

	return author, nil
}

// Validate checks the Author's required fields.
func (a *Author) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAuthorID
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAuthorName
	}
	if utf8.RuneCountInString(a.Name) > MaxNameLength {
		return ErrAuthorNameTooLong
	}
	return nil
}

// IsDeleted reports whether the author is soft-deleted as of now.
func (a *Author) IsDeleted(now time.Time) bool {
	return isDeleted(a.DeletedAt, now)
}

// AuthorPatch carries the fields of a partial author update. Nil fields are
// left unchanged.
type AuthorPatch struct {
	Name *string
	Bio  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p AuthorPatch) IsEmpty() bool {
	return p.Name == nil && p.Bio == nil
}

// Apply writes the patch onto a copy of a and validates the result.
func (p AuthorPatch) Apply(a Author, now time.Time) (*Author, error) {
	if p.IsEmpty() {
		return nil, ErrEmptyPatch
	}
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.Bio != nil {
		a.Bio = strings.TrimSpace(*p.Bio)
	}
	updated := now.UTC()
	a.UpdatedAt = &updated

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func isDeleted(deletedAt *time.Time, now time.Time) bool {
	return deletedAt != nil && !deletedAt.After(now)
}
