package cache

import (
	"time"

	"github.com/phrazzld/booklib-api/internal/domain"
)

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneAuthor(a *domain.Author) *domain.Author {
	if a == nil {
		return nil
	}
	out := *a
	out.UpdatedAt = cloneTime(a.UpdatedAt)
	out.DeletedAt = cloneTime(a.DeletedAt)
	return &out
}

func cloneBookWithAuthor(b *domain.BookWithAuthor) *domain.BookWithAuthor {
	if b == nil {
		return nil
	}
	out := *b
	if b.AuthorID != nil {
		id := *b.AuthorID
		out.AuthorID = &id
	}
	out.UpdatedAt = cloneTime(b.UpdatedAt)
	out.DeletedAt = cloneTime(b.DeletedAt)
	out.Author = cloneAuthor(b.Author)
	return &out
}
