package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/phrazzld/booklib-api/internal/store"
	"golang.org/x/sync/singleflight"
)

// Cache keeps copies of books and authors keyed by ID. Lookups take a refresh
// flag that forces a reload from the stores. Concurrent loads of the same key
// share one store round trip. Entries are copied in and out, so callers may
// modify returned values freely.
//
// Every key carries a generation that refreshes, sets and invalidations bump.
// A load only stores its result if the generation is unchanged since it
// started, so a slow load cannot overwrite a newer entry.
type Cache struct {
	books   store.BookStore
	authors store.AuthorStore
	logger  *slog.Logger

	mu            sync.RWMutex
	bookEntries   map[uuid.UUID]domain.BookWithAuthor
	authorEntries map[uuid.UUID]domain.Author
	bookGens      map[uuid.UUID]uint64
	authorGens    map[uuid.UUID]uint64

	group singleflight.Group
}

// New creates an empty Cache backed by the given stores.
func New(books store.BookStore, authors store.AuthorStore, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		books:         books,
		authors:       authors,
		logger:        logger.With(slog.String("component", "cache")),
		bookEntries:   make(map[uuid.UUID]domain.BookWithAuthor),
		authorEntries: make(map[uuid.UUID]domain.Author),
		bookGens:      make(map[uuid.UUID]uint64),
		authorGens:    make(map[uuid.UUID]uint64),
	}
}

// BookWithAuthor returns the book and its author. A book whose author row is
// missing is returned with a nil Author. Returns store.ErrBookNotFound when
// the book does not exist.
func (c *Cache) BookWithAuthor(ctx context.Context, id uuid.UUID, refresh bool) (*domain.BookWithAuthor, error) {
	key := "book:" + id.String()
	if refresh {
		c.mu.Lock()
		c.bookGens[id]++
		c.mu.Unlock()
		c.group.Forget(key)
	} else {
		c.mu.RLock()
		entry, ok := c.bookEntries[id]
		c.mu.RUnlock()
		if ok {
			return cloneBookWithAuthor(&entry), nil
		}
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		c.mu.RLock()
		gen := c.bookGens[id]
		c.mu.RUnlock()

		book, err := c.books.GetByID(loadCtx, id)
		if err != nil {
			return nil, err
		}

		entry := domain.BookWithAuthor{Book: *book}
		if book.AuthorID != nil {
			author, err := c.Author(loadCtx, *book.AuthorID, refresh)
			switch {
			case err == nil:
				entry.Author = author
			case errors.Is(err, store.ErrAuthorNotFound):
			default:
				return nil, err
			}
		}

		c.mu.Lock()
		if c.bookGens[id] == gen {
			c.bookEntries[id] = *cloneBookWithAuthor(&entry)
		}
		c.mu.Unlock()
		return &entry, nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, c.logger).Debug("book loaded into cache",
		slog.String("book_id", id.String()),
		slog.Bool("refresh", refresh),
		slog.Bool("shared", shared))
	return cloneBookWithAuthor(v.(*domain.BookWithAuthor)), nil
}

// Author returns the author with the given ID, soft-deleted or not. Returns
// store.ErrAuthorNotFound when the author does not exist.
func (c *Cache) Author(ctx context.Context, id uuid.UUID, refresh bool) (*domain.Author, error) {
	key := "author:" + id.String()
	if refresh {
		c.mu.Lock()
		c.authorGens[id]++
		c.mu.Unlock()
		c.group.Forget(key)
	} else {
		c.mu.RLock()
		entry, ok := c.authorEntries[id]
		c.mu.RUnlock()
		if ok {
			return cloneAuthor(&entry), nil
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		gen := c.authorGens[id]
		c.mu.RUnlock()

		author, err := c.authors.GetByID(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.authorGens[id] == gen {
			c.authorEntries[id] = *cloneAuthor(author)
		}
		c.mu.Unlock()
		return author, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneAuthor(v.(*domain.Author)), nil
}

// SetAuthor stores a copy of author.
func (c *Cache) SetAuthor(author *domain.Author) {
	if author == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authorGens[author.ID]++
	c.authorEntries[author.ID] = *cloneAuthor(author)
}

// SetBook stores a copy of book.
func (c *Cache) SetBook(book *domain.BookWithAuthor) {
	if book == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bookGens[book.ID]++
	c.bookEntries[book.ID] = *cloneBookWithAuthor(book)
}

// InvalidateBook drops the cached entry for id.
func (c *Cache) InvalidateBook(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bookGens[id]++
	delete(c.bookEntries, id)
}

// InvalidateAuthor drops the cached author and every cached book embedding it.
func (c *Cache) InvalidateAuthor(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authorGens[id]++
	delete(c.authorEntries, id)
	for bookID, entry := range c.bookEntries {
		if entry.AuthorID != nil && *entry.AuthorID == id {
			c.bookGens[bookID]++
			delete(c.bookEntries, bookID)
		}
	}
}

// Len reports the number of cached books and authors.
func (c *Cache) Len() (books, authors int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bookEntries), len(c.authorEntries)
}
