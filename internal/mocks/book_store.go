package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/store"
)

// MockBookStore implements store.BookStore for testing.
type MockBookStore struct {
	CreateFn      func(ctx context.Context, book *domain.Book) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	UpdateFn      func(ctx context.Context, book *domain.Book) error
	SoftDeleteFn  func(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Book, error)
	ListFn        func(ctx context.Context, page store.Page) ([]*domain.Book, error)
	CountFn       func(ctx context.Context, asOf time.Time) (int, error)
	SearchFn      func(ctx context.Context, query string, page store.Page) ([]*domain.Book, error)
	CountSearchFn func(ctx context.Context, query string, asOf time.Time) (int, error)

	mu    sync.Mutex
	books map[uuid.UUID]domain.Book
	calls map[string]int
}

// NewMockBookStore creates a mock store holding books.
func NewMockBookStore(books ...*domain.Book) *MockBookStore {
	m := &MockBookStore{
		books: make(map[uuid.UUID]domain.Book),
		calls: make(map[string]int),
	}
	for _, b := range books {
		m.books[b.ID] = *b
	}
	return m
}

var _ store.BookStore = (*MockBookStore)(nil)

// Calls returns how many times method was invoked.
func (m *MockBookStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockBookStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
}

// Create implements store.BookStore.
func (m *MockBookStore) Create(ctx context.Context, book *domain.Book) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, book)
	}
	if err := book.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.books[book.ID]; exists {
		return store.ErrDuplicate
	}
	m.books[book.ID] = *book
	return nil
}

// GetByID implements store.BookStore.
func (m *MockBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	return &book, nil
}

// Update implements store.BookStore.
func (m *MockBookStore) Update(ctx context.Context, book *domain.Book) error {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, book)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[book.ID]; !ok {
		return store.ErrBookNotFound
	}
	m.books[book.ID] = *book
	return nil
}

// SoftDelete implements store.BookStore.
func (m *MockBookStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Book, error) {
	m.record("SoftDelete")
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id, at)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	book.DeletedAt = &at
	m.books[id] = book
	return &book, nil
}

// List implements store.BookStore.
func (m *MockBookStore) List(ctx context.Context, page store.Page) ([]*domain.Book, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	return paginate(m.visible(page.AsOf, ""), page), nil
}

// Count implements store.BookStore.
func (m *MockBookStore) Count(ctx context.Context, asOf time.Time) (int, error) {
	m.record("Count")
	if m.CountFn != nil {
		return m.CountFn(ctx, asOf)
	}
	return len(m.visible(asOf, "")), nil
}

// Search implements store.BookStore.
func (m *MockBookStore) Search(ctx context.Context, query string, page store.Page) ([]*domain.Book, error) {
	m.record("Search")
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, page)
	}
	return paginate(m.visible(page.AsOf, query), page), nil
}

// CountSearch implements store.BookStore.
func (m *MockBookStore) CountSearch(ctx context.Context, query string, asOf time.Time) (int, error) {
	m.record("CountSearch")
	if m.CountSearchFn != nil {
		return m.CountSearchFn(ctx, query, asOf)
	}
	return len(m.visible(asOf, query)), nil
}

// WithTx implements store.BookStore. The mock ignores transactions.
func (m *MockBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return m
}

func (m *MockBookStore) visible(asOf time.Time, query string) []*domain.Book {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]*domain.Book, 0, len(m.books))
	for _, b := range m.books {
		if b.IsDeleted(asOf) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.ShortSummary), needle) {
			continue
		}
		book := b
		out = append(out, &book)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func paginate[T any](items []T, page store.Page) []T {
	if page.Offset >= len(items) {
		return make([]T, 0)
	}
	end := len(items)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return items[page.Offset:end]
}
