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

// MockAuthorStore implements store.AuthorStore for testing.
type MockAuthorStore struct {
	CreateFn      func(ctx context.Context, author *domain.Author) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Author, error)
	UpdateFn      func(ctx context.Context, author *domain.Author) error
	SoftDeleteFn  func(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Author, error)
	ListFn        func(ctx context.Context, page store.Page) ([]*domain.Author, error)
	CountFn       func(ctx context.Context, asOf time.Time) (int, error)
	SearchFn      func(ctx context.Context, query string, page store.Page) ([]*domain.Author, error)
	CountSearchFn func(ctx context.Context, query string, asOf time.Time) (int, error)

	mu      sync.Mutex
	authors map[uuid.UUID]domain.Author
	calls   map[string]int
}

// NewMockAuthorStore creates a mock store holding authors.
func NewMockAuthorStore(authors ...*domain.Author) *MockAuthorStore {
	m := &MockAuthorStore{
		authors: make(map[uuid.UUID]domain.Author),
		calls:   make(map[string]int),
	}
	for _, a := range authors {
		m.authors[a.ID] = *a
	}
	return m
}

var _ store.AuthorStore = (*MockAuthorStore)(nil)

// Calls returns how many times method was invoked.
func (m *MockAuthorStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockAuthorStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
}

// Create implements store.AuthorStore.
func (m *MockAuthorStore) Create(ctx context.Context, author *domain.Author) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, author)
	}
	if err := author.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.authors[author.ID]; exists {
		return store.ErrDuplicate
	}
	m.authors[author.ID] = *author
	return nil
}

// GetByID implements store.AuthorStore.
func (m *MockAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	author, ok := m.authors[id]
	if !ok {
		return nil, store.ErrAuthorNotFound
	}
	return &author, nil
}

// Update implements store.AuthorStore.
func (m *MockAuthorStore) Update(ctx context.Context, author *domain.Author) error {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, author)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.authors[author.ID]; !ok {
		return store.ErrAuthorNotFound
	}
	m.authors[author.ID] = *author
	return nil
}

// SoftDelete implements store.AuthorStore.
func (m *MockAuthorStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Author, error) {
	m.record("SoftDelete")
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id, at)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	author, ok := m.authors[id]
	if !ok {
		return nil, store.ErrAuthorNotFound
	}
	author.DeletedAt = &at
	m.authors[id] = author
	return &author, nil
}

// List implements store.AuthorStore.
func (m *MockAuthorStore) List(ctx context.Context, page store.Page) ([]*domain.Author, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	return paginate(m.visible(page.AsOf, ""), page), nil
}

// Count implements store.AuthorStore.
func (m *MockAuthorStore) Count(ctx context.Context, asOf time.Time) (int, error) {
	m.record("Count")
	if m.CountFn != nil {
		return m.CountFn(ctx, asOf)
	}
	return len(m.visible(asOf, "")), nil
}

// Search implements store.AuthorStore.
func (m *MockAuthorStore) Search(ctx context.Context, query string, page store.Page) ([]*domain.Author, error) {
	m.record("Search")
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, page)
	}
	return paginate(m.visible(page.AsOf, query), page), nil
}

// CountSearch implements store.AuthorStore.
func (m *MockAuthorStore) CountSearch(ctx context.Context, query string, asOf time.Time) (int, error) {
	m.record("CountSearch")
	if m.CountSearchFn != nil {
		return m.CountSearchFn(ctx, query, asOf)
	}
	return len(m.visible(asOf, query)), nil
}

// WithTx implements store.AuthorStore. The mock ignores transactions.
func (m *MockAuthorStore) WithTx(tx *sql.Tx) store.AuthorStore {
	return m
}

func (m *MockAuthorStore) visible(asOf time.Time, query string) []*domain.Author {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]*domain.Author, 0, len(m.authors))
	for _, a := range m.authors {
		if a.IsDeleted(asOf) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.Name), needle) &&
			!strings.Contains(strings.ToLower(a.Bio), needle) {
			continue
		}
		author := a
		out = append(out, &author)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
