// Package mocks provides centralized mock implementations for testing.
//
// Each mock has function fields for every interface method. When a field is
// nil the mock falls back to a thread-safe in-memory implementation, so most
// tests only override the calls they want to fail or observe.
//
//	books := mocks.NewMockBookStore()
//	books.CreateFn = func(ctx context.Context, b *domain.Book) error {
//	    return store.ErrInvalidEntity
//	}
package mocks
