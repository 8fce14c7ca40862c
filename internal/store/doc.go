// Package store defines the persistence contracts for authors and books.
// Implementations live under internal/platform; services depend only on the
// interfaces here so storage can be swapped or mocked in tests.
package store
