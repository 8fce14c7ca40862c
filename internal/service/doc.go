// Package service contains the catalog use cases. It orchestrates the domain
// entities, the persistence contracts in internal/store, the read cache and
// the task queue that serializes book inserts.
//
// Services return sentinel errors for expected conditions (ErrBookNotFound,
// ErrAuthorNotFound, ErrUnknownAuthor, domain validation errors) and wrap
// everything else in a ServiceError. The API layer maps them to HTTP statuses.
package service
