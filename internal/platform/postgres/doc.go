// Package postgres provides PostgreSQL implementations of the author and book
// stores defined in internal/store, the embedded schema migrations, and the
// mapping of driver errors onto store errors.
package postgres
