// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It provides typed
// settings for the HTTP server, the PostgreSQL connection pool, the book
// write queue, rate limiting and startup seeding.
package config
