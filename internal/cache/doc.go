// Package cache provides an in-memory read-through cache of books (with their
// authors) and authors in front of the persistence stores.
package cache
