// Package api handles incoming HTTP requests for the book catalog. It decodes
// and validates requests, calls the catalog services and renders JSON
// responses, translating service errors to HTTP statuses without leaking
// internal details.
package api
