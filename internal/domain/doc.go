// Package domain contains the catalog entities (authors and books), their
// validation rules, the soft-delete visibility rule, pagination metadata and
// image preview formatting. It is independent of storage and transport.
package domain
