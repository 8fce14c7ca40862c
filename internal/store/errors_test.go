package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"ErrBookNotFound", ErrBookNotFound, true},
		{"ErrAuthorNotFound", ErrAuthorNotFound, true},
		{"wrapped ErrBookNotFound", fmt.Errorf("get: %w", ErrBookNotFound), true},
		{"store error wrapping not found", NewStoreError("book", "get", "missing", ErrBookNotFound), true},
		{"ErrDuplicate", ErrDuplicate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestEntityNotFoundErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrBookNotFound, ErrAuthorNotFound))
	assert.False(t, errors.Is(ErrAuthorNotFound, ErrBookNotFound))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("book", "list", "query failed", cause)

	assert.Equal(t, "list operation on book failed: query failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	var storeErr *StoreError
	wrapped := fmt.Errorf("service: %w", err)
	if assert.True(t, errors.As(wrapped, &storeErr)) {
		assert.Equal(t, "book", storeErr.Entity)
		assert.Equal(t, "list", storeErr.Operation)
	}

	bare := NewStoreError("author", "create", "rejected", nil)
	assert.Equal(t, "create operation on author failed: rejected", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}
