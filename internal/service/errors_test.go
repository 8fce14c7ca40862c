package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	dbErr := errors.New("db down")

	tests := []struct {
		name   string
		err    error
		wantIs error
		wantSE bool
	}{
		{"nil", nil, nil, false},
		{"store book not found", fmt.Errorf("lookup: %w", store.ErrBookNotFound), ErrBookNotFound, false},
		{"store author not found", store.ErrAuthorNotFound, ErrAuthorNotFound, false},
		{"validation passes through", domain.ErrEmptyTitle, domain.ErrEmptyTitle, false},
		{"unexpected is wrapped", dbErr, dbErr, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapError("book", "get", "failed", tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantIs)

			var se *ServiceError
			assert.Equal(t, tt.wantSE, errors.As(got, &se))
			if tt.wantSE {
				assert.Equal(t, "book service get failed: failed: db down", se.Error())
			}
		})
	}
}
