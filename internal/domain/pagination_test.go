package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       int
		limit      int
		total      int
		minOnePage bool
		wantPages  int
	}{
		{"exact multiple", 1, 10, 30, false, 3},
		{"partial last page", 2, 10, 31, false, 4},
		{"empty listing", 1, 10, 0, false, 0},
		{"empty search", 1, 10, 0, true, 1},
		{"zero limit", 1, 0, 5, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total, tt.minOnePage)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.total, p.TotalItems)
			assert.Equal(t, tt.limit, p.ItemsPerPage)
		})
	}
}

func TestOffset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))
	assert.Equal(t, 0, Offset(0, 10))
	assert.Equal(t, 0, Offset(3, 0))
}

func TestOffset_NeverOverflows(t *testing.T) {
	t.Parallel()

	huge := math.MaxInt64 / 50
	assert.Equal(t, (MaxPage-1)*MaxLimit, Offset(huge, 100))
	assert.Equal(t, (MaxPage-1)*MaxLimit, Offset(math.MaxInt, math.MaxInt))
	assert.GreaterOrEqual(t, Offset(huge, 100), 0)
}
