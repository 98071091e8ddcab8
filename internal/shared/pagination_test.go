package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name                string
		page, limit, total  int
		wantPage, wantLimit int
		wantPages           int
	}{
		{name: "defaults", page: 0, limit: 0, total: 0, wantPage: 1, wantLimit: 10, wantPages: 0},
		{name: "exact", page: 2, limit: 5, total: 10, wantPage: 2, wantLimit: 5, wantPages: 2},
		{name: "rounds up", page: 1, limit: 10, total: 21, wantPage: 1, wantLimit: 10, wantPages: 3},
		{name: "negative clamps", page: -3, limit: -1, total: 3, wantPage: 1, wantLimit: 10, wantPages: 1},
		{name: "limit capped", page: 1, limit: 5000, total: 250, wantPage: 1, wantLimit: MaxPageSize, wantPages: 3},
		{name: "page capped", page: 1_000_000_000_000_000_000, limit: 10, total: 3, wantPage: MaxPage, wantLimit: 10, wantPages: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, NewPagination(1, 10, 0).Offset())
	assert.Equal(t, 20, NewPagination(3, 10, 0).Offset())

	huge := NewPagination(math.MaxInt, math.MaxInt, 0)
	assert.Positive(t, huge.Offset())
	assert.LessOrEqual(t, huge.Offset(), math.MaxInt32)
}
