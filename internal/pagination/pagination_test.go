package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                string
		page, perPage       int
		total               int64
		wantOffset          int
		wantPages           int
		wantNext, wantPrev  bool
		wantBeyond          bool
	}{
		{name: "empty", page: 1, perPage: 10, total: 0, wantOffset: 0, wantPages: 0, wantBeyond: true},
		{name: "first of three", page: 1, perPage: 10, total: 25, wantOffset: 0, wantPages: 3, wantNext: true},
		{name: "middle", page: 2, perPage: 10, total: 25, wantOffset: 10, wantPages: 3, wantNext: true, wantPrev: true},
		{name: "last partial", page: 3, perPage: 10, total: 25, wantOffset: 20, wantPages: 3, wantPrev: true},
		{name: "exact multiple", page: 2, perPage: 5, total: 10, wantOffset: 5, wantPages: 2, wantPrev: true},
		{name: "beyond last", page: 4, perPage: 10, total: 25, wantOffset: 30, wantPages: 3, wantPrev: true, wantBeyond: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Paginate(tt.page, tt.perPage, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffset, st.Offset)
			assert.Equal(t, tt.perPage, st.Limit)
			assert.Equal(t, tt.wantPages, st.TotalPages)
			assert.Equal(t, tt.wantNext, st.HasNext)
			assert.Equal(t, tt.wantPrev, st.HasPrev)
			assert.Equal(t, tt.wantBeyond, st.Beyond())
		})
	}
}

func TestPaginateRejectsPageBelowOne(t *testing.T) {
	for _, page := range []int{0, -1} {
		_, err := Paginate(page, 10, 100)
		assert.ErrorIs(t, err, ErrInvalidPage)
	}
}

func TestPageAfterLastIsEmpty(t *testing.T) {
	for n := int64(0); n <= 23; n++ {
		for _, p := range []int{1, 3, 10} {
			last := int((n + int64(p) - 1) / int64(p))
			st, err := Paginate(last+1, p, n)
			require.NoError(t, err)
			assert.False(t, st.HasNext)
			assert.True(t, st.Beyond(), "n=%d p=%d", n, p)
		}
	}
}

func TestNormalizePerPage(t *testing.T) {
	assert.Equal(t, 10, NormalizePerPage(0, 10))
	assert.Equal(t, 20, NormalizePerPage(-3, 20))
	assert.Equal(t, 7, NormalizePerPage(7, 10))
	assert.Equal(t, MaxPerPage, NormalizePerPage(500, 10))
	assert.Equal(t, DefaultPerPage, NormalizePerPage(0, 0))
}
