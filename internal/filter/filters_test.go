package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/siahsang/yatube/internal/validator"
	"github.com/stretchr/testify/assert"
)

func TestNewFilter(t *testing.T) {
	tests := []struct {
		page       int64
		wantPage   int64
		wantOffset int64
	}{
		{page: 1, wantPage: 1, wantOffset: 0},
		{page: 2, wantPage: 2, wantOffset: 10},
		{page: 0, wantPage: 1, wantOffset: 0},
		{page: -4, wantPage: 1, wantOffset: 0},
	}

	for _, tc := range tests {
		f := NewFilter(tc.page)
		assert.Equal(t, tc.wantPage, f.Page)
		assert.Equal(t, tc.wantOffset, f.Offset())
		assert.EqualValues(t, PageSize, f.Limit())
	}
}

func TestCalculateMetadata(t *testing.T) {
	m := CalculateMetadata(NewFilter(2), 15)
	want := Metadata{
		CurrentPage: 2, PageSize: 10, FirstPage: 1, LastPage: 2, TotalRecords: 15,
		HasNext: false, HasPrevious: true,
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("CalculateMetadata() mismatch (-want +got):\n%s", diff)
	}

	empty := CalculateMetadata(NewFilter(1), 0)
	assert.EqualValues(t, 1, empty.LastPage)
	assert.False(t, empty.HasNext)

	beyond := CalculateMetadata(NewFilter(7), 15)
	assert.EqualValues(t, 7, beyond.CurrentPage)
	assert.False(t, beyond.HasNext)
}

func TestValidateFilter(t *testing.T) {
	v := validator.New()
	ValidateFilter(v, Filter{Page: 0, PageSize: 500})
	assert.Contains(t, v.Errors, "page")
	assert.Contains(t, v.Errors, "page_size")

	v = validator.New()
	ValidateFilter(v, NewFilter(3))
	assert.True(t, v.IsValid())
}
