package filter

import (
	"math"

	"github.com/siahsang/yatube/internal/validator"
)

// PageSize is the number of posts on every feed page.
const PageSize = 10

// Filter selects one page of an ordered result set. Pages are 1-based.
type Filter struct {
	Page     int64
	PageSize int64
}

type Metadata struct {
	CurrentPage  int64 `json:"currentPage"`
	PageSize     int64 `json:"pageSize"`
	FirstPage    int64 `json:"firstPage"`
	LastPage     int64 `json:"lastPage"`
	TotalRecords int64 `json:"totalRecords"`
	HasNext      bool  `json:"hasNext"`
	HasPrevious  bool  `json:"hasPrevious"`
}

// NewFilter returns a filter for page. Values below 1 select the first page.
func NewFilter(page int64) Filter {
	if page < 1 {
		page = 1
	}
	return Filter{
		Page:     page,
		PageSize: PageSize,
	}
}

func (f Filter) Limit() int64 {
	return f.PageSize
}

func (f Filter) Offset() int64 {
	return (f.Page - 1) * f.PageSize
}

func ValidateFilter(v *validator.Validator, f Filter) {
	v.Check(f.Page > 0, "page", "must be greater than 0")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than 0")
	v.Check(f.PageSize <= 100, "page_size", "must be a maximum of 100")
}

// CalculateMetadata describes the page f selects out of totalRecords. A page past the end is
// reported as it is, so callers render it empty.
func CalculateMetadata(f Filter, totalRecords int64) Metadata {
	lastPage := int64(math.Ceil(float64(totalRecords) / float64(f.PageSize)))
	if lastPage < 1 {
		lastPage = 1
	}

	return Metadata{
		CurrentPage:  f.Page,
		PageSize:     f.PageSize,
		FirstPage:    1,
		LastPage:     lastPage,
		TotalRecords: totalRecords,
		HasNext:      f.Page < lastPage,
		HasPrevious:  f.Page > 1,
	}
}
