package pagination

import "Khobor_Live/internal/apperr"

const (
	DefaultPerPage = 10
	MaxPerPage     = 50
)

var ErrInvalidPage = apperr.New(apperr.KindValidation, "invalid_page", "page must be at least 1")

// State 分页结果。页码超出总页数不是错误，只是 Offset 会落在数据之外
type State struct {
	Page       int
	PerPage    int
	TotalCount int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
	Offset     int
	Limit      int
}

// NormalizePerPage perPage 非正数时用默认值，超过上限时截断
func NormalizePerPage(perPage, fallback int) int {
	if fallback <= 0 {
		fallback = DefaultPerPage
	}
	if perPage <= 0 {
		perPage = fallback
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return perPage
}

// Paginate 把 (page, perPage, total) 换算成 offset/limit 和翻页标记
func Paginate(page, perPage int, total int64) (State, error) {
	if page < 1 {
		return State{}, ErrInvalidPage
	}
	perPage = NormalizePerPage(perPage, DefaultPerPage)

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return State{
		Page:       page,
		PerPage:    perPage,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		Offset:     (page - 1) * perPage,
		Limit:      perPage,
	}, nil
}

// Beyond 当前页是否已经没有数据
func (s State) Beyond() bool {
	return int64(s.Offset) >= s.TotalCount
}
