package dto

type ProductFilters struct {
	CategoryID  string
	SearchQuery string // name substring, case-insensitive
	SortOrder   string // asc, desc
	Page        int
	PageSize    int // 0 means no pagination
}
