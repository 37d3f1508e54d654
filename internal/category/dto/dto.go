package dto

type CategoryFilters struct {
	SortOrder string // asc, desc
	Page      int
	PageSize  int // 0 means no pagination
}
