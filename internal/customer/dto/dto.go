package dto

type CustomerFilters struct {
	SortOrder string // asc, desc
	Page      int
	PageSize  int // 0 means no pagination
}
