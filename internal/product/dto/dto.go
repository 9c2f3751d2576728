package dto

type ProductFilters struct {
	CategoryID  string `json:"category_id"`
	SearchQuery string `json:"search_query"` // Name substring, case-insensitive
	SortBy      string `json:"sort_by"`      // name, price, created_at
	SortOrder   string `json:"sort_order"`   // asc, desc
}
