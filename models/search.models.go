package models

// Sort keys accepted by the search engine
const (
	SortRelevance = "relevance"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
)

// CategoryAll disables the category filter
const CategoryAll = "all"

// SearchQuery is the transient state of the search page
type SearchQuery struct {
	Text     string `json:"q"`
	Category string `json:"category"`
	Sort     string `json:"sort"`
}
