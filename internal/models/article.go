package models

import "time"

// Article is a normalized news item from the content provider.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Body          string    `json:"body"`
	Author        string    `json:"author"`
	Image         string    `json:"image"`
	URL           string    `json:"url"`
	PublishedDate time.Time `json:"publishedDate"`
	Category      string    `json:"category"`
}

// NewsPage is one page of search results.
type NewsPage struct {
	Articles    []Article `json:"articles"`
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"currentPage"`
}

// NewsQuery selects a page of football news.
type NewsQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Search   string `query:"search"`
}

const (
	DefaultPageSize = 6
	MaxPageSize     = 50
)

// Normalize clamps paging values into their accepted ranges.
func (q NewsQuery) Normalize() NewsQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}
