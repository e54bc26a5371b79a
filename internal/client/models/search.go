package models

// SearchPage is the response of the full-text search endpoint.
type SearchPage struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Query   string  `json:"query"`
}
