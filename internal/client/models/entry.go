package models

import "time"

// Lifecycle is the publication state of a journal document.
type Lifecycle string

const (
	LifecycleDraft     Lifecycle = "draft"
	LifecyclePublished Lifecycle = "published"
)

// Entry is a journal entry as returned by the server. Drafts and published
// entries share the shape; Status tells them apart.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    Lifecycle `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntryPage is one page of a journal listing.
type EntryPage struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
}

// DraftPage is one page of the drafts listing.
type DraftPage struct {
	Drafts []Entry `json:"drafts"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}
