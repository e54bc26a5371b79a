// Package models defines the client-side DTOs exchanged with the journal
// service. JSON field names follow the HTTP API contract.
package models

// User is the account owning the journal.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
