package entity

import "time"

// Review is an immutable rating left on a business. BusinessID holds either an
// internal business UUID or an external provider place id.
type Review struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	AuthorName string    `json:"author_name"`
	AuthorID   *string   `json:"author_id,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
