package entity

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a user to a business id from either source namespace.
type Favorite struct {
	UserID     uuid.UUID `json:"user_id"`
	BusinessID string    `json:"business_id"`
	CreatedAt  time.Time `json:"created_at"`
}
