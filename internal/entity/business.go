package entity

import (
	"time"

	"github.com/google/uuid"
)

// Business represents a listing stored in the internal catalogue.
type Business struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Description     *string   `json:"description,omitempty"`
	Address         string    `json:"address"`
	Phone           *string   `json:"phone,omitempty"`
	Website         *string   `json:"website,omitempty"`
	Photos          []string  `json:"photos"`
	Longitude       float64   `json:"longitude"`
	Latitude        float64   `json:"latitude"`
	ExternalPlaceID *string   `json:"external_place_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
