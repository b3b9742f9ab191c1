package search

import (
	"github.com/octobees/nearby/api/internal/category"
	"github.com/octobees/nearby/api/internal/geo"
)

// Source tags the namespace a business id belongs to.
type Source string

const (
	SourceInternal Source = "internal"
	SourceExternal Source = "external"
)

// Business is the canonical view of a listing regardless of where it came from.
// DistanceFromUser and Distance are only set on search results.
type Business struct {
	ID               string            `json:"id"`
	Source           Source            `json:"source"`
	Name             string            `json:"name"`
	Category         category.Category `json:"category"`
	Location         geo.Coordinate    `json:"location"`
	Address          string            `json:"address"`
	Rating           float64           `json:"rating"`
	ReviewCount      int               `json:"review_count"`
	Photos           []string          `json:"photos"`
	DistanceFromUser *float64          `json:"distance_from_user,omitempty"`
	Distance         string            `json:"distance,omitempty"`
	Description      *string           `json:"description,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	Website          *string           `json:"website,omitempty"`
	OwnerID          *string           `json:"owner_id,omitempty"`
	ExternalPlaceID  *string           `json:"external_place_id,omitempty"`
}

type identity struct {
	source Source
	id     string
}

func (b Business) key() identity {
	return identity{source: b.Source, id: b.ID}
}
