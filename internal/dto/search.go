package dto

import "github.com/octobees/nearby/api/internal/search"

// NearbyResponse is the combined search payload.
type NearbyResponse struct {
	Businesses []search.Business `json:"businesses"`
	Degraded   bool              `json:"degraded"`
}

// ExternalPlacesResponse is the external-only search payload.
type ExternalPlacesResponse struct {
	Results []search.Business `json:"results"`
}

// FavoriteToggleResponse reports the favorite state after a toggle.
type FavoriteToggleResponse struct {
	BusinessID string `json:"business_id"`
	Favorite   bool   `json:"favorite"`
}
