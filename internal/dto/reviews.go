package dto

import (
	"encoding/json"

	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/rating"
)

// ReviewRequest is a submitted review. Rating and comment are checked by the
// review service so that out-of-range values surface as review validation failures.
type ReviewRequest struct {
	Rating   json.Number `json:"rating"`
	Comment  string      `json:"comment"`
	UserName string      `json:"userName" validate:"max=80"`
}

// ReviewListResponse wraps a review list with its aggregate.
type ReviewListResponse struct {
	rating.Summary
	Reviews []entity.Review `json:"reviews"`
}
