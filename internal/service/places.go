package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/places"
	"github.com/octobees/nearby/api/internal/search"
)

// PlaceDetailsProvider fetches a single place from the external provider.
type PlaceDetailsProvider interface {
	Details(ctx context.Context, placeID string) (*places.Place, error)
}

// PlaceReviewLister reads internal reviews keyed by provider place id.
type PlaceReviewLister interface {
	ListByPlace(ctx context.Context, placeID string) ([]entity.Review, error)
}

// PlaceReview is a review on an external place tagged with where it came from.
type PlaceReview struct {
	entity.Review
	Source search.Source `json:"source"`
}

// PlaceDetail is the canonical view of an external place with its merged reviews.
type PlaceDetail struct {
	search.Business
	Reviews []PlaceReview     `json:"reviews"`
	Hours   map[string]string `json:"hours,omitempty"`
}

// PlacesService serves detail views of external places.
type PlacesService struct {
	provider   PlaceDetailsProvider
	reviews    PlaceReviewLister
	normalizer *search.Normalizer
}

// NewPlacesService creates a new PlacesService.
func NewPlacesService(provider PlaceDetailsProvider, reviews PlaceReviewLister, normalizer *search.Normalizer) *PlacesService {
	return &PlacesService{provider: provider, reviews: reviews, normalizer: normalizer}
}

// Details loads the place and its internal reviews concurrently. Internal
// reviews come first, followed by provider reviews when includeProviderReviews
// is set.
func (s *PlacesService) Details(ctx context.Context, placeID string, includeProviderReviews bool) (*PlaceDetail, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, ErrNotFound
	}

	var (
		place    *places.Place
		internal []entity.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.provider.Details(gctx, placeID)
		if err != nil {
			if errors.Is(err, places.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("%w: %w", search.ErrExternalProviderUnavailable, err)
		}
		place = p
		return nil
	})
	g.Go(func() error {
		reviews, err := s.reviews.ListByPlace(gctx, placeID)
		if err != nil {
			return fmt.Errorf("%w: %w", search.ErrInternalStoreUnavailable, err)
		}
		internal = reviews
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	business, err := s.normalizer.Normalize(search.ExternalRecord{Place: *place})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrExternalProviderUnavailable, err)
	}

	merged := make([]PlaceReview, 0, len(internal)+len(place.Reviews))
	for _, r := range internal {
		merged = append(merged, PlaceReview{Review: r, Source: search.SourceInternal})
	}
	if includeProviderReviews {
		for _, r := range place.Reviews {
			merged = append(merged, PlaceReview{
				Review: entity.Review{
					BusinessID: placeID,
					AuthorName: r.AuthorName,
					Rating:     r.Rating,
					Comment:    r.Text,
					CreatedAt:  time.Unix(r.Time, 0).UTC(),
				},
				Source: search.SourceExternal,
			})
		}
	}

	return &PlaceDetail{
		Business: business,
		Reviews:  merged,
		Hours:    places.WeeklyHours(place.OpeningHours),
	}, nil
}
