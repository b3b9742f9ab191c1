package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/octobees/nearby/api/internal/auth"
	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/rating"
	"github.com/octobees/nearby/api/internal/repository"
)

const (
	anonymousAuthor  = "Anonymous"
	maxCommentLength = 2000
	maxAuthorLength  = 80
)

// ReviewInput is a submitted rating and comment. Rating keeps the number as
// sent so fractional values can be refused. UserName names pseudonymous
// authors and is ignored for authenticated callers that carry a name.
type ReviewInput struct {
	Rating   float64
	Comment  string
	UserName string
}

// BusinessLookup resolves internal listings.
type BusinessLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
}

// ReviewService appends reviews to internal businesses and external places.
type ReviewService struct {
	reviews    repository.ReviewsRepository
	businesses BusinessLookup
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repository.ReviewsRepository, businesses BusinessLookup) *ReviewService {
	return &ReviewService{reviews: reviews, businesses: businesses}
}

// SubmitForBusiness appends a review to an internal listing.
func (s *ReviewService) SubmitForBusiness(ctx context.Context, identity auth.Identity, businessID string, in ReviewInput) (*entity.Review, error) {
	review, err := newReview(identity, in)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(strings.TrimSpace(businessID))
	if err != nil {
		return nil, ErrNotFound
	}
	if _, err := s.businesses.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	review.BusinessID = id.String()
	return s.reviews.CreateForBusiness(ctx, review)
}

// SubmitForPlace appends an internal review keyed by an external place id.
func (s *ReviewService) SubmitForPlace(ctx context.Context, identity auth.Identity, placeID string, in ReviewInput) (*entity.Review, error) {
	review, err := newReview(identity, in)
	if err != nil {
		return nil, err
	}

	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, fmt.Errorf("%w: place id is required", ErrInvalidInput)
	}

	review.BusinessID = placeID
	return s.reviews.CreateForPlace(ctx, review)
}

// ListForBusiness returns the reviews of an internal listing with their aggregate.
func (s *ReviewService) ListForBusiness(ctx context.Context, businessID string) ([]entity.Review, rating.Summary, error) {
	id, err := uuid.Parse(strings.TrimSpace(businessID))
	if err != nil {
		return nil, rating.Summary{}, ErrNotFound
	}
	if _, err := s.businesses.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, rating.Summary{}, ErrNotFound
		}
		return nil, rating.Summary{}, err
	}

	reviews, err := s.reviews.ListByBusiness(ctx, id)
	if err != nil {
		return nil, rating.Summary{}, err
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}
	return reviews, rating.Aggregate(reviews), nil
}

// newReview validates the submission and resolves the author. It performs no I/O.
func newReview(identity auth.Identity, in ReviewInput) (*entity.Review, error) {
	if math.IsNaN(in.Rating) || in.Rating != math.Trunc(in.Rating) || in.Rating < 1 || in.Rating > rating.MaxRating {
		return nil, fmt.Errorf("%w: rating must be a whole number between 1 and 5", ErrReviewValidationFailed)
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrReviewValidationFailed)
	}
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment exceeds %d characters", ErrReviewValidationFailed, maxCommentLength)
	}

	review := &entity.Review{Rating: int(in.Rating), Comment: comment}
	if identity.IsAuthenticated() {
		subject := identity.Subject()
		review.AuthorID = &subject
		review.AuthorName = identity.Name()
	}
	if review.AuthorName == "" {
		review.AuthorName = strings.TrimSpace(in.UserName)
	}
	if review.AuthorName == "" {
		review.AuthorName = anonymousAuthor
	}
	if utf8.RuneCountInString(review.AuthorName) > maxAuthorLength {
		review.AuthorName = string([]rune(review.AuthorName)[:maxAuthorLength])
	}
	return review, nil
}
