package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/nearby/api/internal/auth"
	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/repository"
)

// FavoriteService toggles and lists a user's favorites. Business ids may come
// from either source namespace and are not resolved.
type FavoriteService struct {
	repo repository.FavoritesRepository
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(repo repository.FavoritesRepository) *FavoriteService {
	return &FavoriteService{repo: repo}
}

// Toggle flips the favorite state and reports whether the business is now a favorite.
func (s *FavoriteService) Toggle(ctx context.Context, identity auth.Identity, businessID string) (bool, error) {
	userID, err := userIDOf(identity)
	if err != nil {
		return false, err
	}
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return false, fmt.Errorf("%w: business id is required", ErrInvalidInput)
	}
	return s.repo.Toggle(ctx, userID, businessID)
}

// List returns the caller's favorites, newest first.
func (s *FavoriteService) List(ctx context.Context, identity auth.Identity) ([]entity.Favorite, error) {
	userID, err := userIDOf(identity)
	if err != nil {
		return nil, err
	}
	favorites, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []entity.Favorite{}
	}
	return favorites, nil
}

func userIDOf(identity auth.Identity) (uuid.UUID, error) {
	if !identity.IsAuthenticated() {
		return uuid.Nil, ErrUnauthenticated
	}
	id, err := uuid.Parse(identity.Subject())
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", ErrForbidden)
	}
	return id, nil
}
