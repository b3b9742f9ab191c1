package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/places"
	"github.com/octobees/nearby/api/internal/repository"
)

type mockUsersRepository struct {
	findByEmail func(ctx context.Context, email string) (*entity.User, error)
	findByID    func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	create      func(ctx context.Context, email, name, passwordHash, role string) (*entity.User, error)
}

func (m *mockUsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmail != nil {
		return m.findByEmail(ctx, email)
	}
	return nil, errors.New("findByEmail not implemented")
}

func (m *mockUsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockUsersRepository) Create(ctx context.Context, email, name, passwordHash, role string) (*entity.User, error) {
	if m.create != nil {
		return m.create(ctx, email, name, passwordHash, role)
	}
	return nil, errors.New("create not implemented")
}

type mockBusinessesRepository struct {
	nearby     func(ctx context.Context, filter repository.NearbyFilter) ([]entity.Business, error)
	getByID    func(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	create     func(ctx context.Context, business *entity.Business) (*entity.Business, error)
	update     func(ctx context.Context, business *entity.Business) (*entity.Business, error)
	bulkUpsert func(ctx context.Context, records []repository.BulkUpsertBusinessInput) (repository.BulkUpsertResult, error)
}

func (m *mockBusinessesRepository) Nearby(ctx context.Context, filter repository.NearbyFilter) ([]entity.Business, error) {
	if m.nearby != nil {
		return m.nearby(ctx, filter)
	}
	return nil, errors.New("Nearby not implemented")
}

func (m *mockBusinessesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return nil, errors.New("GetByID not implemented")
}

func (m *mockBusinessesRepository) Create(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if m.create != nil {
		return m.create(ctx, business)
	}
	return nil, errors.New("Create not implemented")
}

func (m *mockBusinessesRepository) Update(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if m.update != nil {
		return m.update(ctx, business)
	}
	return nil, errors.New("Update not implemented")
}

func (m *mockBusinessesRepository) BulkUpsert(ctx context.Context, records []repository.BulkUpsertBusinessInput) (repository.BulkUpsertResult, error) {
	if m.bulkUpsert != nil {
		return m.bulkUpsert(ctx, records)
	}
	return repository.BulkUpsertResult{}, errors.New("BulkUpsert not implemented")
}

type mockReviewsRepository struct {
	listByBusinesses  func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]entity.Review, error)
	listByBusiness    func(ctx context.Context, id uuid.UUID) ([]entity.Review, error)
	createForBusiness func(ctx context.Context, review *entity.Review) (*entity.Review, error)
	listByPlace       func(ctx context.Context, placeID string) ([]entity.Review, error)
	createForPlace    func(ctx context.Context, review *entity.Review) (*entity.Review, error)
}

func (m *mockReviewsRepository) ListByBusinesses(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]entity.Review, error) {
	if m.listByBusinesses != nil {
		return m.listByBusinesses(ctx, ids)
	}
	return nil, errors.New("ListByBusinesses not implemented")
}

func (m *mockReviewsRepository) ListByBusiness(ctx context.Context, id uuid.UUID) ([]entity.Review, error) {
	if m.listByBusiness != nil {
		return m.listByBusiness(ctx, id)
	}
	return nil, errors.New("ListByBusiness not implemented")
}

func (m *mockReviewsRepository) CreateForBusiness(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if m.createForBusiness != nil {
		return m.createForBusiness(ctx, review)
	}
	return nil, errors.New("CreateForBusiness not implemented")
}

func (m *mockReviewsRepository) ListByPlace(ctx context.Context, placeID string) ([]entity.Review, error) {
	if m.listByPlace != nil {
		return m.listByPlace(ctx, placeID)
	}
	return nil, errors.New("ListByPlace not implemented")
}

func (m *mockReviewsRepository) CreateForPlace(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if m.createForPlace != nil {
		return m.createForPlace(ctx, review)
	}
	return nil, errors.New("CreateForPlace not implemented")
}

type mockFavoritesRepository struct {
	toggle func(ctx context.Context, userID uuid.UUID, businessID string) (bool, error)
	list   func(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error)
}

func (m *mockFavoritesRepository) Toggle(ctx context.Context, userID uuid.UUID, businessID string) (bool, error) {
	if m.toggle != nil {
		return m.toggle(ctx, userID, businessID)
	}
	return false, errors.New("Toggle not implemented")
}

func (m *mockFavoritesRepository) List(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error) {
	if m.list != nil {
		return m.list(ctx, userID)
	}
	return nil, errors.New("List not implemented")
}

type mockPlaceDetails struct {
	details func(ctx context.Context, placeID string) (*places.Place, error)
}

func (m *mockPlaceDetails) Details(ctx context.Context, placeID string) (*places.Place, error) {
	if m.details != nil {
		return m.details(ctx, placeID)
	}
	return nil, errors.New("Details not implemented")
}
