package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/nearby/api/internal/auth"
	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/middleware"
	"github.com/octobees/nearby/api/internal/places"
	"github.com/octobees/nearby/api/internal/repository"
)

type stubUsersRepo struct {
	findByEmail func(ctx context.Context, email string) (*entity.User, error)
	create      func(ctx context.Context, email, name, passwordHash, role string) (*entity.User, error)
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) Create(ctx context.Context, email, name, passwordHash, role string) (*entity.User, error) {
	if s.create != nil {
		return s.create(ctx, email, name, passwordHash, role)
	}
	return nil, errors.New("not implemented")
}

type stubBusinessesRepo struct {
	nearby     func(ctx context.Context, filter repository.NearbyFilter) ([]entity.Business, error)
	getByID    func(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	create     func(ctx context.Context, business *entity.Business) (*entity.Business, error)
	update     func(ctx context.Context, business *entity.Business) (*entity.Business, error)
	bulkUpsert func(ctx context.Context, records []repository.BulkUpsertBusinessInput) (repository.BulkUpsertResult, error)
}

func (s *stubBusinessesRepo) Nearby(ctx context.Context, filter repository.NearbyFilter) ([]entity.Business, error) {
	if s.nearby != nil {
		return s.nearby(ctx, filter)
	}
	return nil, nil
}

func (s *stubBusinessesRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return nil, repository.ErrBusinessNotFound
}

func (s *stubBusinessesRepo) Create(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if s.create != nil {
		return s.create(ctx, business)
	}
	return nil, errors.New("not implemented")
}

func (s *stubBusinessesRepo) Update(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if s.update != nil {
		return s.update(ctx, business)
	}
	return nil, errors.New("not implemented")
}

func (s *stubBusinessesRepo) BulkUpsert(ctx context.Context, records []repository.BulkUpsertBusinessInput) (repository.BulkUpsertResult, error) {
	if s.bulkUpsert != nil {
		return s.bulkUpsert(ctx, records)
	}
	return repository.BulkUpsertResult{}, nil
}

type stubReviewsRepo struct {
	listByBusinesses  func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]entity.Review, error)
	listByBusiness    func(ctx context.Context, id uuid.UUID) ([]entity.Review, error)
	createForBusiness func(ctx context.Context, review *entity.Review) (*entity.Review, error)
	listByPlace       func(ctx context.Context, placeID string) ([]entity.Review, error)
	createForPlace    func(ctx context.Context, review *entity.Review) (*entity.Review, error)
}

func (s *stubReviewsRepo) ListByBusinesses(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]entity.Review, error) {
	if s.listByBusinesses != nil {
		return s.listByBusinesses(ctx, ids)
	}
	return map[uuid.UUID][]entity.Review{}, nil
}

func (s *stubReviewsRepo) ListByBusiness(ctx context.Context, id uuid.UUID) ([]entity.Review, error) {
	if s.listByBusiness != nil {
		return s.listByBusiness(ctx, id)
	}
	return nil, nil
}

func (s *stubReviewsRepo) CreateForBusiness(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if s.createForBusiness != nil {
		return s.createForBusiness(ctx, review)
	}
	return nil, errors.New("not implemented")
}

func (s *stubReviewsRepo) ListByPlace(ctx context.Context, placeID string) ([]entity.Review, error) {
	if s.listByPlace != nil {
		return s.listByPlace(ctx, placeID)
	}
	return nil, nil
}

func (s *stubReviewsRepo) CreateForPlace(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if s.createForPlace != nil {
		return s.createForPlace(ctx, review)
	}
	return nil, errors.New("not implemented")
}

type stubFavoritesRepo struct {
	toggle func(ctx context.Context, userID uuid.UUID, businessID string) (bool, error)
	list   func(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error)
}

func (s *stubFavoritesRepo) Toggle(ctx context.Context, userID uuid.UUID, businessID string) (bool, error) {
	if s.toggle != nil {
		return s.toggle(ctx, userID, businessID)
	}
	return false, errors.New("not implemented")
}

func (s *stubFavoritesRepo) List(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error) {
	if s.list != nil {
		return s.list(ctx, userID)
	}
	return nil, nil
}

type stubPlaces struct {
	nearby  func(ctx context.Context, req places.NearbyRequest) ([]places.Place, error)
	details func(ctx context.Context, placeID string) (*places.Place, error)
}

func (s *stubPlaces) NearbySearch(ctx context.Context, req places.NearbyRequest) ([]places.Place, error) {
	if s.nearby != nil {
		return s.nearby(ctx, req)
	}
	return nil, places.ErrUnavailable
}

func (s *stubPlaces) Details(ctx context.Context, placeID string) (*places.Place, error) {
	if s.details != nil {
		return s.details(ctx, placeID)
	}
	return nil, places.ErrUnavailable
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

func jsonRequest(t *testing.T, method, target string, payload any) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body []byte
	switch p := payload.(type) {
	case nil:
	case string:
		body = []byte(p)
	default:
		var err error
		body, err = json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func withIdentity(c echo.Context, identity auth.Identity) echo.Context {
	c.Set(middleware.ContextKeyIdentity, identity)
	return c
}

// envelope decodes the response with a typed data payload.
type envelope[T any] struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Kind     string   `json:"kind"`
	Data     T        `json:"data"`
	Warnings []string `json:"warnings"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var payload envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}
