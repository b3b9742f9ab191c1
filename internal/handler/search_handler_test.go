package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/places"
	"github.com/octobees/nearby/api/internal/repository"
	"github.com/octobees/nearby/api/internal/search"
)

var cafeID = uuid.MustParse("44444444-4444-4444-4444-444444444444")

func newSearchHandler(businesses *stubBusinessesRepo, reviews *stubReviewsRepo, provider *stubPlaces) *SearchHandler {
	planner := search.NewPlanner(businesses, reviews, provider, search.PlannerConfig{
		InternalTimeout: time.Second,
		ExternalTimeout: 50 * time.Millisecond,
	})
	normalizer := search.NewNormalizer(func(ref string) string { return "https://photos.test/" + ref })
	return NewSearchHandler(search.NewService(planner, normalizer, search.Options{}))
}

func internalCafe() *stubBusinessesRepo {
	return &stubBusinessesRepo{
		nearby: func(ctx context.Context, filter repository.NearbyFilter) ([]entity.Business, error) {
			return []entity.Business{{
				ID:        cafeID,
				OwnerID:   uuid.New(),
				Name:      "Corner Cafe",
				Category:  "restaurant",
				Address:   "12 Hill Road",
				Latitude:  19.0850,
				Longitude: 72.8777,
			}}, nil
		},
	}
}

func cafeReviews() *stubReviewsRepo {
	return &stubReviewsRepo{
		listByBusinesses: func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]entity.Review, error) {
			return map[uuid.UUID][]entity.Review{cafeID: {{Rating: 4}, {Rating: 5}}}, nil
		},
	}
}

func TestSearchHandler_CombinedDegradesWhenProviderFails(t *testing.T) {
	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/search/nearby?lat=19.0760&lng=72.8777&radius=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := newSearchHandler(internalCafe(), cafeReviews(), &stubPlaces{
		nearby: func(ctx context.Context, req places.NearbyRequest) ([]places.Place, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})

	if err := h.Combined(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	payload := decode[struct {
		Businesses []search.Business `json:"businesses"`
		Degraded   bool              `json:"degraded"`
	}](t, rec)
	if !payload.Data.Degraded || len(payload.Warnings) != 1 {
		t.Fatalf("expected degraded response with warning, got %+v", payload)
	}
	if len(payload.Data.Businesses) != 1 {
		t.Fatalf("expected internal result, got %+v", payload.Data.Businesses)
	}
	cafe := payload.Data.Businesses[0]
	if cafe.Rating != 4.5 || cafe.ReviewCount != 2 || cafe.Distance != "1.0" {
		t.Fatalf("unexpected business %+v", cafe)
	}
}

func TestSearchHandler_CombinedMergesSources(t *testing.T) {
	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/search/nearby?lat=19.0760&lng=72.8777&category=retail&minRating=4", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var filter repository.NearbyFilter
	businesses := &stubBusinessesRepo{
		nearby: func(ctx context.Context, f repository.NearbyFilter) ([]entity.Business, error) {
			filter = f
			return nil, nil
		},
	}
	var providerReq places.NearbyRequest
	h := newSearchHandler(businesses, cafeReviews(), &stubPlaces{
		nearby: func(ctx context.Context, req places.NearbyRequest) ([]places.Place, error) {
			providerReq = req
			return []places.Place{
				{PlaceID: "mall", Name: "Phoenix Mall", Types: []string{"shopping_mall"}, Rating: 4.4, Geometry: &places.Geometry{Location: &places.LatLng{Lat: 19.086, Lng: 72.889}}},
				{PlaceID: "kiosk", Name: "Kiosk", Types: []string{"store"}, Rating: 3.9, Geometry: &places.Geometry{Location: &places.LatLng{Lat: 19.077, Lng: 72.878}}},
			}, nil
		},
	})

	_ = h.Combined(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if filter.Category != "retail" || filter.RadiusMeters != 5000 {
		t.Fatalf("unexpected internal filter %+v", filter)
	}
	if providerReq.Type != "store" || providerReq.RadiusMeters != 5000 {
		t.Fatalf("unexpected provider request %+v", providerReq)
	}

	payload := decode[struct {
		Businesses []search.Business `json:"businesses"`
		Degraded   bool              `json:"degraded"`
	}](t, rec)
	if payload.Data.Degraded || len(payload.Data.Businesses) != 1 || payload.Data.Businesses[0].ID != "mall" {
		t.Fatalf("expected only the mall above minRating, got %+v", payload.Data)
	}
}

func TestSearchHandler_InvalidQuery(t *testing.T) {
	tests := map[string]struct {
		target     string
		expectKind string
	}{
		"missing lat":      {target: "/search/nearby?lng=72.8", expectKind: KindInvalidCoordinate},
		"lat not a number": {target: "/search/nearby?lat=north&lng=72.8", expectKind: KindInvalidCoordinate},
		"lat out of range": {target: "/search/nearby?lat=91&lng=72.8", expectKind: KindInvalidCoordinate},
		"lng out of range": {target: "/search/nearby?lat=19&lng=-181", expectKind: KindInvalidCoordinate},
		"bad radius":       {target: "/search/nearby?lat=19&lng=72&radius=far", expectKind: KindInvalidRequest},
		"negative radius":  {target: "/search/nearby?lat=19&lng=72&radius=-1", expectKind: KindInvalidRequest},
		"bad category":     {target: "/search/nearby?lat=19&lng=72&category=airport", expectKind: KindInvalidRequest},
		"bad min rating":   {target: "/search/nearby?lat=19&lng=72&minRating=6", expectKind: KindInvalidRequest},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, tt.target, nil), rec)

			businesses := &stubBusinessesRepo{
				nearby: func(ctx context.Context, f repository.NearbyFilter) ([]entity.Business, error) {
					t.Fatalf("store must not be queried for invalid input")
					return nil, nil
				},
			}
			h := newSearchHandler(businesses, &stubReviewsRepo{}, &stubPlaces{})

			_ = h.Combined(c)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if payload := decode[any](t, rec); payload.Kind != tt.expectKind {
				t.Fatalf("expected kind %s, got %s", tt.expectKind, payload.Kind)
			}
		})
	}
}

func TestSearchHandler_InternalOnly(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/businesses/nearby?lat=19.0760&lng=72.8777", nil), rec)

	h := newSearchHandler(internalCafe(), cafeReviews(), &stubPlaces{
		nearby: func(ctx context.Context, req places.NearbyRequest) ([]places.Place, error) {
			t.Fatalf("provider must not be queried")
			return nil, nil
		},
	})

	_ = h.Internal(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	payload := decode[[]search.Business](t, rec)
	if len(payload.Data) != 1 || payload.Data[0].Source != search.SourceInternal || payload.Data[0].Distance == "" {
		t.Fatalf("unexpected businesses %+v", payload.Data)
	}
}

func TestSearchHandler_InternalStoreDown(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/search/nearby?lat=19&lng=72", nil), rec)

	businesses := &stubBusinessesRepo{
		nearby: func(ctx context.Context, f repository.NearbyFilter) ([]entity.Business, error) {
			return nil, context.DeadlineExceeded
		},
	}
	h := newSearchHandler(businesses, &stubReviewsRepo{}, &stubPlaces{nearby: func(ctx context.Context, req places.NearbyRequest) ([]places.Place, error) {
		return []places.Place{}, nil
	}})

	_ = h.Combined(c)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestSearchHandler_External(t *testing.T) {
	t.Run("results", func(t *testing.T) {
		e := newEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/external/places?lat=19.0760&lng=72.8777&radius=2&type=health", nil), rec)

		h := newSearchHandler(&stubBusinessesRepo{}, &stubReviewsRepo{}, &stubPlaces{
			nearby: func(ctx context.Context, req places.NearbyRequest) ([]places.Place, error) {
				if req.Type != "hospital" || req.RadiusMeters != 2000 {
					t.Fatalf("unexpected provider request %+v", req)
				}
				return []places.Place{{
					PlaceID:  "h-1",
					Name:     "City Hospital",
					Types:    []string{"hospital"},
					Photos:   []places.Photo{{PhotoReference: "p1"}},
					Geometry: &places.Geometry{Location: &places.LatLng{Lat: 19.08, Lng: 72.88}},
				}}, nil
			},
		})

		_ = h.External(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		payload := decode[struct {
			Results []search.Business `json:"results"`
		}](t, rec)
		if len(payload.Data.Results) != 1 {
			t.Fatalf("unexpected results %+v", payload.Data)
		}
		hospital := payload.Data.Results[0]
		if hospital.Category != "health" || len(hospital.Photos) != 1 || hospital.Photos[0] != "https://photos.test/p1" {
			t.Fatalf("unexpected hospital %+v", hospital)
		}
	})

	t.Run("provider unavailable", func(t *testing.T) {
		e := newEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/external/places?lat=19&lng=72", nil), rec)

		h := newSearchHandler(&stubBusinessesRepo{}, &stubReviewsRepo{}, &stubPlaces{})
		_ = h.External(c)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		if payload := decode[any](t, rec); payload.Kind != KindExternalUnavailable {
			t.Fatalf("unexpected kind %s", payload.Kind)
		}
	})
}
