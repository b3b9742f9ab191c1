package search

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/octobees/nearby/api/internal/category"
	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/geo"
	"github.com/octobees/nearby/api/internal/places"
	"github.com/octobees/nearby/api/internal/repository"
)

// BusinessFinder runs the geospatial query against the internal store.
type BusinessFinder interface {
	Nearby(ctx context.Context, filter repository.NearbyFilter) ([]entity.Business, error)
}

// ReviewLister loads the reviews backing internal ratings.
type ReviewLister interface {
	ListByBusinesses(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]entity.Review, error)
}

// ExternalProvider runs nearby searches against the places provider.
type ExternalProvider interface {
	NearbySearch(ctx context.Context, req places.NearbyRequest) ([]places.Place, error)
}

// Query describes one nearby search.
type Query struct {
	Center    geo.Coordinate
	RadiusKm  float64
	Category  category.Category
	MinRating float64
	// Sources selects the data sources; empty means both.
	Sources []Source
}

func (q Query) includes(source Source) bool {
	if len(q.Sources) == 0 {
		return true
	}
	for _, s := range q.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// Results holds the raw records of both legs. ExternalErr is set when the
// provider leg failed; internal failures are returned as the Execute error.
type Results struct {
	Internal    []SourceRecord
	External    []SourceRecord
	ExternalErr error
}

// PlannerConfig tunes the planner. Zero timeouts disable the per-leg deadline.
type PlannerConfig struct {
	InternalTimeout time.Duration
	ExternalTimeout time.Duration
	InternalLimit   int
}

// Planner fans a query out to the internal store and the external provider.
type Planner struct {
	businesses BusinessFinder
	reviews    ReviewLister
	external   ExternalProvider
	cfg        PlannerConfig
}

// NewPlanner wires a planner. A nil external provider makes every external leg fail soft.
func NewPlanner(businesses BusinessFinder, reviews ReviewLister, external ExternalProvider, cfg PlannerConfig) *Planner {
	if cfg.InternalLimit <= 0 {
		cfg.InternalLimit = DefaultResultCap
	}
	return &Planner{businesses: businesses, reviews: reviews, external: external, cfg: cfg}
}

// Execute runs the selected legs concurrently and joins them.
func (p *Planner) Execute(ctx context.Context, q Query) (Results, error) {
	if err := q.Center.Validate(); err != nil {
		return Results{}, err
	}
	if q.RadiusKm <= 0 || math.IsNaN(q.RadiusKm) || math.IsInf(q.RadiusKm, 0) {
		return Results{}, fmt.Errorf("%w: radius must be positive", ErrInvalidQuery)
	}

	var res Results
	g, gctx := errgroup.WithContext(ctx)

	if q.includes(SourceInternal) {
		g.Go(func() error {
			records, err := p.queryInternal(gctx, q)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInternalStoreUnavailable, err)
			}
			res.Internal = records
			return nil
		})
	}

	if q.includes(SourceExternal) {
		g.Go(func() error {
			records, err := p.queryExternal(gctx, q)
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"lat":    q.Center.Lat,
					"lng":    q.Center.Lng,
					"radius": q.RadiusKm,
				}).Warn("external provider leg failed")
				res.ExternalErr = fmt.Errorf("%w: %w", ErrExternalProviderUnavailable, err)
				return nil
			}
			res.External = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Results{}, err
	}
	return res, nil
}

func (p *Planner) queryInternal(ctx context.Context, q Query) ([]SourceRecord, error) {
	if p.businesses == nil || p.reviews == nil {
		return nil, fmt.Errorf("internal store not configured")
	}
	ctx, cancel := withOptionalTimeout(ctx, p.cfg.InternalTimeout)
	defer cancel()

	businesses, err := p.businesses.Nearby(ctx, repository.NearbyFilter{
		Center:       q.Center,
		RadiusMeters: q.RadiusKm * 1000,
		Category:     string(q.Category),
		Limit:        p.cfg.InternalLimit,
	})
	if err != nil {
		return nil, err
	}
	if len(businesses) == 0 {
		return []SourceRecord{}, nil
	}

	ids := make([]uuid.UUID, 0, len(businesses))
	for _, b := range businesses {
		ids = append(ids, b.ID)
	}
	reviews, err := p.reviews.ListByBusinesses(ctx, ids)
	if err != nil {
		return nil, err
	}

	records := make([]SourceRecord, 0, len(businesses))
	for _, b := range businesses {
		records = append(records, InternalRecord{Business: b, Reviews: reviews[b.ID]})
	}
	return records, nil
}

func (p *Planner) queryExternal(ctx context.Context, q Query) ([]SourceRecord, error) {
	if p.external == nil {
		return nil, fmt.Errorf("external provider not configured")
	}
	ctx, cancel := withOptionalTimeout(ctx, p.cfg.ExternalTimeout)
	defer cancel()

	found, err := p.external.NearbySearch(ctx, places.NearbyRequest{
		Center:       q.Center,
		RadiusMeters: int(math.Round(q.RadiusKm * 1000)),
		Type:         category.ProviderTypeFor(q.Category),
	})
	if err != nil {
		return nil, err
	}

	records := make([]SourceRecord, 0, len(found))
	for _, place := range found {
		records = append(records, ExternalRecord{Place: place})
	}
	return records, nil
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
