package search

import (
	"context"
	"fmt"
	"math"

	"github.com/octobees/nearby/api/internal/category"
)

// Options configures the search service.
type Options struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
	ResultCap       int
}

// Response is a ranked search result. Degraded is set when the external
// provider was requested but could not contribute.
type Response struct {
	Businesses []Business `json:"businesses"`
	Degraded   bool       `json:"degraded"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// Service runs the nearby search pipeline: plan, normalize, rank.
type Service struct {
	planner    *Planner
	normalizer *Normalizer
	opts       Options
}

// NewService wires the pipeline with defaults for unset options.
func NewService(planner *Planner, normalizer *Normalizer, opts Options) *Service {
	if opts.DefaultRadiusKm <= 0 {
		opts.DefaultRadiusKm = 5
	}
	if opts.MaxRadiusKm <= 0 {
		opts.MaxRadiusKm = 50
	}
	if opts.DefaultRadiusKm > opts.MaxRadiusKm {
		opts.DefaultRadiusKm = opts.MaxRadiusKm
	}
	if opts.ResultCap <= 0 {
		opts.ResultCap = DefaultResultCap
	}
	return &Service{planner: planner, normalizer: normalizer, opts: opts}
}

// Nearby validates the query, fans out to the selected sources and returns
// ranked results. External failures degrade the response unless the external
// provider is the only selected source.
func (s *Service) Nearby(ctx context.Context, q Query) (Response, error) {
	q, err := s.resolve(q)
	if err != nil {
		return Response{}, err
	}

	results, err := s.planner.Execute(ctx, q)
	if err != nil {
		return Response{}, err
	}

	externalOnly := !q.includes(SourceInternal)
	if externalOnly && results.ExternalErr != nil {
		return Response{}, results.ExternalErr
	}

	records := make([]SourceRecord, 0, len(results.Internal)+len(results.External))
	records = append(records, results.Internal...)
	records = append(records, results.External...)

	normalized := s.normalizer.NormalizeAll(records)
	if q.Category != "" {
		normalized = filterCategory(normalized, q.Category)
	}

	resp := Response{
		Businesses: Rank(normalized, q.Center, q.MinRating, s.opts.ResultCap),
	}
	if results.ExternalErr != nil {
		resp.Degraded = true
		resp.Warnings = append(resp.Warnings, "external provider unavailable; showing internal results only")
	}
	return resp, nil
}

func (s *Service) resolve(q Query) (Query, error) {
	if err := q.Center.Validate(); err != nil {
		return q, err
	}
	if math.IsNaN(q.RadiusKm) || math.IsInf(q.RadiusKm, 0) || q.RadiusKm < 0 {
		return q, fmt.Errorf("%w: radius must be a positive number of kilometers", ErrInvalidQuery)
	}
	if q.RadiusKm == 0 {
		q.RadiusKm = s.opts.DefaultRadiusKm
	}
	if q.RadiusKm > s.opts.MaxRadiusKm {
		q.RadiusKm = s.opts.MaxRadiusKm
	}
	if math.IsNaN(q.MinRating) || q.MinRating < 0 || q.MinRating > 5 {
		return q, fmt.Errorf("%w: minRating must be between 0 and 5", ErrInvalidQuery)
	}
	return q, nil
}

// filterCategory drops provider results whose primary type maps to another
// category than the one requested.
func filterCategory(items []Business, c category.Category) []Business {
	out := make([]Business, 0, len(items))
	for _, item := range items {
		if item.Category == c {
			out = append(out, item)
		}
	}
	return out
}
