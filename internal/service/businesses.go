package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/octobees/nearby/api/internal/auth"
	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/rating"
	"github.com/octobees/nearby/api/internal/repository"
)

// BusinessDetail is an internal listing with its derived rating and review set.
type BusinessDetail struct {
	entity.Business
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"review_count"`
	Reviews     []entity.Review `json:"reviews"`
}

// UploadSummary reports how many rows were inserted or updated during import.
type UploadSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}

// BusinessReviews is the slice of the review store the business service reads.
type BusinessReviews interface {
	ListByBusiness(ctx context.Context, id uuid.UUID) ([]entity.Review, error)
}

// BusinessService exposes owner operations on internal listings.
type BusinessService struct {
	repo      repository.BusinessesRepository
	reviews   BusinessReviews
	sanitizer *ListingSanitizer
}

// NewBusinessService creates a new BusinessService.
func NewBusinessService(repo repository.BusinessesRepository, reviews BusinessReviews, sanitizer *ListingSanitizer) *BusinessService {
	if sanitizer == nil {
		sanitizer = NewListingSanitizer("")
	}
	return &BusinessService{repo: repo, reviews: reviews, sanitizer: sanitizer}
}

var errListingConflict = fmt.Errorf("%w: listing collides with an existing business", ErrConflict)

// Create stores a listing owned by the caller.
func (s *BusinessService) Create(ctx context.Context, identity auth.Identity, in ListingInput) (*entity.Business, error) {
	if !identity.HasRole(entity.RoleOwner, entity.RoleAdmin) {
		return nil, fmt.Errorf("%w: only owners can create listings", ErrForbidden)
	}
	ownerID, err := uuid.Parse(identity.Subject())
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrForbidden)
	}

	listing, err := s.sanitizer.Sanitize(in)
	if err != nil {
		return nil, err
	}

	business := listing.apply(&entity.Business{OwnerID: ownerID})
	created, err := s.repo.Create(ctx, business)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessConflict) {
			return nil, errListingConflict
		}
		return nil, err
	}

	log.WithFields(log.Fields{"business_id": created.ID, "owner_id": ownerID}).Info("business created")
	return created, nil
}

// Update replaces the editable fields of a listing. Only the owning user may
// update it.
func (s *BusinessService) Update(ctx context.Context, identity auth.Identity, id string, in ListingInput) (*entity.Business, error) {
	existing, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.IsAuthenticated() || existing.OwnerID.String() != identity.Subject() {
		return nil, fmt.Errorf("%w: listing belongs to another owner", ErrForbidden)
	}

	listing, err := s.sanitizer.Sanitize(in)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, listing.apply(existing))
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrBusinessConflict) {
			return nil, errListingConflict
		}
		return nil, err
	}
	return updated, nil
}

// Get returns the listing with a rating recomputed from its reviews.
func (s *BusinessService) Get(ctx context.Context, id string) (*BusinessDetail, error) {
	business, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}

	summary := rating.Aggregate(reviews)
	return &BusinessDetail{
		Business:    *business,
		Rating:      summary.Rating,
		ReviewCount: summary.Count,
		Reviews:     reviews,
	}, nil
}

func (s *BusinessService) lookup(ctx context.Context, id string) (*entity.Business, error) {
	businessID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrNotFound
	}
	business, err := s.repo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return business, nil
}

// ImportCSV ingests listings from a CSV reader on behalf of ownerID. Rows
// without a name or address are skipped; any other invalid row aborts the
// import before anything is written.
func (s *BusinessService) ImportCSV(ctx context.Context, ownerID uuid.UUID, r io.Reader) (UploadSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return UploadSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return UploadSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return UploadSummary{}, valErr
	}

	var (
		records []repository.BulkUpsertBusinessInput
		rowNum  = 1
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return UploadSummary{}, fmt.Errorf("read csv row: %w", err)
		}

		rowNum++

		column := func(name string) string {
			idx, ok := indexMap[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if column("name") == "" || column("address") == "" {
			continue
		}

		lat, latErr := strconv.ParseFloat(column("latitude"), 64)
		lng, lngErr := strconv.ParseFloat(column("longitude"), 64)
		if latErr != nil || lngErr != nil {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid coordinates on row %d", rowNum)}
		}

		listing, err := s.sanitizer.Sanitize(ListingInput{
			Name:        column("name"),
			Category:    column("category"),
			Description: column("description"),
			Address:     column("address"),
			Phone:       column("phone"),
			Website:     column("website"),
			Latitude:    lat,
			Longitude:   lng,
		})
		if err != nil {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("row %d: %v", rowNum, err)}
		}

		records = append(records, repository.BulkUpsertBusinessInput{
			OwnerID:     ownerID,
			Name:        listing.Name,
			Category:    string(listing.Category),
			Description: listing.Description,
			Address:     listing.Address,
			Phone:       listing.Phone,
			Website:     listing.Website,
			Latitude:    listing.Location.Lat,
			Longitude:   listing.Location.Lng,
		})
	}

	result, err := s.repo.BulkUpsert(ctx, records)
	if err != nil {
		return UploadSummary{}, err
	}

	return UploadSummary{
		Inserted: result.Inserted,
		Updated:  result.Updated,
		Total:    result.Total,
	}, nil
}

var requiredCSVHeaders = []string{"name", "category", "address", "latitude", "longitude"}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func (l Listing) apply(b *entity.Business) *entity.Business {
	b.Name = l.Name
	b.Category = string(l.Category)
	b.Description = l.Description
	b.Address = l.Address
	b.Phone = l.Phone
	b.Website = l.Website
	b.Photos = l.Photos
	b.Latitude = l.Location.Lat
	b.Longitude = l.Location.Lng
	return b
}
