package search

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/octobees/nearby/api/internal/category"
	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/geo"
	"github.com/octobees/nearby/api/internal/places"
	"github.com/octobees/nearby/api/internal/rating"
)

// SourceRecord is a raw record from one of the two data sources.
// The set of implementations is closed: InternalRecord and ExternalRecord.
type SourceRecord interface {
	sourceRecord()
}

// InternalRecord is a business row from the internal store with its reviews.
type InternalRecord struct {
	Business entity.Business
	Reviews  []entity.Review
}

// ExternalRecord is a place returned by the external provider.
type ExternalRecord struct {
	Place places.Place
}

func (InternalRecord) sourceRecord() {}
func (ExternalRecord) sourceRecord() {}

// PhotoURLFunc resolves a provider photo reference into a fetchable URL.
type PhotoURLFunc func(reference string) string

// Normalizer converts source records into the canonical Business view.
type Normalizer struct {
	photoURL PhotoURLFunc
}

// NewNormalizer builds a normalizer. A nil photoURL drops provider photos.
func NewNormalizer(photoURL PhotoURLFunc) *Normalizer {
	return &Normalizer{photoURL: photoURL}
}

// Normalize converts a single record. The input is never modified.
func (n *Normalizer) Normalize(record SourceRecord) (Business, error) {
	switch r := record.(type) {
	case InternalRecord:
		return n.fromInternal(r)
	case ExternalRecord:
		return n.fromExternal(r)
	case nil:
		return Business{}, fmt.Errorf("%w: nil record", ErrMalformedRecord)
	default:
		return Business{}, fmt.Errorf("%w: unsupported record %T", ErrMalformedRecord, record)
	}
}

// NormalizeAll converts a batch, dropping and logging records that fail.
func (n *Normalizer) NormalizeAll(records []SourceRecord) []Business {
	out := make([]Business, 0, len(records))
	for _, record := range records {
		business, err := n.Normalize(record)
		if err != nil {
			log.WithFields(log.Fields{
				"source": recordSource(record),
				"id":     recordID(record),
			}).WithError(err).Warn("dropping source record")
			continue
		}
		out = append(out, business)
	}
	return out
}

func (n *Normalizer) fromInternal(r InternalRecord) (Business, error) {
	b := r.Business
	name := strings.TrimSpace(b.Name)
	if name == "" {
		return Business{}, fmt.Errorf("%w: internal business %s has no name", ErrMalformedRecord, b.ID)
	}
	location := geo.Coordinate{Lat: b.Latitude, Lng: b.Longitude}
	if err := location.Validate(); err != nil {
		return Business{}, fmt.Errorf("%w: internal business %s: %v", ErrMalformedRecord, b.ID, err)
	}

	cat := category.Category(b.Category)
	if !cat.Valid() {
		cat = category.Default
	}

	summary := rating.Aggregate(r.Reviews)
	ownerID := b.OwnerID.String()

	return Business{
		ID:              b.ID.String(),
		Source:          SourceInternal,
		Name:            name,
		Category:        cat,
		Location:        location,
		Address:         b.Address,
		Rating:          summary.Rating,
		ReviewCount:     summary.Count,
		Photos:          append([]string{}, b.Photos...),
		Description:     copyString(b.Description),
		Phone:           copyString(b.Phone),
		Website:         copyString(b.Website),
		OwnerID:         &ownerID,
		ExternalPlaceID: copyString(b.ExternalPlaceID),
	}, nil
}

func (n *Normalizer) fromExternal(r ExternalRecord) (Business, error) {
	p := r.Place
	if strings.TrimSpace(p.PlaceID) == "" {
		return Business{}, fmt.Errorf("%w: external place has no id", ErrMalformedRecord)
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Business{}, fmt.Errorf("%w: external place %s has no name", ErrMalformedRecord, p.PlaceID)
	}
	if p.Geometry == nil || p.Geometry.Location == nil {
		return Business{}, fmt.Errorf("%w: external place %s has no geometry", ErrMalformedRecord, p.PlaceID)
	}
	location := geo.Coordinate{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng}
	if err := location.Validate(); err != nil {
		return Business{}, fmt.Errorf("%w: external place %s: %v", ErrMalformedRecord, p.PlaceID, err)
	}

	address := strings.TrimSpace(p.Vicinity)
	if address == "" {
		address = strings.TrimSpace(p.FormattedAddress)
	}

	photos := make([]string, 0, len(p.Photos))
	if n.photoURL != nil {
		for _, photo := range p.Photos {
			if u := n.photoURL(photo.PhotoReference); u != "" {
				photos = append(photos, u)
			}
		}
	}

	placeID := p.PlaceID
	return Business{
		ID:              p.PlaceID,
		Source:          SourceExternal,
		Name:            name,
		Category:        category.FromProviderType(category.PrimaryType(p.Types)),
		Location:        location,
		Address:         address,
		Rating:          rating.Round(p.Rating),
		ReviewCount:     p.UserRatingsTotal,
		Photos:          photos,
		Phone:           nonEmpty(p.PhoneNumber),
		Website:         nonEmpty(p.Website),
		ExternalPlaceID: &placeID,
	}, nil
}

func recordSource(record SourceRecord) Source {
	switch record.(type) {
	case InternalRecord:
		return SourceInternal
	case ExternalRecord:
		return SourceExternal
	}
	return ""
}

func recordID(record SourceRecord) string {
	switch r := record.(type) {
	case InternalRecord:
		return r.Business.ID.String()
	case ExternalRecord:
		return r.Place.PlaceID
	}
	return ""
}

func copyString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func nonEmpty(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
