package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/nearby/api/internal/category"
	"github.com/octobees/nearby/api/internal/geo"
)

var idnaProfile = idna.Lookup

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "IN"
	maxListingPhotos   = 10
)

// ListingInput is the unvalidated listing payload submitted by owners and CSV imports.
type ListingInput struct {
	Name        string
	Category    string
	Description string
	Address     string
	Phone       string
	Website     string
	Latitude    float64
	Longitude   float64
	Photos      []string
}

// Listing is a validated, normalized listing ready to persist.
type Listing struct {
	Name        string
	Category    category.Category
	Description *string
	Address     string
	Phone       *string
	Website     *string
	Location    geo.Coordinate
	Photos      []string
}

// ListingSanitizer encapsulates the cleaning rules applied to owner supplied listings.
type ListingSanitizer struct {
	DefaultRegion string
}

// NewListingSanitizer builds a sanitizer that parses national phone numbers
// against defaultRegion.
func NewListingSanitizer(defaultRegion string) *ListingSanitizer {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ListingSanitizer{DefaultRegion: region}
}

// Sanitize validates required fields and normalizes phone to E.164 and the
// website to an https URL with an ASCII host.
func (s *ListingSanitizer) Sanitize(in ListingInput) (Listing, error) {
	name := strings.TrimSpace(in.Name)
	address := strings.TrimSpace(in.Address)
	if name == "" {
		return Listing{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if address == "" {
		return Listing{}, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}

	cat, err := category.Parse(in.Category)
	if err != nil {
		return Listing{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if cat == "" {
		return Listing{}, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	location := geo.Coordinate{Lat: in.Latitude, Lng: in.Longitude}
	if err := location.Validate(); err != nil {
		return Listing{}, err
	}

	listing := Listing{
		Name:        name,
		Category:    cat,
		Description: normalizeString(in.Description),
		Address:     address,
		Location:    location,
		Photos:      make([]string, 0, len(in.Photos)),
	}

	if raw := strings.TrimSpace(in.Phone); raw != "" {
		phone := normalizePhone(raw, s.DefaultRegion)
		if phone == "" {
			return Listing{}, fmt.Errorf("%w: phone %q is not a valid number", ErrInvalidInput, raw)
		}
		listing.Phone = &phone
	}

	if raw := strings.TrimSpace(in.Website); raw != "" {
		website, err := normalizeWebsite(raw)
		if err != nil {
			return Listing{}, fmt.Errorf("%w: website: %v", ErrInvalidInput, err)
		}
		listing.Website = &website
	}

	for _, raw := range in.Photos {
		if len(listing.Photos) == maxListingPhotos {
			break
		}
		photo, err := normalizeWebsite(raw)
		if err != nil {
			continue
		}
		listing.Photos = append(listing.Photos, photo)
	}

	return listing, nil
}

func normalizeWebsite(raw string) (string, error) {
	u, err := sanitizeURL(raw)
	if err != nil {
		return "", err
	}
	host, err := idnaProfile.ToASCII(strings.Trim(strings.ToLower(u.Hostname()), "."))
	if err != nil || !isDomainValid(host) {
		return "", errors.New("invalid host")
	}
	if port := u.Port(); port != "" {
		host = host + ":" + port
	}
	u.Host = host
	stripTracking(u)
	return u.String(), nil
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	u.Scheme = "https"
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

func normalizeString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
