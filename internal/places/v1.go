package places

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	placesapi "google.golang.org/api/places/v1"
)

// DefaultV1Endpoint is the Places API (New) root.
const DefaultV1Endpoint = "https://places.googleapis.com"

const (
	v1MaxResults    = 20
	v1NearbyFields  = "places.id,places.displayName,places.types,places.shortFormattedAddress,places.formattedAddress,places.location,places.rating,places.userRatingCount,places.photos"
	v1DetailsFields = "id,displayName,types,shortFormattedAddress,formattedAddress,location,rating,userRatingCount,photos,nationalPhoneNumber,websiteUri,regularOpeningHours,currentOpeningHours.openNow,reviews"
)

// V1Client talks to the Places API (New) through the generated Google client
// and maps its records onto Place.
type V1Client struct {
	apiKey   string
	endpoint string
	svc      *placesapi.Service
}

// NewV1Client builds a client for the Places API (New). Without an API key the
// client is disabled and every call fails with ErrUnavailable.
func NewV1Client(ctx context.Context, apiKey, endpoint string, opts ...option.ClientOption) (*V1Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultV1Endpoint
	}
	c := &V1Client{apiKey: strings.TrimSpace(apiKey), endpoint: endpoint}
	if c.apiKey == "" {
		return c, nil
	}

	opts = append([]option.ClientOption{
		option.WithAPIKey(c.apiKey),
		option.WithEndpoint(endpoint + "/"),
	}, opts...)
	svc, err := placesapi.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create places v1 service")
	}
	c.svc = svc
	return c, nil
}

// Enabled reports whether an API key is configured.
func (c *V1Client) Enabled() bool {
	return c.svc != nil
}

// NearbySearch returns places around the request center.
func (c *V1Client) NearbySearch(ctx context.Context, req NearbyRequest) ([]Place, error) {
	if !c.Enabled() {
		return nil, errors.Wrap(ErrUnavailable, "api key not configured")
	}

	body := &placesapi.GoogleMapsPlacesV1SearchNearbyRequest{
		MaxResultCount: v1MaxResults,
		LocationRestriction: &placesapi.GoogleMapsPlacesV1SearchNearbyRequestLocationRestriction{
			Circle: &placesapi.GoogleMapsPlacesV1Circle{
				Center: &placesapi.GoogleTypeLatLng{Latitude: req.Center.Lat, Longitude: req.Center.Lng},
				Radius: float64(clampRadius(req.RadiusMeters)),
			},
		},
	}
	if req.Type != "" {
		body.IncludedTypes = []string{req.Type}
	}

	resp, err := c.svc.Places.SearchNearby(body).Fields(googleapi.Field(v1NearbyFields)).Context(ctx).Do()
	if err != nil {
		return nil, v1Error(err, "nearby search")
	}

	results := make([]Place, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p != nil {
			results = append(results, fromV1(p))
		}
	}
	return results, nil
}

// Details fetches a single place including hours and provider reviews.
func (c *V1Client) Details(ctx context.Context, placeID string) (*Place, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" || strings.ContainsAny(placeID, "/?#") {
		return nil, ErrNotFound
	}
	if !c.Enabled() {
		return nil, errors.Wrap(ErrUnavailable, "api key not configured")
	}

	resp, err := c.svc.Places.Get("places/" + placeID).Fields(googleapi.Field(v1DetailsFields)).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusBadRequest) {
			return nil, errors.Wrapf(ErrNotFound, "place %s", placeID)
		}
		return nil, v1Error(err, "details")
	}

	place := fromV1(resp)
	return &place, nil
}

// PhotoURL builds the media URL for a photo resource name such as
// "places/abc/photos/xyz".
func (c *V1Client) PhotoURL(name string) string {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return ""
	}
	params := url.Values{}
	params.Set("maxWidthPx", strconv.Itoa(photoMaxWidth))
	params.Set("key", c.apiKey)
	return c.endpoint + "/v1/" + name + "/media?" + params.Encode()
}

func v1Error(err error, op string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return errors.Wrapf(ErrUnavailable, "%s: places api status %d: %s", op, apiErr.Code, apiErr.Message)
	}
	// url.Error embeds the request URL, which may carry the API key.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return errors.Wrapf(ErrUnavailable, "%s: %v", op, err)
}

func fromV1(p *placesapi.GoogleMapsPlacesV1Place) Place {
	place := Place{
		PlaceID:          p.Id,
		Types:            p.Types,
		Vicinity:         p.ShortFormattedAddress,
		FormattedAddress: p.FormattedAddress,
		Rating:           p.Rating,
		UserRatingsTotal: int(p.UserRatingCount),
		PhoneNumber:      p.NationalPhoneNumber,
		Website:          p.WebsiteUri,
	}
	if p.DisplayName != nil {
		place.Name = p.DisplayName.Text
	}
	if p.Location != nil {
		place.Geometry = &Geometry{Location: &LatLng{Lat: p.Location.Latitude, Lng: p.Location.Longitude}}
	}
	for _, photo := range p.Photos {
		if photo == nil || photo.Name == "" {
			continue
		}
		place.Photos = append(place.Photos, Photo{PhotoReference: photo.Name, Width: int(photo.WidthPx), Height: int(photo.HeightPx)})
	}
	if p.RegularOpeningHours != nil {
		place.OpeningHours = &OpeningHours{WeekdayText: p.RegularOpeningHours.WeekdayDescriptions}
	}
	if p.CurrentOpeningHours != nil {
		if place.OpeningHours == nil {
			place.OpeningHours = &OpeningHours{}
		}
		openNow := p.CurrentOpeningHours.OpenNow
		place.OpeningHours.OpenNow = &openNow
	}
	for _, r := range p.Reviews {
		if r != nil {
			place.Reviews = append(place.Reviews, fromV1Review(r))
		}
	}
	return place
}

func fromV1Review(r *placesapi.GoogleMapsPlacesV1Review) Review {
	review := Review{Rating: int(math.Round(r.Rating))}
	if r.Text != nil {
		review.Text = r.Text.Text
	}
	if r.AuthorAttribution != nil {
		review.AuthorName = r.AuthorAttribution.DisplayName
	}
	if published, err := time.Parse(time.RFC3339Nano, r.PublishTime); err == nil {
		review.Time = published.Unix()
	}
	return review
}
