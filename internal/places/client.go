package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/octobees/nearby/api/internal/geo"
)

// DefaultBaseURL is the legacy Places web service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

const (
	maxRadiusMeters  = 50000
	photoMaxWidth    = 400
	defaultTimeout   = 10 * time.Second
	detailsFieldList = "place_id,name,types,vicinity,formatted_address,geometry,rating,user_ratings_total,photos,formatted_phone_number,website,opening_hours,reviews"
)

var (
	// ErrUnavailable covers transport failures, quota errors and unexpected payloads.
	ErrUnavailable = errors.New("places provider unavailable")
	// ErrNotFound is returned by Details when the provider does not know the place id.
	ErrNotFound = errors.New("place not found")
)

// NearbyRequest parameterises a nearby search.
type NearbyRequest struct {
	Center       geo.Coordinate
	RadiusMeters int
	Type         string
}

// Client calls the legacy Places web service with an API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client. An empty baseURL selects DefaultBaseURL and a nil
// httpClient gets a client with a conservative timeout.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{apiKey: strings.TrimSpace(apiKey), baseURL: baseURL, httpClient: httpClient}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// NearbySearch returns places around the request center.
func (c *Client) NearbySearch(ctx context.Context, req NearbyRequest) ([]Place, error) {
	if !c.Enabled() {
		return nil, errors.Wrap(ErrUnavailable, "api key not configured")
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%.6f,%.6f", req.Center.Lat, req.Center.Lng))
	params.Set("radius", strconv.Itoa(clampRadius(req.RadiusMeters)))
	if req.Type != "" {
		params.Set("type", req.Type)
	}

	var payload nearbyResponse
	if err := c.get(ctx, "/nearbysearch/json", params, &payload); err != nil {
		return nil, err
	}

	switch payload.Status {
	case "OK":
		return payload.Results, nil
	case "ZERO_RESULTS":
		return []Place{}, nil
	default:
		return nil, errors.Wrapf(ErrUnavailable, "nearby search status %s: %s", payload.Status, payload.ErrorMessage)
	}
}

// Details fetches a single place including hours and provider reviews.
func (c *Client) Details(ctx context.Context, placeID string) (*Place, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, ErrNotFound
	}
	if !c.Enabled() {
		return nil, errors.Wrap(ErrUnavailable, "api key not configured")
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFieldList)

	var payload detailsResponse
	if err := c.get(ctx, "/details/json", params, &payload); err != nil {
		return nil, err
	}

	switch payload.Status {
	case "OK":
		if payload.Result == nil {
			return nil, errors.Wrap(ErrUnavailable, "details response without result")
		}
		return payload.Result, nil
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return nil, errors.Wrapf(ErrNotFound, "place %s", placeID)
	default:
		return nil, errors.Wrapf(ErrUnavailable, "details status %s: %s", payload.Status, payload.ErrorMessage)
	}
}

// PhotoURL builds a fully qualified photo URL for a provider photo reference.
func (c *Client) PhotoURL(reference string) string {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return ""
	}
	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(photoMaxWidth))
	params.Set("photo_reference", reference)
	params.Set("key", c.apiKey)
	return c.baseURL + "/photo?" + params.Encode()
}

func clampRadius(meters int) int {
	if meters <= 0 {
		return 1
	}
	if meters > maxRadiusMeters {
		return maxRadiusMeters
	}
	return meters
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return errors.Wrap(ErrUnavailable, err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return errors.Wrapf(ErrUnavailable, "call places api: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Wrapf(ErrUnavailable, "places api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(ErrUnavailable, "decode places response: %v", err)
	}
	return nil
}
