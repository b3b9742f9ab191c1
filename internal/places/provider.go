package places

import (
	"context"
	"fmt"
)

// API generations accepted by NewProvider.
const (
	APIV1     = "v1"
	APILegacy = "legacy"
)

// Provider is the surface shared by both Places API clients.
type Provider interface {
	Enabled() bool
	NearbySearch(ctx context.Context, req NearbyRequest) ([]Place, error)
	Details(ctx context.Context, placeID string) (*Place, error)
	PhotoURL(reference string) string
}

var (
	_ Provider = (*Client)(nil)
	_ Provider = (*V1Client)(nil)
)

// NewProvider returns the client for the requested API generation. An empty
// baseURL selects that generation's public endpoint.
func NewProvider(ctx context.Context, api, apiKey, baseURL string) (Provider, error) {
	switch api {
	case APIV1, "":
		return NewV1Client(ctx, apiKey, baseURL)
	case APILegacy:
		return NewClient(apiKey, baseURL, nil), nil
	default:
		return nil, fmt.Errorf("unknown places api %q", api)
	}
}
