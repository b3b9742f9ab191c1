package search

import "errors"

var (
	// ErrMalformedRecord marks a source record that cannot be normalized.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrExternalProviderUnavailable is non-fatal for combined searches.
	ErrExternalProviderUnavailable = errors.New("external provider unavailable")
	// ErrInternalStoreUnavailable is fatal for any search that reads the internal store.
	ErrInternalStoreUnavailable = errors.New("internal store unavailable")
)

// ErrInvalidQuery covers search parameters outside their accepted ranges.
var ErrInvalidQuery = errors.New("invalid search query")
