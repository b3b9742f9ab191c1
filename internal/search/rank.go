package search

import (
	"math"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/octobees/nearby/api/internal/geo"
)

// DefaultResultCap bounds both the internal query and the ranked output.
const DefaultResultCap = 50

// Rank deduplicates items by (source, id), attaches the distance from center,
// drops items rated below minRating, sorts by distance then name and keeps at
// most limit items. A non-positive limit selects DefaultResultCap. Items with
// an invalid location are dropped and logged. The input slice is not modified.
func Rank(items []Business, center geo.Coordinate, minRating float64, limit int) []Business {
	if limit <= 0 {
		limit = DefaultResultCap
	}

	seen := make(map[identity]struct{}, len(items))
	ranked := make([]Business, 0, len(items))
	for _, item := range items {
		key := item.key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		distance, err := geo.DistanceKm(center, item.Location)
		if err != nil {
			log.WithFields(log.Fields{
				"source": item.Source,
				"id":     item.ID,
			}).WithError(err).Warn("dropping business with unusable location")
			continue
		}
		if item.Rating < minRating {
			continue
		}

		d := distance
		item.DistanceFromUser = &d
		item.Distance = FormatDistance(distance)
		ranked = append(ranked, item)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := *ranked[i].DistanceFromUser, *ranked[j].DistanceFromUser
		if di != dj {
			return di < dj
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// FormatDistance renders kilometers with one decimal, e.g. "1.2".
func FormatDistance(km float64) string {
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return ""
	}
	return strconv.FormatFloat(km, 'f', 1, 64)
}
