package rating

import (
	"math"
	"strconv"
	"strings"

	"github.com/octobees/nearby/api/internal/entity"
)

// MaxRating is the top of the rating scale.
const MaxRating = 5

// Summary is the derived rating of a review set.
type Summary struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"review_count"`
}

// Aggregate returns the mean rating rounded half-up to one decimal and the
// number of reviews. An empty set yields a zero summary.
func Aggregate(reviews []entity.Review) Summary {
	count := len(reviews)
	if count == 0 {
		return Summary{}
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}

	return Summary{Rating: roundedMean(sum, count), Count: count}
}

// roundedMean computes round(sum/count, 1) in integer tenths so that halves
// such as 4.25 always round up.
func roundedMean(sum, count int) float64 {
	tenths := (sum*20 + count) / (2 * count)
	return float64(tenths) / 10
}

// Round clamps a rating reported elsewhere to [0, 5] and rounds it half-up
// to one decimal using its shortest decimal form, so 4.35 becomes 4.4.
func Round(value float64) float64 {
	switch {
	case math.IsNaN(value) || value <= 0:
		return 0
	case value >= MaxRating:
		return MaxRating
	}

	whole, frac, _ := strings.Cut(strconv.FormatFloat(value, 'f', -1, 64), ".")
	units, _ := strconv.Atoi(whole)
	tenths := units * 10
	if len(frac) > 0 {
		tenths += int(frac[0] - '0')
	}
	if len(frac) > 1 && frac[1] >= '5' {
		tenths++
	}
	return float64(tenths) / 10
}
