package category

import (
	"fmt"
	"strings"
)

// Category is the application's fixed business taxonomy.
type Category string

const (
	Restaurant    Category = "restaurant"
	Retail        Category = "retail"
	Service       Category = "service"
	Entertainment Category = "entertainment"
	Health        Category = "health"
)

// All is the filter value that disables category matching.
const All = "all"

// Default is assigned to any provider type missing from the lookup table.
const Default = Service

// Values lists every category in display order.
var Values = []Category{Restaurant, Retail, Service, Entertainment, Health}

// providerTypes maps external provider taxonomy tokens to app categories.
// Lookups are case-sensitive; provider tokens are lower snake case.
var providerTypes = map[string]Category{
	"restaurant":    Restaurant,
	"cafe":          Restaurant,
	"bar":           Restaurant,
	"bakery":        Restaurant,
	"food":          Restaurant,
	"meal_delivery": Restaurant,
	"meal_takeaway": Restaurant,

	"store":                  Retail,
	"shopping_mall":          Retail,
	"supermarket":            Retail,
	"grocery_or_supermarket": Retail,
	"convenience_store":      Retail,
	"department_store":       Retail,
	"clothing_store":         Retail,
	"shoe_store":             Retail,
	"book_store":             Retail,
	"electronics_store":      Retail,
	"furniture_store":        Retail,
	"hardware_store":         Retail,
	"home_goods_store":       Retail,
	"jewelry_store":          Retail,
	"liquor_store":           Retail,
	"pet_store":              Retail,
	"florist":                Retail,

	"bank":                Service,
	"atm":                 Service,
	"beauty_salon":        Service,
	"hair_care":           Service,
	"laundry":             Service,
	"car_repair":          Service,
	"car_wash":            Service,
	"electrician":         Service,
	"plumber":             Service,
	"locksmith":           Service,
	"lawyer":              Service,
	"accounting":          Service,
	"insurance_agency":    Service,
	"real_estate_agency":  Service,
	"post_office":         Service,
	"travel_agency":       Service,
	"moving_company":      Service,
	"storage":             Service,

	"movie_theater":      Entertainment,
	"night_club":         Entertainment,
	"amusement_park":     Entertainment,
	"bowling_alley":      Entertainment,
	"casino":             Entertainment,
	"museum":             Entertainment,
	"art_gallery":        Entertainment,
	"park":               Entertainment,
	"stadium":            Entertainment,
	"zoo":                Entertainment,
	"aquarium":           Entertainment,
	"tourist_attraction": Entertainment,

	"hospital":        Health,
	"pharmacy":        Health,
	"drugstore":       Health,
	"doctor":          Health,
	"dentist":         Health,
	"physiotherapist": Health,
	"veterinary_care": Health,
	"gym":             Health,
	"spa":             Health,
}

// requestTypes is the forward map used when querying the provider.
var requestTypes = map[Category]string{
	Restaurant:    "restaurant",
	Retail:        "store",
	Service:       "beauty_salon",
	Entertainment: "movie_theater",
	Health:        "hospital",
}

// genericTypes carry no category signal and are skipped when picking a primary type.
var genericTypes = map[string]bool{
	"point_of_interest": true,
	"establishment":     true,
}

// FromProviderType maps a provider taxonomy token to an app category.
// Unknown tokens map to Default.
func FromProviderType(providerType string) Category {
	if c, ok := providerTypes[providerType]; ok {
		return c
	}
	return Default
}

// PrimaryType returns the first provider type that is not a generic marker.
func PrimaryType(types []string) string {
	for _, t := range types {
		if !genericTypes[t] {
			return t
		}
	}
	if len(types) > 0 {
		return types[0]
	}
	return ""
}

// ProviderTypeFor returns the representative provider type for an app category.
func ProviderTypeFor(c Category) string {
	return requestTypes[c]
}

// Valid reports whether c is a member of the enum.
func (c Category) Valid() bool {
	_, ok := requestTypes[c]
	return ok
}

// Parse validates user input. Empty and "all" yield an empty category meaning no filter.
func Parse(raw string) (Category, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == All {
		return "", nil
	}
	c := Category(value)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}
