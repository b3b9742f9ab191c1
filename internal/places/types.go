package places

// Place is a record returned by the places provider. Detail-only fields are
// empty on nearby search results.
type Place struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Types            []string      `json:"types"`
	Vicinity         string        `json:"vicinity"`
	FormattedAddress string        `json:"formatted_address"`
	Geometry         *Geometry     `json:"geometry"`
	Rating           float64       `json:"rating"`
	UserRatingsTotal int           `json:"user_ratings_total"`
	Photos           []Photo       `json:"photos"`
	PhoneNumber      string        `json:"formatted_phone_number"`
	Website          string        `json:"website"`
	OpeningHours     *OpeningHours `json:"opening_hours"`
	Reviews          []Review      `json:"reviews"`
}

// Geometry wraps the provider's location block.
type Geometry struct {
	Location *LatLng `json:"location"`
}

// LatLng is the provider's coordinate object.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Photo references an image served through the provider's photo endpoint.
type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// OpeningHours carries the human readable weekly schedule.
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text"`
}

// Review is a provider-native review.
type Review struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	Time       int64  `json:"time"`
}

type nearbyResponse struct {
	Results      []Place `json:"results"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
}

type detailsResponse struct {
	Result       *Place `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}
