package dto

// BusinessRequest is the owner-submitted listing body for create and update.
// Latitude and longitude are pointers so a missing coordinate is not read as 0.
type BusinessRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"max=2000"`
	Address     string   `json:"address" validate:"required,max=300"`
	Phone       string   `json:"phone" validate:"max=40"`
	Website     string   `json:"website" validate:"max=300"`
	Latitude    *float64 `json:"latitude" validate:"required"`
	Longitude   *float64 `json:"longitude" validate:"required"`
	Photos      []string `json:"photos" validate:"max=10,dive,max=500"`
}
