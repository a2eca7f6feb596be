package domain

// Hotspot is an outbreak dataset coordinate with the number of cases
// reported there.
type Hotspot struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Count        int     `json:"count"`
	RadiusMeters float64 `json:"radius"`
}
