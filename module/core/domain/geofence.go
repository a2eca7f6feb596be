package domain

import "strings"

type Label string

const (
	LabelHome Label = "Home"
	LabelWork Label = "Work"
)

// Labels lists every reference label in evaluation order.
var Labels = []Label{LabelHome, LabelWork}

// ParseLabel accepts "home"/"work" in any case.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home":
		return LabelHome, nil
	case "work":
		return LabelWork, nil
	}
	return "", ErrUnknownLabel
}

// StoreKey returns the persisted key holding the label's coordinate.
func (l Label) StoreKey() string {
	if l == LabelWork {
		return KeyWorkLocation
	}
	return KeyHomeLocation
}

type Point struct {
	Lon float64 `json:"longitude"`
	Lat float64 `json:"latitude"`
}

// Polygon is a closed ring: the last vertex repeats the first.
type Polygon []Point

type BannedZone struct {
	Label      Label   `json:"label"`
	Coordinate Point   `json:"coordinate"`
	Polygon    Polygon `json:"polygon"`
}
