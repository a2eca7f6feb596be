package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/p0x6/private-kit/module/core/domain"
)

const (
	earthRadiusMeters = 6371000

	// column positions of latitude and longitude in the outbreak dataset
	outbreakLatColumn = 7
	outbreakLonColumn = 8

	DefaultOverlapThresholdKm = 2000
	hotspotMetersPerCase      = 50
)

// DefaultOverlapCentre is used when the trail is empty.
var DefaultOverlapCentre = domain.Point{Lat: 36.56, Lon: 20.39}

type statsSource interface {
	Stats(ctx context.Context) domain.TrailStats
}

type OverlapService struct {
	trail       statsSource
	thresholdKm float64
}

func NewOverlapService(trail statsSource, thresholdKm float64) *OverlapService {
	if thresholdKm <= 0 {
		thresholdKm = DefaultOverlapThresholdKm
	}
	return &OverlapService{trail: trail, thresholdKm: thresholdKm}
}

// Nearby parses the dataset and returns the hotspots within the threshold of
// the latest trail point.
func (s *OverlapService) Nearby(ctx context.Context, dataset io.Reader) ([]domain.Hotspot, error) {
	hotspots, err := ParseOutbreakCSV(dataset)
	if err != nil {
		return nil, err
	}

	centre := DefaultOverlapCentre
	if last := s.trail.Stats(ctx).LastPoint; last != nil {
		centre = domain.Point{Lat: last.Latitude, Lon: last.Longitude}
	}

	limit := s.thresholdKm * 1000
	nearby := make([]domain.Hotspot, 0, len(hotspots))
	for _, h := range hotspots {
		if haversine(centre.Lat, centre.Lon, h.Latitude, h.Longitude) < limit {
			nearby = append(nearby, h)
		}
	}
	return nearby, nil
}

// ParseOutbreakCSV aggregates dataset rows by coordinate. Rows without a
// numeric latitude and longitude, the header included, are skipped.
func ParseOutbreakCSV(r io.Reader) ([]domain.Hotspot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	type key struct{ lat, lon float64 }
	counts := make(map[key]int)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		if len(record) <= outbreakLonColumn {
			continue
		}

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[outbreakLatColumn]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(record[outbreakLonColumn]), 64)
		if errLat != nil || errLon != nil || math.IsNaN(lat) || math.IsNaN(lon) {
			continue
		}
		counts[key{lat, lon}]++
	}

	hotspots := make([]domain.Hotspot, 0, len(counts))
	for k, n := range counts {
		hotspots = append(hotspots, domain.Hotspot{
			Latitude:     k.lat,
			Longitude:    k.lon,
			Count:        n,
			RadiusMeters: float64(hotspotMetersPerCase * n),
		})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		a, b := hotspots[i], hotspots[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Latitude != b.Latitude {
			return a.Latitude < b.Latitude
		}
		return a.Longitude < b.Longitude
	})
	return hotspots, nil
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
