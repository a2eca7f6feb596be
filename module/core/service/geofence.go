package service

import (
	"math"

	"github.com/p0x6/private-kit/module/core/domain"
)

// BannedZoneHalfWidth is the half side of a banned zone in degrees, around 55m.
const BannedZoneHalfWidth = 0.00025

// BuildBannedZone returns the axis-aligned square around a [lon, lat] pair.
func BuildBannedZone(coordinate []float64) (domain.Polygon, error) {
	pt, err := pointFromCoordinate(coordinate)
	if err != nil {
		return nil, err
	}

	d := BannedZoneHalfWidth
	return domain.Polygon{
		{Lon: pt.Lon - d, Lat: pt.Lat + d},
		{Lon: pt.Lon - d, Lat: pt.Lat - d},
		{Lon: pt.Lon + d, Lat: pt.Lat - d},
		{Lon: pt.Lon + d, Lat: pt.Lat + d},
		{Lon: pt.Lon - d, Lat: pt.Lat + d},
	}, nil
}

// IsInside reports whether pt lies in polygon using ray casting. Points on an
// edge may fall either way.
func IsInside(pt domain.Point, polygon domain.Polygon) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Lat > pt.Lat) != (b.Lat > pt.Lat) &&
			pt.Lon < (b.Lon-a.Lon)*(pt.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lon {
			inside = !inside
		}
	}
	return inside
}

func pointFromCoordinate(coordinate []float64) (domain.Point, error) {
	if len(coordinate) != 2 {
		return domain.Point{}, domain.ErrInvalidCoordinate
	}
	for _, v := range coordinate {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.Point{}, domain.ErrInvalidCoordinate
		}
	}
	return domain.Point{Lon: coordinate[0], Lat: coordinate[1]}, nil
}
