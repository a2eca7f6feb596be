package service

import (
	"context"
	"strings"
	"testing"

	"github.com/p0x6/private-kit/module/core/domain"
)

const outbreakCSV = `ID,age,sex,city,province,country,wuhan,latitude,longitude,date
1,30,male,Athens,Attica,Greece,0,37.98,23.72,01.03.2020
2,41,female,Athens,Attica,Greece,0,37.98,23.72,02.03.2020
3,52,male,"Rome, Lazio",Lazio,Italy,0,41.9,12.5,03.03.2020
4,,,Seattle,Washington,United States,0,47.6,-122.3,04.03.2020
5,,,Unknown,,,0,,,05.03.2020
6,,,Short,row
`

type mockStats struct {
	stats domain.TrailStats
}

func (m *mockStats) Stats(context.Context) domain.TrailStats { return m.stats }

func TestParseOutbreakCSV(t *testing.T) {
	hotspots, err := ParseOutbreakCSV(strings.NewReader(outbreakCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hotspots) != 3 {
		t.Fatalf("expected 3 hotspots, got %d: %+v", len(hotspots), hotspots)
	}

	athens := hotspots[0]
	if athens.Latitude != 37.98 || athens.Longitude != 23.72 {
		t.Errorf("expected Athens first, got %+v", athens)
	}
	if athens.Count != 2 || athens.RadiusMeters != 100 {
		t.Errorf("expected count 2 radius 100, got %+v", athens)
	}
}

func TestNearby_DefaultCentre(t *testing.T) {
	svc := NewOverlapService(&mockStats{}, 0)

	nearby, err := svc.Nearby(context.Background(), strings.NewReader(outbreakCSV))
	if err != nil {
		t.Fatal(err)
	}
	// Athens and Rome are within 2000km of the default centre, Seattle is not.
	if len(nearby) != 2 {
		t.Fatalf("expected 2 nearby hotspots, got %d: %+v", len(nearby), nearby)
	}
}

func TestNearby_UsesLatestTrailPoint(t *testing.T) {
	last := domain.LocationSample{Latitude: 47.6, Longitude: -122.3}
	svc := NewOverlapService(&mockStats{stats: domain.TrailStats{LastPoint: &last, PointCount: 1}}, 100)

	nearby, err := svc.Nearby(context.Background(), strings.NewReader(outbreakCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(nearby) != 1 || nearby[0].Longitude != -122.3 {
		t.Fatalf("expected only Seattle, got %+v", nearby)
	}
}

func TestHaversine(t *testing.T) {
	d := haversine(-6.2088, 106.8456, -6.2088, 106.8456)
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}

	// roughly 133m between these two points
	d = haversine(-6.2088, 106.8456, -6.2100, 106.8456)
	if d < 100 || d > 200 {
		t.Errorf("expected ~133m, got %f", d)
	}
}
