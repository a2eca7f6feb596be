package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/p0x6/private-kit/module/core/domain"
	"github.com/p0x6/private-kit/module/core/internal/repository/database"
)

// ReferenceRegistry holds the Home and Work reference points and the banned
// zones derived from them.
type ReferenceRegistry struct {
	repo database.KeyValueRepository

	// writeMu keeps the in-memory and persisted order of updates the same.
	writeMu sync.Mutex

	mu    sync.RWMutex
	zones map[domain.Label]domain.BannedZone
}

func NewReferenceRegistry(repo database.KeyValueRepository) *ReferenceRegistry {
	return &ReferenceRegistry{
		repo:  repo,
		zones: make(map[domain.Label]domain.BannedZone, len(domain.Labels)),
	}
}

// Restore rebuilds both references from persisted state. A missing,
// unreadable or malformed value leaves that reference absent.
func (r *ReferenceRegistry) Restore(ctx context.Context) {
	for _, label := range domain.Labels {
		raw, found, err := r.repo.Get(ctx, label.StoreKey())
		if err != nil {
			log.Printf("restore %s location: %v", label, err)
			r.apply(label, nil)
			continue
		}
		if !found {
			r.apply(label, nil)
			continue
		}
		r.apply(label, ParseCoordinate([]byte(raw)))
	}
}

// SetReference replaces the reference for label and persists it. A nil or
// malformed coordinate clears the reference. Only storage failures and
// unknown labels are returned.
func (r *ReferenceRegistry) SetReference(ctx context.Context, label domain.Label, coordinate []float64) error {
	if label != domain.LabelHome && label != domain.LabelWork {
		return domain.ErrUnknownLabel
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	zone, ok := r.apply(label, coordinate)

	value := "null"
	if ok {
		b, err := json.Marshal([]float64{zone.Coordinate.Lon, zone.Coordinate.Lat})
		if err != nil {
			return fmt.Errorf("marshal %s location: %w", label, err)
		}
		value = string(b)
	}

	if err := r.repo.Set(ctx, label.StoreKey(), value); err != nil {
		return fmt.Errorf("persist %s location: %w", label, err)
	}
	return nil
}

// ActiveZones returns a snapshot of the configured zones, Home first.
func (r *ReferenceRegistry) ActiveZones() []domain.BannedZone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	zones := make([]domain.BannedZone, 0, len(r.zones))
	for _, label := range domain.Labels {
		if z, ok := r.zones[label]; ok {
			z.Polygon = append(domain.Polygon(nil), z.Polygon...)
			zones = append(zones, z)
		}
	}
	return zones
}

func (r *ReferenceRegistry) apply(label domain.Label, coordinate []float64) (domain.BannedZone, bool) {
	poly, err := BuildBannedZone(coordinate)
	if err != nil {
		r.mu.Lock()
		delete(r.zones, label)
		r.mu.Unlock()
		return domain.BannedZone{}, false
	}

	zone := domain.BannedZone{
		Label:      label,
		Coordinate: domain.Point{Lon: coordinate[0], Lat: coordinate[1]},
		Polygon:    poly,
	}

	r.mu.Lock()
	r.zones[label] = zone
	r.mu.Unlock()
	return zone, true
}

// ParseCoordinate decodes a JSON [lon, lat] payload. Anything else, including
// an empty payload or null, yields nil.
func ParseCoordinate(payload []byte) []float64 {
	var coordinate []float64
	if err := json.Unmarshal(payload, &coordinate); err != nil {
		return nil
	}
	if len(coordinate) != 2 {
		return nil
	}
	return coordinate
}
