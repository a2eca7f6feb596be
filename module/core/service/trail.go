package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/p0x6/private-kit/module/core/domain"
	"github.com/p0x6/private-kit/module/core/internal/repository/database"
)

const (
	DefaultRetention       = 28 * 24 * time.Hour
	DefaultPollingInterval = 5 * time.Minute
)

type TrailConfig struct {
	Retention       time.Duration
	PollingInterval time.Duration
}

// TrailStore owns the persisted, time-ordered location trail. Appends are
// serialized so each read-modify-write of LOCATION_DATA sees the previous one.
type TrailStore struct {
	repo      database.KeyValueRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time

	mu sync.Mutex
}

func NewTrailStore(repo database.KeyValueRepository, cfg TrailConfig) *TrailStore {
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.PollingInterval <= 0 {
		cfg.PollingInterval = DefaultPollingInterval
	}
	return &TrailStore{
		repo:      repo,
		retention: cfg.Retention,
		interval:  cfg.PollingInterval,
		now:       time.Now,
	}
}

// Load reads the persisted trail. It never fails; problems are reported
// through the Status and Err fields with an empty sample list.
func (s *TrailStore) Load(ctx context.Context) domain.TrailLoad {
	raw, found, err := s.repo.Get(ctx, domain.KeyLocationData)
	if err != nil {
		return domain.TrailLoad{
			Samples: []domain.LocationSample{},
			Status:  domain.LoadReadFailed,
			Err:     fmt.Errorf("%w: %v", domain.ErrStorageRead, err),
		}
	}
	if !found || raw == "" || raw == "null" {
		return domain.TrailLoad{Samples: []domain.LocationSample{}, Status: domain.LoadMissing}
	}

	var samples []domain.LocationSample
	if err := json.Unmarshal([]byte(raw), &samples); err != nil {
		return domain.TrailLoad{
			Samples: []domain.LocationSample{},
			Status:  domain.LoadParseFailed,
			Err:     fmt.Errorf("%w: %v", domain.ErrStorageParse, err),
		}
	}
	if samples == nil {
		samples = []domain.LocationSample{}
	}
	return domain.TrailLoad{Samples: samples, Status: domain.LoadOK}
}

// Append evicts expired samples, backfills the stationary gap since the last
// sample and records a new sample stamped with the current UTC time.
func (s *TrailStore) Append(ctx context.Context, latitude, longitude float64) (domain.LocationSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := s.Load(ctx)
	switch loaded.Status {
	case domain.LoadReadFailed:
		// writing now would replace a trail we could not see
		return domain.LocationSample{}, loaded.Err
	case domain.LoadParseFailed:
		log.Printf("discarding unreadable trail: %v", loaded.Err)
	}

	nowUTC := s.now().UTC().UnixMilli()
	curated := Curate(loaded.Samples, nowUTC-s.retention.Milliseconds())
	curated = Backfill(curated, nowUTC, s.interval.Milliseconds())

	sample := domain.LocationSample{
		Latitude:  latitude,
		Longitude: longitude,
		Time:      nowUTC,
	}
	curated = append(curated, sample)

	if err := s.save(ctx, curated); err != nil {
		return domain.LocationSample{}, err
	}
	return sample, nil
}

// Samples returns the persisted trail, oldest first.
func (s *TrailStore) Samples(ctx context.Context) []domain.LocationSample {
	return s.Load(ctx).Samples
}

func (s *TrailStore) Stats(ctx context.Context) domain.TrailStats {
	samples := s.Load(ctx).Samples
	if len(samples) == 0 {
		return domain.TrailStats{}
	}

	first := samples[0]
	last := samples[len(samples)-1]
	return domain.TrailStats{
		FirstPoint: &first,
		LastPoint:  &last,
		PointCount: len(samples),
	}
}

// Reset drops the whole trail.
func (s *TrailStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, domain.KeyLocationData); err != nil {
		return fmt.Errorf("reset trail: %w", err)
	}
	return nil
}

func (s *TrailStore) save(ctx context.Context, samples []domain.LocationSample) error {
	body, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("marshal trail: %w", err)
	}
	if err := s.repo.Set(ctx, domain.KeyLocationData, string(body)); err != nil {
		return fmt.Errorf("persist trail: %w", err)
	}
	return nil
}

// Curate keeps the samples strictly newer than cutoff, preserving order.
func Curate(samples []domain.LocationSample, cutoff int64) []domain.LocationSample {
	curated := make([]domain.LocationSample, 0, len(samples)+1)
	for _, s := range samples {
		if s.Time > cutoff {
			curated = append(curated, s)
		}
	}
	return curated
}

// Backfill repeats the last sample once per elapsed polling interval up to
// now, so a stationary device still leaves a continuous trail. It adds
// floor((now-last)/interval) samples at last+interval, last+2*interval, ...
// A last sample at or after now adds nothing.
func Backfill(samples []domain.LocationSample, now, interval int64) []domain.LocationSample {
	if len(samples) == 0 || interval <= 0 {
		return samples
	}

	last := samples[len(samples)-1]
	if now <= last.Time {
		return samples
	}
	gap := now - last.Time
	if gap < 0 {
		// overflow
		return samples
	}

	for i, n := int64(1), gap/interval; i <= n; i++ {
		samples = append(samples, domain.LocationSample{
			Latitude:  last.Latitude,
			Longitude: last.Longitude,
			Time:      last.Time + i*interval,
		})
	}
	return samples
}
