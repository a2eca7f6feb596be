package service

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/p0x6/private-kit/module/core/domain"
	"github.com/p0x6/private-kit/module/core/internal/repository/publisher"
)

type trailAppender interface {
	Append(ctx context.Context, latitude, longitude float64) (domain.LocationSample, error)
}

type zoneSource interface {
	ActiveZones() []domain.BannedZone
}

// IngestPipeline records every raw location in the trail and forwards it to
// the exporter unless it falls inside a banned zone.
type IngestPipeline struct {
	trail    trailAppender
	zones    zoneSource
	exporter publisher.LocationExporter
	tracer   trace.Tracer
}

func NewIngestPipeline(trail trailAppender, zones zoneSource, exporter publisher.LocationExporter) *IngestPipeline {
	return &IngestPipeline{
		trail:    trail,
		zones:    zones,
		exporter: exporter,
		tracer:   otel.Tracer("github.com/p0x6/private-kit/module/core/service"),
	}
}

// Ingest returns an error only when the trail could not be written; in that
// case nothing is exported. Export failures are logged and swallowed.
func (p *IngestPipeline) Ingest(ctx context.Context, raw domain.RawLocation) (domain.Decision, error) {
	ctx, span := p.tracer.Start(ctx, "ingest")
	defer span.End()

	if _, err := p.trail.Append(ctx, raw.Latitude, raw.Longitude); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append trail")
		return "", err
	}

	decision := domain.DecisionRecorded
	if zone, ok := p.bannedZoneFor(raw); ok {
		log.Printf("location within %s zone, not exporting", zone)
		decision = domain.DecisionSuppressed
	}
	span.SetAttributes(attribute.String("ingest.decision", string(decision)))

	if decision == domain.DecisionRecorded {
		loc := &domain.ExportLocation{Latitude: raw.Latitude, Longitude: raw.Longitude}
		if err := p.exporter.Submit(ctx, loc); err != nil {
			log.Printf("export location error: %v", err)
			span.RecordError(err)
		}
	}
	return decision, nil
}

func (p *IngestPipeline) bannedZoneFor(raw domain.RawLocation) (domain.Label, bool) {
	zones := p.zones.ActiveZones()
	if len(zones) == 0 {
		return "", false
	}

	pt := domain.Point{Lon: raw.Longitude, Lat: raw.Latitude}
	for _, z := range zones {
		if IsInside(pt, z.Polygon) {
			return z.Label, true
		}
	}
	return "", false
}
