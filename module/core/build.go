package core

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	handler "github.com/p0x6/private-kit/module/core/internal/handler/http"
	"github.com/p0x6/private-kit/module/core/internal/handler/subscriber"
	"github.com/p0x6/private-kit/module/core/internal/repository/database/sqlkv"
	"github.com/p0x6/private-kit/module/core/internal/repository/publisher/rabbitmq"
	"github.com/p0x6/private-kit/module/core/service"
)

// ExportQueue is the queue exported locations are delivered to.
const ExportQueue = rabbitmq.QueueName

// DeclareExportTopology declares the exchange and queue the exporter publishes
// through, for consumers of exported locations.
func DeclareExportTopology(ch *amqp.Channel) error {
	return rabbitmq.DeclareTopology(ch)
}

type Module struct {
	Trail      *service.TrailStore
	References *service.ReferenceRegistry
	Ingest     *service.IngestPipeline
	Tracker    *service.Tracker

	trailHandler    *handler.TrailHandler
	trackingHandler *handler.TrackingHandler
	referenceSub    *subscriber.ReferenceSubscriber
}

func Build(ctx context.Context, db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, trailCfg service.TrailConfig) (*Module, error) {
	kvRepo := sqlkv.NewKVRepo(db)
	if err := kvRepo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate kv store: %w", err)
	}

	exporter, err := rabbitmq.NewLocationExporter(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("location exporter: %w", err)
	}

	trail := service.NewTrailStore(kvRepo, trailCfg)
	references := service.NewReferenceRegistry(kvRepo)
	references.Restore(ctx)

	ingest := service.NewIngestPipeline(trail, references, exporter)
	locationSub := subscriber.NewLocationSubscriber(mqttClient, ingest)
	tracker := service.NewTracker(locationSub, kvRepo)
	overlap := service.NewOverlapService(trail, service.DefaultOverlapThresholdKm)

	return &Module{
		Trail:           trail,
		References:      references,
		Ingest:          ingest,
		Tracker:         tracker,
		trailHandler:    handler.NewTrailHandler(trail, references, overlap),
		trackingHandler: handler.NewTrackingHandler(tracker),
		referenceSub:    subscriber.NewReferenceSubscriber(mqttClient, references),
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.trailHandler.Register(r)
	m.trackingHandler.Register(r)
}

// StartSubscribers listens for reference updates. Location events are only
// consumed while a tracking handle is held.
func (m *Module) StartSubscribers() error {
	return m.referenceSub.Start()
}

// Resubscribe restores every subscription the module should hold: reference
// updates always, location events while tracking is active.
func (m *Module) Resubscribe() error {
	if err := m.referenceSub.Start(); err != nil {
		return fmt.Errorf("resubscribe references: %w", err)
	}
	if err := m.Tracker.Resume(); err != nil {
		return fmt.Errorf("resubscribe locations: %w", err)
	}
	return nil
}

// OnConnect is an MQTT connect handler that calls Resubscribe.
func (m *Module) OnConnect(_ mqtt.Client) {
	if err := m.Resubscribe(); err != nil {
		log.Printf("mqtt reconnect: %v", err)
		return
	}
	log.Printf("mqtt subscriptions restored")
}
