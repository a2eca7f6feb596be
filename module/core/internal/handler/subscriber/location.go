package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/p0x6/private-kit/module/core/domain"
)

const LocationTopic = "privatekit/device/location"

type ingestService interface {
	Ingest(ctx context.Context, raw domain.RawLocation) (domain.Decision, error)
}

type locationMessage struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Time      int64    `json:"time,omitempty"`
}

// LocationSubscriber feeds raw provider events from MQTT into the ingest
// pipeline. Start and Stop toggle the subscription.
type LocationSubscriber struct {
	client    mqtt.Client
	ingestSvc ingestService
}

func NewLocationSubscriber(client mqtt.Client, ingestSvc ingestService) *LocationSubscriber {
	return &LocationSubscriber{
		client:    client,
		ingestSvc: ingestSvc,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(LocationTopic, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) Stop() error {
	token := s.client.Unsubscribe(LocationTopic)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid location message: %v", err)
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		log.Printf("validation error: %v", err)
		return
	}

	loc := domain.RawLocation{
		Latitude:  *raw.Latitude,
		Longitude: *raw.Longitude,
		Time:      raw.Time,
	}

	decision, err := s.ingestSvc.Ingest(context.Background(), loc)
	if err != nil {
		log.Printf("ingest location error: %v", err)
		return
	}
	log.Printf("location %s", decision)
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.Latitude == nil {
		return fmt.Errorf("latitude: required")
	}
	if msg.Longitude == nil {
		return fmt.Errorf("longitude: required")
	}
	if *msg.Latitude < -90 || *msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if *msg.Longitude < -180 || *msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Time < 0 {
		return fmt.Errorf("time: must not be negative")
	}
	return nil
}
