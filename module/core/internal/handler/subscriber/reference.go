package subscriber

import (
	"context"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/p0x6/private-kit/module/core/domain"
	"github.com/p0x6/private-kit/module/core/service"
)

// One topic per label. The payload is a JSON [lon, lat]; anything else clears
// the reference.
const (
	HomeTopic = "privatekit/reference/home"
	WorkTopic = "privatekit/reference/work"
)

type referenceService interface {
	SetReference(ctx context.Context, label domain.Label, coordinate []float64) error
}

type ReferenceSubscriber struct {
	client       mqtt.Client
	referenceSvc referenceService
}

func NewReferenceSubscriber(client mqtt.Client, referenceSvc referenceService) *ReferenceSubscriber {
	return &ReferenceSubscriber{
		client:       client,
		referenceSvc: referenceSvc,
	}
}

func (s *ReferenceSubscriber) Start() error {
	token := s.client.SubscribeMultiple(map[string]byte{
		HomeTopic: 1,
		WorkTopic: 1,
	}, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *ReferenceSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	label, ok := labelForTopic(msg.Topic())
	if !ok {
		log.Printf("reference update on unexpected topic %s", msg.Topic())
		return
	}

	coordinate := service.ParseCoordinate(msg.Payload())
	log.Printf("setting %s location: %v", label, coordinate)

	if err := s.referenceSvc.SetReference(context.Background(), label, coordinate); err != nil {
		log.Printf("set %s location error: %v", label, err)
	}
}

func labelForTopic(topic string) (domain.Label, bool) {
	switch topic {
	case HomeTopic:
		return domain.LabelHome, true
	case WorkTopic:
		return domain.LabelWork, true
	}
	return "", false
}
