package subscriber

import (
	"context"
	"errors"
	"testing"

	"github.com/p0x6/private-kit/module/core/domain"
)

type mockIngestSvc struct {
	ingestFn func(ctx context.Context, raw domain.RawLocation) (domain.Decision, error)
}

func (m *mockIngestSvc) Ingest(ctx context.Context, raw domain.RawLocation) (domain.Decision, error) {
	return m.ingestFn(ctx, raw)
}

type fakeMQTTMessage struct {
	topic   string
	payload []byte
}

func (f *fakeMQTTMessage) Duplicate() bool   { return false }
func (f *fakeMQTTMessage) Qos() byte         { return 0 }
func (f *fakeMQTTMessage) Retained() bool    { return false }
func (f *fakeMQTTMessage) Topic() string     { return f.topic }
func (f *fakeMQTTMessage) MessageID() uint16 { return 0 }
func (f *fakeMQTTMessage) Payload() []byte   { return f.payload }
func (f *fakeMQTTMessage) Ack()              {}

func TestHandleMessage_Success(t *testing.T) {
	var ingested *domain.RawLocation
	svc := &mockIngestSvc{
		ingestFn: func(_ context.Context, raw domain.RawLocation) (domain.Decision, error) {
			ingested = &raw
			return domain.DecisionRecorded, nil
		},
	}

	sub := &LocationSubscriber{ingestSvc: svc}
	payload := []byte(`{"latitude":37.4219983,"longitude":-122.084,"time":1583696413000,"accuracy":20}`)
	sub.handleMessage(nil, &fakeMQTTMessage{topic: LocationTopic, payload: payload})

	if ingested == nil {
		t.Fatal("expected Ingest to be called")
	}
	if ingested.Latitude != 37.4219983 {
		t.Errorf("expected 37.4219983, got %f", ingested.Latitude)
	}
	if ingested.Longitude != -122.084 {
		t.Errorf("expected -122.084, got %f", ingested.Longitude)
	}
	if ingested.Time != 1583696413000 {
		t.Errorf("expected advisory time to be carried, got %d", ingested.Time)
	}
}

func TestHandleMessage_WithoutTime(t *testing.T) {
	called := false
	svc := &mockIngestSvc{
		ingestFn: func(_ context.Context, _ domain.RawLocation) (domain.Decision, error) {
			called = true
			return domain.DecisionSuppressed, nil
		},
	}

	sub := &LocationSubscriber{ingestSvc: svc}
	sub.handleMessage(nil, &fakeMQTTMessage{payload: []byte(`{"latitude":0,"longitude":0}`)})

	if !called {
		t.Fatal("expected Ingest to be called for a location at 0,0")
	}
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	svc := &mockIngestSvc{
		ingestFn: func(_ context.Context, _ domain.RawLocation) (domain.Decision, error) {
			t.Fatal("Ingest should not be called")
			return "", nil
		},
	}

	sub := &LocationSubscriber{ingestSvc: svc}
	sub.handleMessage(nil, &fakeMQTTMessage{payload: []byte("invalid")})
}

func TestHandleMessage_ValidationError(t *testing.T) {
	svc := &mockIngestSvc{
		ingestFn: func(_ context.Context, _ domain.RawLocation) (domain.Decision, error) {
			t.Fatal("Ingest should not be called")
			return "", nil
		},
	}

	sub := &LocationSubscriber{ingestSvc: svc}
	// missing longitude
	sub.handleMessage(nil, &fakeMQTTMessage{payload: []byte(`{"latitude":37.4}`)})
}

func TestHandleMessage_IngestError(t *testing.T) {
	svc := &mockIngestSvc{
		ingestFn: func(_ context.Context, _ domain.RawLocation) (domain.Decision, error) {
			return "", errors.New("db error")
		},
	}

	sub := &LocationSubscriber{ingestSvc: svc}
	sub.handleMessage(nil, &fakeMQTTMessage{payload: []byte(`{"latitude":1,"longitude":2}`)})
}

func TestValidateLocationMessage(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name    string
		msg     locationMessage
		wantErr bool
	}{
		{"valid", locationMessage{Latitude: f(0), Longitude: f(0), Time: 1}, false},
		{"valid without time", locationMessage{Latitude: f(10), Longitude: f(20)}, false},
		{"missing latitude", locationMessage{Longitude: f(0)}, true},
		{"missing longitude", locationMessage{Latitude: f(0)}, true},
		{"lat too low", locationMessage{Latitude: f(-91), Longitude: f(0)}, true},
		{"lat too high", locationMessage{Latitude: f(91), Longitude: f(0)}, true},
		{"lon too low", locationMessage{Latitude: f(0), Longitude: f(-181)}, true},
		{"lon too high", locationMessage{Latitude: f(0), Longitude: f(181)}, true},
		{"negative time", locationMessage{Latitude: f(0), Longitude: f(0), Time: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLocationMessage(&tt.msg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateLocationMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
