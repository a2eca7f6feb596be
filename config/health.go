package config

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type closer interface {
	IsClosed() bool
}

type connector interface {
	IsConnected() bool
}

type probe struct {
	name  string
	check func(ctx context.Context) error
}

// HealthChecker reports the state of the store, the export broker and the
// location broker.
type HealthChecker struct {
	probes []probe
}

func NewHealthChecker(store pinger, amqpConn closer, mqttClient connector) *HealthChecker {
	return &HealthChecker{probes: []probe{
		{name: "store", check: store.PingContext},
		{name: "rabbitmq", check: func(context.Context) error {
			if amqpConn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}},
		{name: "mqtt", check: func(context.Context) error {
			if !mqttClient.IsConnected() {
				return errors.New("not connected")
			}
			return nil
		}},
	}}
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

func (h *HealthChecker) Handle(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}

	for _, p := range h.probes {
		if err := p.check(c.Request.Context()); err != nil {
			deps[p.name] = gin.H{"status": "down", "error": err.Error()}
			status = http.StatusServiceUnavailable
			continue
		}
		deps[p.name] = gin.H{"status": "up"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}
