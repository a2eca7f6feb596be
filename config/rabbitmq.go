package config

import (
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	dialAttempts = 5
	dialDelay    = 2 * time.Second
)

// NewRabbitMQ dials the export broker, retrying while it comes up.
func NewRabbitMQ(cfg *Config) (*amqp.Connection, error) {
	var lastErr error
	for i := 1; i <= dialAttempts; i++ {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err == nil {
			return conn, nil
		}

		lastErr = err
		log.Printf("rabbitmq connect attempt %d/%d: %v", i, dialAttempts, err)
		if i < dialAttempts {
			time.Sleep(dialDelay)
		}
	}
	return nil, fmt.Errorf("rabbitmq connect failed after %d attempts: %w", dialAttempts, lastErr)
}
