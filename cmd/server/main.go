package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/p0x6/private-kit/config"
	"github.com/p0x6/private-kit/module/core"
	"github.com/p0x6/private-kit/module/core/service"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := config.NewTracing(ctx, cfg)
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := config.NewStore(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = amqpConn.Close() }()

	// set once the module is built; earlier connects have nothing to restore
	var coreModule atomic.Pointer[core.Module]
	mqttClient, err := config.NewMQTT(cfg, func(c mqtt.Client) {
		if m := coreModule.Load(); m != nil {
			m.OnConnect(c)
		}
	})
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	module, err := core.Build(ctx, db, amqpConn, mqttClient, service.TrailConfig{
		Retention:       cfg.RetentionWindow,
		PollingInterval: cfg.PollingInterval,
	})
	if err != nil {
		log.Fatalf("core module: %v", err)
	}
	coreModule.Store(module)

	if err := module.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	if cfg.AutoStartTracking {
		handle, err := module.Tracker.Start(ctx)
		if err != nil {
			log.Fatalf("start tracking: %v", err)
		}
		defer func() { _ = handle.Stop(context.Background()) }()
		log.Printf("tracking started, handle %s", handle.ID)
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	module.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           otelhttp.NewHandler(r, "private-kit"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on :%s", cfg.HTTPPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
	log.Println("shutting down")
}
