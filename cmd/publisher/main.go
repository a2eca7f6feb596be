package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const topic = "privatekit/device/location"

type locationMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Time      int64   `json:"time"`
}

// Simulated device: wanders around a home point and sometimes leaves for a
// point a few kilometres away.
var (
	homeLat, homeLon = 37.4220, -122.0840
	awayLat, awayLon = 37.3875, -122.0575
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("privatekit-mock-device")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)
	log.Printf("home is at [%f, %f]", homeLon, homeLat)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var lat, lon float64
		// 60% chance to report near home (-> suppressed once home is set)
		if rand.Float64() < 0.6 {
			lat = homeLat + (rand.Float64()-0.5)*0.0004 // ~20m drift
			lon = homeLon + (rand.Float64()-0.5)*0.0004
		} else {
			lat = awayLat + (rand.Float64()-0.5)*0.01
			lon = awayLon + (rand.Float64()-0.5)*0.01
		}

		msg := locationMessage{
			Latitude:  lat,
			Longitude: lon,
			Time:      time.Now().UnixMilli(),
		}

		payload, _ := json.Marshal(msg)
		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
