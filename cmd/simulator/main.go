package main

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/config"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/ingest"
)

// reading uses the same wire names as POST /sensor-data.
type reading struct {
	EquipmentID string  `json:"equipmentId"`
	Timestamp   string  `json:"timestamp"`
	Value       float64 `json:"value"`
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.ApplyLogLevel(); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	equipment := config.SimulatorEquipment()
	if len(equipment) == 0 {
		log.Fatal().Msg("SIMULATOR_EQUIPMENT is empty")
	}

	client, err := ingest.Connect(ctx, ingest.Options{
		Broker:   config.MQTTBroker(),
		ClientID: "sensor-simulator-" + uuid.NewString(),
		Topic:    config.MQTTTopic(),
		QoS:      1,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer client.Close()

	count := config.SimulatorCount()
	for i := 0; i < count; i++ {
		r := reading{
			EquipmentID: equipment[i%len(equipment)],
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			// two decimal places fit the stored precision
			Value: float64(rand.IntN(100000)) / 100,
		}
		payload, err := json.Marshal(r)
		if err != nil {
			log.Fatal().Err(err).Msg("encode reading")
		}
		if err := client.Publish(ctx, payload); err != nil {
			log.Error().Err(err).Msg("publish failed")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(500 * time.Millisecond):
		}
	}
	log.Info().Int("published", count).Msg("simulation done")
}
