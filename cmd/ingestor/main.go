package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/config"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/database"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/ingest"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.ApplyLogLevel(); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if config.DBMigrate() {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("db migrate failed")
		}
	}

	svcs := service.New(db, service.Deps{})

	sub, err := ingest.Subscribe(ctx, ingest.Options{
		Broker:   config.MQTTBroker(),
		ClientID: config.MQTTClientID(),
		Topic:    config.MQTTTopic(),
		QoS:      1,
	}, svcs.Readings.FromMQTT)
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt subscribe failed")
	}
	defer sub.Close()

	log.Info().Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("ingestor stopped")
}
