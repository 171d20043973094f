package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/auth"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/cloud"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/config"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/sensor-readings-api/internal/http"
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

	accessTTL, err := config.AccessTokenLifetime()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token lifetime")
	}
	refreshTTL, err := config.RefreshTokenLifetime()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token lifetime")
	}

	deps := service.Deps{
		Tokens: auth.NewIssuer(config.JWTSecret(), accessTTL, refreshTTL),
		Hasher: auth.NewHasher(config.BcryptCost()),
	}

	// Initialize cloud services if enabled
	if config.UseCloudServices() {
		awsCfg, err := cloud.LoadAWSConfig(ctx, config.AWSRegion())
		if err != nil {
			log.Fatal().Err(err).Msg("aws config failed")
		}
		deps.Archiver = cloud.NewS3Archiver(awsCfg, config.S3Bucket())
		if arn := config.SNSTopicArn(); arn != "" {
			deps.Notifier = cloud.NewSNSNotifier(awsCfg, arn)
		}
		if table := config.UploadsTable(); table != "" {
			deps.Ledger = cloud.NewUploadLedger(awsCfg, table)
		}
		log.Info().Str("bucket", config.S3Bucket()).Msg("cloud services enabled")
	}

	svcs := service.New(db, deps)
	app := httpHandlers.NewApp(svcs, httpHandlers.Options{BodyLimit: config.UploadMaxBytes()})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
