package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"tts-eval-platform/backend/internal/apigateway"
	"tts-eval-platform/backend/internal/auth"
	"tts-eval-platform/backend/internal/catalogmanagement"
	"tts-eval-platform/backend/internal/config"
	"tts-eval-platform/backend/internal/coreengine/aggregationengine"
	"tts-eval-platform/backend/internal/coreengine/ratingrecorder"
	"tts-eval-platform/backend/internal/coreengine/samplingengine"
	"tts-eval-platform/backend/internal/dashboard"
	"tts-eval-platform/backend/internal/datastore"
	"tts-eval-platform/backend/internal/evaluationmanagement"
	"tts-eval-platform/backend/internal/ingestion"
	"tts-eval-platform/backend/internal/objectstore"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.AppEnv == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	store, err := datastore.Open(cfg.PostgresDSN, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	if err := auth.EnsureAdminUser(store, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap admin user")
	}

	audio, err := objectstore.NewAudioStore(context.Background(), objectstore.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize audio store")
	}

	sessions := auth.NewSessionStore(time.Duration(cfg.SessionTTLMinutes) * time.Minute)
	sampler := samplingengine.NewEngine(store, rand.New(rand.NewSource(time.Now().UnixNano())), logger)
	recorder := ratingrecorder.NewRecorder(store, logger)
	aggregator := aggregationengine.NewEngine(store, logger)
	importer := ingestion.NewImporter(store, logger)

	router := apigateway.SetupRouter(apigateway.Handlers{
		Auth:     auth.NewHandler(store, sessions, cfg.SessionTTLMinutes*60, logger),
		Sessions: sessions,
		Evaluation: evaluationmanagement.NewHandler(sampler, recorder, store, evaluationmanagement.Defaults{
			MOSBatchSize:   cfg.MOSBatchSize,
			MOSMaxPerModel: cfg.MOSMaxPerModel,
			ABPairCount:    cfg.ABPairCount,
		}, logger),
		Dashboard: dashboard.NewHandler(aggregator, logger),
		Catalog:   catalogmanagement.NewHandler(store, audio, importer, logger),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info().Str("addr", addr).Msg("starting server")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
