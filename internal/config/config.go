package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`

	// Bootstrap admin account, created on startup if missing.
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// MinIO object storage for audio clips.
	MinioEndpoint  string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioBucket    string `env:"MINIO_BUCKET_NAME" envDefault:"tts-eval-audio"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// Evaluation batch defaults.
	MOSBatchSize   int `env:"MOS_BATCH_SIZE" envDefault:"10"`
	MOSMaxPerModel int `env:"MOS_MAX_PER_MODEL" envDefault:"5"`
	ABPairCount    int `env:"AB_PAIR_COUNT" envDefault:"5"`

	SessionTTLMinutes int `env:"SESSION_TTL_MINUTES" envDefault:"720"`
}

// Load reads configuration from the environment, honoring a local .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
