package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

type Config struct {
	HTTPAddr   string     `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir     string     `env:"SPA_DIR" envDefault:"../web/dist"`
	StorageKey string     `env:"STORAGE_KEY" envDefault:"tanzeem-storage" validate:"required"`
	Snapshot   Snapshot   `envPrefix:"SNAPSHOT_"`

	// OpsConfigPath points at a HuJSON file overriding the pilot figures.
	OpsConfigPath string `env:"OPS_CONFIG"`
	// DemoResetCron resets the demo on a cron schedule; empty disables it.
	DemoResetCron string `env:"DEMO_RESET_CRON"`
}

// Snapshot selects and configures the slot the store persists to.
type Snapshot struct {
	Driver string `env:"DRIVER" envDefault:"sqlite" validate:"oneof=sqlite postgres file redis s3 nats memory"`

	DBPath      string `env:"DB_PATH" envDefault:"data/tanzeem.db"`
	PostgresDSN string `env:"POSTGRES_DSN" validate:"required_if=Driver postgres"`
	Dir         string `env:"DIR" envDefault:"data"`

	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"tanzeem:"`

	S3Bucket          string `env:"S3_BUCKET" validate:"required_if=Driver s3"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Prefix          string `env:"S3_PREFIX"`
	S3PathStyle       bool   `env:"S3_PATH_STYLE"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	NATSURL    string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSBucket string `env:"NATS_BUCKET" envDefault:"tanzeem"`
}

// Load reads .env files (default ".env", missing files are skipped) into
// the environment without overriding it, then parses and validates Config.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// LoadOps returns the default pilot figures overlaid with the HuJSON file at
// path. An empty path yields the defaults.
func LoadOps(path string) (tanzeem.OpsConfig, error) {
	cfg := tanzeem.DefaultOpsConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading ops config: %w", err)
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return cfg, fmt.Errorf("parsing ops config %s: %w", path, err)
	}
	if err := json.Unmarshal(std, &cfg); err != nil {
		return cfg, fmt.Errorf("decoding ops config %s: %w", path, err)
	}
	if cfg.TotalParents <= 0 {
		return cfg, fmt.Errorf("ops config %s: totalParents must be positive", path)
	}
	return cfg, nil
}
