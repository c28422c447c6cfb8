package app

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	server "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/http"
	gatewayController "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/http/controllers/gateway"
	astroApi "github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/astroApi"
	"github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/bedrock"
	kafkaAdapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/kafka"
	"github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/dynamo"
	"github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/s3"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/logger"
	"github.com/ErdunE/mira-astrology-companion/internal/usecases/router"
)

const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
)

type Config struct {
	Log      *logger.Config            `envconfig:"LOG"`
	Service  ServiceConfig             `envconfig:"SERVICE"`
	Server   *server.Config            `envconfig:"APISERVER"`
	Gateway  *gatewayController.Config `envconfig:"GATEWAY"`
	Router   *router.Config            `envconfig:"ROUTER"`
	Store    StoreConfig               `envconfig:"STORE"`
	DynamoDB *dynamo.Config            `envconfig:"DYNAMODB"`
	Postgres *pg.Config                `envconfig:"POSTGRES"`
	Bedrock  *bedrock.Config           `envconfig:"BEDROCK"`
	AstroAPI *astroApi.Config          `envconfig:"ASTRO_API"`
	Redis    *redisAdapter.Config      `envconfig:"REDIS"`
	S3       *s3Adapter.Config         `envconfig:"S3"`
	Charts   ChartsConfig              `envconfig:"CHARTS"`
	Kafka    kafkaAdapter.KafkaConfigs `envconfig:"KAFKA"`
	Jobs     JobsConfig                `envconfig:"JOBS"`
}

// ServiceConfig то, что отдаёт GET /health
type ServiceConfig struct {
	Name    string `envconfig:"NAME" default:"mira-api"`
	Version string `envconfig:"VERSION" default:"1.0.0"`
}

// StoreConfig выбор хранилища профилей: dynamodb или postgres
type StoreConfig struct {
	Driver string `envconfig:"DRIVER" default:"dynamodb"`
}

type ChartsConfig struct {
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"24h"`
}

type JobsConfig struct {
	KeepaliveInterval time.Duration `envconfig:"KEEPALIVE_INTERVAL" default:"5m"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	if cfg.Store.Driver != StoreDynamoDB && cfg.Store.Driver != StorePostgres {
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}

	// Загружаем Kafka конфигурацию вручную (envconfig не умеет определять размер слайса)
	if err := cfg.Kafka.Load(envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load kafka config: %w", err)
	}

	return cfg, nil
}
