package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	server "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/http"
	gatewayController "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/http/controllers/gateway"
	healthcheckController "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/http/controllers/healthcheck"
	kafkaConsumerAdapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/kafka/handlers"
	astroApiAdapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/astroApi"
	"github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/bedrock"
	kafkaAdapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/kafka"
	"github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/inmemory"
	"github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/s3"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/lazy"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/cache"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/kafka"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/repository"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/service"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/storage"
	profileRepo "github.com/ErdunE/mira-astrology-companion/internal/repository/profile"
	astroApiService "github.com/ErdunE/mira-astrology-companion/internal/services/astroApi"
	"github.com/ErdunE/mira-astrology-companion/internal/services/health"
	"github.com/ErdunE/mira-astrology-companion/internal/services/identity"
	jobScheduler "github.com/ErdunE/mira-astrology-companion/internal/services/jobs"
	"github.com/ErdunE/mira-astrology-companion/internal/services/validation"
	"github.com/ErdunE/mira-astrology-companion/internal/services/zodiac"
	chartUsecase "github.com/ErdunE/mira-astrology-companion/internal/usecases/chart"
	chatUsecase "github.com/ErdunE/mira-astrology-companion/internal/usecases/chat"
	profileUsecase "github.com/ErdunE/mira-astrology-companion/internal/usecases/profile"
	"github.com/ErdunE/mira-astrology-companion/internal/usecases/router"
)

// Core общее для Lambda и долгоживущего режима: роутер и всё, от чего он зависит
type Core struct {
	Router         *router.Router
	ProfileRepo    repository.IProfileRepo
	DB             *sqlx.DB // только для драйвера postgres
	KafkaProducers map[string]*kafkaAdapter.Producer
	Cache          cache.Cache
	Charts         *ChartSources
}

// Dependencies зависимости долгоживущего процесса
type Dependencies struct {
	*Core
	HTTPServer     *http.Server
	KafkaConsumers map[string]*kafkaConsumerAdapter.Consumer
	JobScheduler   *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	if err := a.Cfg.Gateway.Validate(); err != nil {
		return nil, err
	}

	core, err := a.initCore(ctx)
	if err != nil {
		return nil, err
	}

	kafkaConsumers := a.initKafkaConsumers(core)
	httpServer := a.initHTTP(core)
	scheduler := a.initJobScheduler(core)

	return &Dependencies{
		Core:           core,
		HTTPServer:     httpServer,
		KafkaConsumers: kafkaConsumers,
		JobScheduler:   scheduler,
	}, nil
}

// initCore собирает роутер и его зависимости
func (a *App) initCore(ctx context.Context) (*Core, error) {
	repo, db, err := a.initStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init profile store: %w", err)
	}

	producers := a.initKafkaProducers()
	chartSources := a.initCharts(ctx)

	identityExtractor := identity.New(a.Log)
	validator := validation.New(time.Now)
	generator := bedrock.NewClient(a.Cfg.Bedrock, nil, a.Log)

	var events kafka.IProfileEventProducer
	if producer, ok := producers[kafkaAdapter.ProfileEventsProducer]; ok {
		events = producer
	}

	profiles := profileUsecase.New(identityExtractor, validator, zodiac.New(), repo, events, a.Log)
	chat := chatUsecase.New(identityExtractor, validator, repo, chartSources.Provider, generator, a.Log)
	healthService := health.New(a.Cfg.Service.Name, a.Cfg.Service.Version, nil)

	return &Core{
		Router:         router.New(a.Cfg.Router, healthService, profiles, chat, generator, a.Log),
		ProfileRepo:    repo,
		DB:             db,
		KafkaProducers: producers,
		Cache:          chartSources.Cache,
		Charts:         chartSources,
	}, nil
}

// initStore хранилище профилей по драйверу
func (a *App) initStore(ctx context.Context) (repository.IProfileRepo, *sqlx.DB, error) {
	switch a.Cfg.Store.Driver {
	case StorePostgres:
		db, err := a.initPostgres(ctx)
		if err != nil {
			return nil, nil, err
		}
		return profileRepo.NewPostgres(pg.NewDB(db), a.Log), db, nil
	default:
		// клиент DynamoDB создаётся при первом обращении
		client := lazy.New(a.Cfg.DynamoDB.NewClient)
		a.Log.Info("dynamodb profile store configured", "table", a.Cfg.DynamoDB.Table)
		return profileRepo.NewDynamo(client, a.Cfg.DynamoDB.Table, a.Log), nil, nil
	}
}

func (a *App) initPostgres(ctx context.Context) (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(ctx, db, a.Log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// ChartSources источники натальных карт, все опциональные
type ChartSources struct {
	Calculator service.IChartCalculator
	Provider   *astroApiService.Provider
	Cache      cache.Cache
	Archive    storage.IObjectStorage
}

// initCharts инициализирует астро-API, кэш и архив карт
func (a *App) initCharts(ctx context.Context) *ChartSources {
	c := &ChartSources{}

	if a.Cfg.AstroAPI.Enabled() {
		c.Calculator = astroApiService.New(astroApiAdapter.NewClient(a.Cfg.AstroAPI, a.Log))
	} else {
		a.Log.Warn("astro API is not configured, charts will come from cache and archive only")
	}

	// Redis - опциональный, без него карты кэшируются в памяти процесса
	if a.Cfg.Redis.Enabled() {
		redisClient, err := a.Cfg.Redis.NewConnection(ctx)
		if err != nil {
			a.Log.Warn("failed to init redis cache, falling back to in-memory cache", "error", err)
		} else {
			c.Cache = redisAdapter.NewClient(redisClient)
			a.Log.Info("redis cache connected successfully")
		}
	}
	if c.Cache == nil {
		c.Cache = inmemory.NewCache(time.Now)
	}

	if a.Cfg.S3.Enabled() {
		minioClient, err := a.Cfg.S3.NewClient(ctx)
		if err != nil {
			a.Log.Warn("failed to init chart archive, continuing without it", "error", err)
		} else {
			c.Archive = s3Adapter.NewClient(minioClient, a.Cfg.S3.Bucket, a.Log)
			a.Log.Info("chart archive connected successfully", "bucket", a.Cfg.S3.Bucket)
		}
	}

	c.Provider = astroApiService.NewProvider(c.Calculator, c.Cache, c.Archive, a.Cfg.Charts.CacheTTL, a.Log)
	return c
}

// initKafkaProducers producer: есть topic, но нет consumer group
func (a *App) initKafkaProducers() map[string]*kafkaAdapter.Producer {
	producers := make(map[string]*kafkaAdapter.Producer)

	for _, kafkaCfg := range a.Cfg.Kafka.List {
		if kafkaCfg.Config == nil || kafkaCfg.Config.Topic == "" || kafkaCfg.Config.ConsumerGroup != "" {
			continue
		}
		prod, err := kafkaAdapter.NewProducer(kafkaCfg.Config, a.Log)
		if err != nil {
			a.Log.Warn("failed to create kafka producer", "error", err, "name", kafkaCfg.Name)
			continue
		}
		producers[kafkaCfg.Name] = prod
	}

	return producers
}

// initKafkaConsumers consumer: есть consumer group
func (a *App) initKafkaConsumers(core *Core) map[string]*kafkaConsumerAdapter.Consumer {
	consumers := make(map[string]*kafkaConsumerAdapter.Consumer)

	for _, kafkaCfg := range a.Cfg.Kafka.List {
		if kafkaCfg.Config == nil || kafkaCfg.Config.ConsumerGroup == "" {
			continue
		}

		handler := a.createHandlerForTopic(kafkaCfg.Name, core)
		if handler == nil {
			a.Log.Warn("no handler for kafka topic, skipping consumer", "name", kafkaCfg.Name)
			continue
		}

		consumer, err := kafkaConsumerAdapter.NewConsumer(kafkaCfg.Config, handler, a.Log)
		if err != nil {
			a.Log.Warn("failed to create kafka consumer", "error", err, "name", kafkaCfg.Name)
			continue
		}
		consumers[kafkaCfg.Name] = consumer
	}

	return consumers
}

// createHandlerForTopic обработчик по имени роли подключения
func (a *App) createHandlerForTopic(name string, core *Core) kafka.MessageHandler {
	switch name {
	case kafkaAdapter.ChartWorkerConsumer:
		if core.Charts.Calculator == nil {
			a.Log.Warn("chart worker requires astro API configuration")
			return nil
		}
		chartService := chartUsecase.New(core.ProfileRepo, core.Charts.Calculator, core.Charts.Provider, a.Log)
		return kafkaHandlers.NewProfileCreatedHandler(chartService, a.Log)
	default:
		return nil
	}
}

// initHTTP локальный шлюз: /ready и всё остальное через роутер
func (a *App) initHTTP(core *Core) *http.Server {
	controllers := []server.Controller{
		healthcheckController.New(core.ProfileRepo, a.Log),
		gatewayController.New(a.Cfg.Gateway, core.Router, a.Log),
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}

// initJobScheduler планировщик с джобой прогрева модели
func (a *App) initJobScheduler(core *Core) *jobScheduler.Scheduler {
	scheduler := jobScheduler.NewScheduler(a.Log)

	if a.Cfg.Jobs.KeepaliveInterval > 0 {
		scheduler.Register(jobScheduler.NewKeepaliveJob(core.Router, a.Cfg.Jobs.KeepaliveInterval, a.Log))
		a.Log.Info("keepalive job registered", "interval", a.Cfg.Jobs.KeepaliveInterval)
	}

	return scheduler
}
