// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/meadcraft/meadery/internal/application/inventory"
	"github.com/meadcraft/meadery/internal/application/recipe"
	"github.com/meadcraft/meadery/internal/application/settings"
	domainSettings "github.com/meadcraft/meadery/internal/domain/settings"
	"github.com/meadcraft/meadery/internal/infrastructure/ai"
	"github.com/meadcraft/meadery/internal/infrastructure/ai/gemini"
	"github.com/meadcraft/meadery/internal/infrastructure/ai/ollama"
	"github.com/meadcraft/meadery/internal/infrastructure/config"
	"github.com/meadcraft/meadery/internal/infrastructure/http/handlers"
	"github.com/meadcraft/meadery/internal/infrastructure/http/server"
	"github.com/meadcraft/meadery/internal/infrastructure/messaging"
	"github.com/meadcraft/meadery/internal/infrastructure/monitoring"
	gormRepo "github.com/meadcraft/meadery/internal/infrastructure/persistence/gorm"
	"github.com/meadcraft/meadery/internal/infrastructure/persistence/memory"
	"github.com/meadcraft/meadery/internal/infrastructure/persistence/postgres"
	redisCache "github.com/meadcraft/meadery/internal/infrastructure/persistence/redis"
	"github.com/meadcraft/meadery/internal/infrastructure/persistence/sqlite"
	"github.com/meadcraft/meadery/internal/infrastructure/security"
	"github.com/meadcraft/meadery/internal/ports/inbound"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	"github.com/meadcraft/meadery/pkg/healthcheck"
	"github.com/meadcraft/meadery/pkg/logger"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cacheJanitorInterval = 10 * time.Minute

// New assembles the application graph. An empty configPath searches the
// default locations.
func New(configPath string) fx.Option {
	return fx.Options(
		ConfigModule(configPath),
		LoggerModule,
		MonitoringModule,
		DatabaseModule,
		CacheModule,
		RepositoryModule,
		GeneratorModule,
		EventModule,
		ServiceModule,
		HTTPModule,
		LifecycleModule,
	)
}

// ConfigModule provides configuration and the viper instance backing it
func ConfigModule(configPath string) fx.Option {
	return fx.Provide(
		func() (*config.Config, *viper.Viper, error) {
			return config.LoadWithViper(configPath)
		},
	)
}

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(loggerConfig(cfg))
	},
)

// loggerConfig keeps development logging off in production even with debug set
func loggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug && !cfg.IsProduction(),
	}
}

// MonitoringModule provides metrics, tracing and the health aggregator
var MonitoringModule = fx.Options(
	fx.Provide(
		monitoring.NewMetricsCollector,
		func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
			return healthcheck.New(cfg.App.Version, log.Named("health"))
		},
		newTracingProvider,
	),
	// The tracer provider is global; nothing depends on it by type.
	fx.Invoke(func(*monitoring.TracingProvider) {}),
)

func newTracingProvider(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
		Enabled:        cfg.Monitoring.Tracing.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		Endpoint:       cfg.Monitoring.Tracing.Endpoint,
		Insecure:       cfg.Monitoring.Tracing.Insecure,
		SamplingRate:   cfg.Monitoring.Tracing.SamplingRate,
	}, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: tp.Shutdown,
	})
	return tp, nil
}

// DatabaseModule provides the GORM handle for the configured driver
var DatabaseModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, health *healthcheck.HealthCheck, metrics *monitoring.MetricsCollector) (*gorm.DB, error) {
		var db *gorm.DB

		switch cfg.Database.Driver {
		case "postgres":
			manager, err := postgres.NewConnectionManager(cfg, log)
			if err != nil {
				return nil, err
			}
			db = manager.GetDB()
			health.Register("database", healthcheck.NewPingChecker(manager.HealthCheck))
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return manager.Close()
				},
			})

		default:
			gormLogger := gormRepo.NewLogger(log, gormRepo.LogLevel(cfg.Database.LogLevel))
			var err error
			db, err = sqlite.SetupDatabase(cfg.Database.Path, gormLogger, cfg.Database.AutoMigrate)
			if err != nil {
				return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
			}

			sqlDB, err := db.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database handle: %w", err)
			}
			health.Register("database", healthcheck.NewPingChecker(sqlDB.PingContext))
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return sqlDB.Close()
				},
			})

			log.Info("Connected to SQLite database",
				zap.String("path", cfg.Database.Path),
				zap.Bool("in_memory", cfg.Database.Path == "" || cfg.Database.Path == ":memory:"),
			)
		}

		if sqlDB, err := db.DB(); err == nil {
			metrics.RegisterDBStats(sqlDB, cfg.Database.Driver)
		}

		if cfg.Database.Seed {
			if err := sqlite.SeedDatabase(db); err != nil {
				log.Warn("Failed to seed database", zap.Error(err))
			}
		}

		return db, nil
	},
)

// CacheModule provides the draft cache: Redis when enabled, memory otherwise
var CacheModule = fx.Provide(
	func(
		lc fx.Lifecycle,
		cfg *config.Config,
		log *zap.Logger,
		metrics *monitoring.MetricsCollector,
		health *healthcheck.HealthCheck,
	) (outbound.CacheRepository, error) {
		if cfg.Redis.Enabled {
			client, err := redisCache.NewClient(context.Background(), &cfg.Redis)
			if err != nil {
				return nil, err
			}
			health.Register("redis", healthcheck.NewRedisChecker(client))
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return client.Close()
				},
			})
			log.Info("Using Redis draft cache", zap.String("addr", cfg.Redis.Addr))
			return redisCache.NewCacheRepository(client, metrics, log), nil
		}

		cache := memory.NewCacheRepository()
		janitorCtx, stopJanitor := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go cache.RunJanitor(janitorCtx, cacheJanitorInterval)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				stopJanitor()
				return nil
			},
		})
		log.Info("Using in-memory draft cache")
		return cache, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewRecipeRepository,
	gormRepo.NewInventoryRepository,
	gormRepo.NewSettingsRepository,
)

// GeneratorModule provides the recipe generator, rate limited and instrumented
var GeneratorModule = fx.Provide(
	func(
		cfg *config.Config,
		log *zap.Logger,
		metrics *monitoring.MetricsCollector,
		health *healthcheck.HealthCheck,
	) (outbound.RecipeGenerator, error) {
		var base outbound.RecipeGenerator

		switch cfg.AI.Provider {
		case "gemini":
			generator, err := gemini.NewGenerator(context.Background(), &cfg.AI, log)
			if err != nil {
				return nil, err
			}
			base = generator
		case "ollama":
			generator := ollama.NewGenerator(&cfg.AI, log)
			health.Register("generator", healthcheck.NewCustomChecker(
				func(ctx context.Context) (healthcheck.Status, string, interface{}) {
					if err := generator.HealthCheck(ctx); err != nil {
						return healthcheck.StatusDegraded, err.Error(), nil
					}
					return healthcheck.StatusHealthy, "", nil
				},
			))
			base = generator
		default:
			base = ai.NewStaticGenerator()
		}

		log.Info("Recipe generator configured",
			zap.String("provider", base.Name()),
			zap.Int("requests_per_minute", cfg.AI.RequestsPerMinute),
		)

		limited := ai.NewRateLimitedGenerator(base, cfg.AI.RequestsPerMinute, cfg.AI.Burst)
		return ai.NewInstrumentedGenerator(limited, metrics, log), nil
	},
)

// EventModule provides the in-process event bus
var EventModule = fx.Options(
	fx.Provide(
		messaging.NewLocalBus,
		func(bus *messaging.LocalBus) outbound.EventPublisher {
			return bus
		},
	),
	fx.Invoke(func(bus *messaging.LocalBus, metrics *monitoring.MetricsCollector) {
		bus.Subscribe("*", metrics.HandleEvent)
	}),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(repo outbound.SettingsRepository, cfg *config.Config, log *zap.Logger) (*settings.SettingsService, error) {
		defaults, err := brewingDefaults(cfg)
		if err != nil {
			return nil, err
		}
		return settings.NewSettingsService(repo, defaults, log), nil
	},
	func(svc *settings.SettingsService) inbound.SettingsService {
		return svc
	},
	inventory.NewInventoryService,
	func(
		recipeRepo outbound.RecipeRepository,
		inventoryRepo outbound.InventoryRepository,
		cache outbound.CacheRepository,
		generator outbound.RecipeGenerator,
		events outbound.EventPublisher,
		settingsService inbound.SettingsService,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.RecipeService {
		return recipe.NewRecipeService(
			recipeRepo, inventoryRepo, cache, generator, events, settingsService,
			recipe.Config{DraftTTL: cfg.Redis.DraftTTL},
			log,
		)
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	security.NewValidationService,
	func(cfg *config.Config, log *zap.Logger) *security.RateLimitService {
		return security.NewRateLimitService(security.RateLimitConfig{
			RequestsPerMinute: cfg.Server.RateLimitPerMinute,
			Burst:             cfg.Server.RateLimitBurst,
		}, log)
	},
	func(
		recipes inbound.RecipeService,
		inventoryService inbound.InventoryService,
		settingsService inbound.SettingsService,
		validation *security.ValidationService,
		limiter *security.RateLimitService,
		metrics *monitoring.MetricsCollector,
		health *healthcheck.HealthCheck,
		cfg *config.Config,
		log *zap.Logger,
	) *server.Server {
		return server.NewServer(cfg, log, server.Handlers{
			Recipes:     handlers.NewRecipeHandlers(recipes, settingsService, validation, metrics, cfg.Brewing.CurrencyLocale, log),
			Inventory:   handlers.NewInventoryHandlers(inventoryService, validation, metrics, log),
			Settings:    handlers.NewSettingsHandlers(settingsService, validation, log),
			Calculators: handlers.NewCalculatorHandlers(validation, log),
			Health:      health.Handler(),
		}, validation, metrics, server.WithClientLimiter(limiter))
	},
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// LifecycleParams groups the dependencies of the lifecycle hooks
type LifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	Viper      *viper.Viper
	Logger     *zap.Logger
	Server     *server.Server
	Metrics    *monitoring.MetricsCollector
	Settings   *settings.SettingsService
	Limiter    *security.RateLimitService
}

// RegisterLifecycleHooks starts the server and background workers and stops
// them in reverse order
func RegisterLifecycleHooks(p LifecycleParams) {
	log := p.Logger
	cfg := p.Config
	background, cancel := context.WithCancel(context.Background())

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Meadery",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("address", p.Server.Addr()),
			)

			go p.Metrics.StartUptimeCounter(background)
			go p.Limiter.RunJanitor(background, cacheJanitorInterval)

			if p.Viper.ConfigFileUsed() != "" {
				config.Watch(p.Viper, log, func(updated *config.Config) {
					defaults, err := brewingDefaults(updated)
					if err != nil {
						log.Warn("Ignoring brewing defaults", zap.Error(err))
						return
					}
					if err := p.Settings.SetDefaults(defaults); err != nil {
						log.Warn("Ignoring brewing defaults", zap.Error(err))
					}
				})
			}

			go func() {
				if err := p.Server.Start(); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Meadery")
			cancel()

			if cfg.Server.ShutdownTimeout > 0 {
				var stop context.CancelFunc
				ctx, stop = context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
				defer stop()
			}
			if err := p.Server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}

func brewingDefaults(cfg *config.Config) (domainSettings.Settings, error) {
	defaults, err := domainSettings.New(cfg.Brewing.CurrencySymbol, cfg.Brewing.DefaultBatchSizeLiters)
	if err != nil {
		return domainSettings.Settings{}, fmt.Errorf("invalid brewing defaults: %w", err)
	}
	return defaults, nil
}
