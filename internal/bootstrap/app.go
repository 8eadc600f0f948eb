package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appsvc "tcg-backend/internal/app"
	"tcg-backend/internal/cache"
	"tcg-backend/internal/config"
	mysqlClient "tcg-backend/internal/platform/mysql"
	postgresClient "tcg-backend/internal/platform/postgres"
	rabbitmqClient "tcg-backend/internal/platform/rabbitmq"
	redisClient "tcg-backend/internal/platform/redis"
	"tcg-backend/internal/repository"
	"tcg-backend/internal/worker"
)

// App holds the process-wide clients. Redis, MQConn, Presence, Publisher and
// DeckEventWorker stay nil when their backend is disabled.
type App struct {
	Config          *config.Config
	DB              *gorm.DB
	Redis           *redis.Client
	MQConn          *amqp.Connection
	DeckEventWorker *worker.DeckEventWorker
	Presence        *cache.PresenceCache
	Publisher       appsvc.DeckEventPublisher

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return assemble(ctx, cfg, db)
}

var migrate = repository.AutoMigrate

// assemble owns db from here on: every failure path closes it along with
// whatever else was already opened.
func assemble(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	app := &App{
		Config:    cfg,
		DB:        db,
		StartedAt: time.Now(),
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(db); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Redis = redisCli
		app.Presence = cache.NewPresenceCache(redisCli, cfg.PresenceTTL())
	} else {
		log.Printf("redis disabled, presence is not tracked")
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.DeckEventQueue)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.MQConn = mqConn
		app.Publisher = rabbitmqClient.NewDeckEventPublisher(mqConn, cfg.RabbitMQ.DeckEventQueue)

		eventWorker := worker.NewDeckEventWorker(mqConn, repository.NewDeckEventRepository(db), cfg.RabbitMQ.DeckEventQueue)
		if err := eventWorker.Start(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("start deck event worker failed: %w", err)
		}
		app.DeckEventWorker = eventWorker
	} else {
		log.Printf("rabbitmq disabled, deck events are not published")
	}

	return app, nil
}

// OpenDB connects to the store selected by the configured database URL.
func OpenDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DatabaseDialect() {
	case "postgres":
		return postgresClient.New(ctx, cfg.DatabaseDSN())
	default:
		return mysqlClient.New(ctx, cfg.DatabaseDSN())
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.DeckEventWorker != nil {
		a.DeckEventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
