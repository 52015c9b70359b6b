package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"academy-qabot/internal/app"
	"academy-qabot/internal/cache"
	"academy-qabot/internal/config"
	"academy-qabot/internal/crawler"
	"academy-qabot/internal/model"
	mysqlClient "academy-qabot/internal/platform/mysql"
	postgresClient "academy-qabot/internal/platform/postgres"
	rabbitmqClient "academy-qabot/internal/platform/rabbitmq"
	redisClient "academy-qabot/internal/platform/redis"
	"academy-qabot/internal/repository"
	"academy-qabot/internal/storage"
	"academy-qabot/internal/vectorstore"
	"academy-qabot/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Postgres    *pgxpool.Pool
	Redis       *redis.Client
	MQConn      *amqp.Connection
	QALogWorker *worker.QALogWorker

	VectorStore vectorstore.Store
	Storage     storage.Storage
	AnswerCache *cache.AnswerCache
	QALogs      *repository.QALogRepository

	QA     *app.QAService
	Ingest *app.IngestService
	Auth   *app.AuthService

	StartedAt time.Time
}

type options struct {
	startWorker bool
}

type Option func(*options)

// WithoutWorker skips the QA log consumer. One-shot CLI commands use it.
func WithoutWorker() Option {
	return func(o *options) {
		o.startWorker = false
	}
}

// New opens every configured dependency and wires the services. On error
// whatever was opened is closed again.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{startWorker: true}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, StartedAt: time.Now()}
	if err := a.open(ctx, o); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) open(ctx context.Context, o options) error {
	cfg := a.Config
	var err error

	if cfg.MySQL.Enabled || cfg.VectorStore.Backend == vectorstore.BackendMySQL {
		if a.MySQL, err = mysqlClient.New(ctx, mysqlClient.Options{
			DSN:          cfg.MySQLDSN(),
			MaxOpenConns: cfg.MySQL.MaxOpen,
			MaxIdleConns: cfg.MySQL.MaxIdle,
			LogSQL:       cfg.MySQL.LogSQL,
		}); err != nil {
			return err
		}
		if err = a.MySQL.AutoMigrate(&model.QALog{}, &model.ChunkRecord{}, &model.Admin{}); err != nil {
			return fmt.Errorf("auto migrate tables failed: %w", err)
		}
		a.QALogs = repository.NewQALogRepository(a.MySQL)
		a.Auth = app.NewAuthService(
			repository.NewAdminRepository(a.MySQL),
			cfg.Auth.JWTSecret,
			time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
		)
	}
	if cfg.VectorStore.Backend == vectorstore.BackendPgVector {
		if a.Postgres, err = postgresClient.New(ctx, cfg.Postgres.DSN); err != nil {
			return err
		}
	}
	if cfg.Redis.Enabled {
		if a.Redis, err = redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}); err != nil {
			return err
		}
		a.AnswerCache = cache.NewAnswerCache(a.Redis, time.Duration(cfg.Redis.AnswerTTLSeconds)*time.Second)
	}
	if cfg.RabbitMQ.Enabled {
		if a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.QALogQueue); err != nil {
			return err
		}
	}

	models, err := newModels(ctx, cfg)
	if err != nil {
		return err
	}

	a.VectorStore, err = vectorstore.Open(ctx, vectorstore.Options{
		Backend:   cfg.VectorStore.Backend,
		Path:      cfg.VectorStore.Path,
		Dimension: models.dimension,
		MySQL:     a.MySQL,
		Postgres:  a.Postgres,
		Embedder:  models.embedder,
	})
	if err != nil {
		return fmt.Errorf("open vector store failed: %w", err)
	}

	a.Storage, err = storage.New(ctx, storage.Config{
		Type:         storage.Type(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		AWSAccessKey: cfg.Storage.AWSAccessKey,
		AWSSecretKey: cfg.Storage.AWSSecretKey,
	})
	if err != nil {
		return fmt.Errorf("open file storage failed: %w", err)
	}

	searcher := app.NewSearcher(a.VectorStore, models.extractor,
		app.WithSearchK(cfg.Retrieval.DefaultK),
		app.WithMaxTimetableDates(cfg.Retrieval.MaxTimetableDates),
	)
	var qaOpts []app.QAOption
	if a.AnswerCache != nil {
		qaOpts = append(qaOpts, app.WithAnswerCache(a.AnswerCache))
	}
	if a.MQConn != nil {
		qaOpts = append(qaOpts, app.WithQALogPublisher(rabbitmqClient.NewQALogPublisher(a.MQConn, cfg.RabbitMQ.QALogQueue)))
	}
	a.QA = app.NewQAService(app.NewRouter(models.router), searcher, app.NewGenerator(models.chat), qaOpts...)

	pageCrawler := crawler.New(crawler.Config{
		MaxPages:       cfg.Crawler.MaxPages,
		UserAgent:      cfg.Crawler.UserAgent,
		AttachmentExts: cfg.Crawler.AttachmentExts,
		Timeout:        time.Duration(cfg.Crawler.TimeoutSeconds) * time.Second,
	}, a.Storage)
	a.Ingest = app.NewIngestService(a.VectorStore, NewLoaders(cfg), app.WithCrawler(pageCrawler, cfg.Crawler.StartURL))

	if o.startWorker && a.MQConn != nil && a.QALogs != nil {
		a.QALogWorker = worker.NewQALogWorker(a.MQConn, a.QALogs, cfg.RabbitMQ.QALogQueue)
		if err = a.QALogWorker.Start(ctx); err != nil {
			return fmt.Errorf("start qa log worker failed: %w", err)
		}
	}
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.QALogWorker != nil {
		a.QALogWorker.Close()
	}
	if a.VectorStore != nil {
		if err := a.VectorStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close vector store failed: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Postgres != nil {
		a.Postgres.Close()
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
