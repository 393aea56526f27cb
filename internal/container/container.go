// Package container builds the application object graph from config and
// owns every long-lived client so they can be closed in one place.
package container

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/config"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/application"
	repo "github.com/oksasatya/go-ddd-task-dashboard/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/infrastructure/cache"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/infrastructure/messaging"
	pginfra "github.com/oksasatya/go-ddd-task-dashboard/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/infrastructure/sqlite"
	gcs "github.com/oksasatya/go-ddd-task-dashboard/internal/infrastructure/storage"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/router"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/helpers"
	mailtpl "github.com/oksasatya/go-ddd-task-dashboard/pkg/mailer/templates"
)

// Container holds the constructed services and the clients behind them.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager
	Users  *application.UserService
	Tasks  *application.TaskService

	// Ping checks the primary store.
	Ping func(ctx context.Context) error

	pgPool    *pgxpool.Pool
	sqlite    *sqlite.Store
	redis     *redis.Client
	gcs       *storage.Client
	rabbitPub *messaging.RabbitPublisher
}

// New connects the configured store and optional integrations. Optional
// integrations whose address is empty are skipped; one that is configured
// but unreachable fails startup.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
	}
	if err := c.build(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg := c.Config

	users, tasks, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	c.Users = application.NewUserService(users, c.JWT, c.Logger)
	c.Tasks = application.NewTaskService(tasks, c.Logger)

	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		c.redis = rdb
		c.Users.Cache = cache.NewProfileCache(rdb, cfg.ProfileCacheTTL, c.Logger)
		c.Logger.WithField("addr", cfg.RedisAddr).Info("profile cache enabled")
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return err
		}
		c.Tasks.Index = search.NewTaskIndex(es, cfg.ESTasksIndex)
		c.Logger.WithField("index", cfg.ESTasksIndex).Info("task search mirror enabled")
	}

	if cfg.RabbitMQURL != "" {
		pub, err := messaging.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return err
		}
		c.rabbitPub = pub
		c.Users.Notifier = messaging.NewEmailNotifier(pub, mailtpl.Brand{AppName: cfg.AppName, SupportURL: cfg.SupportURL})
		c.Logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email notifications enabled")
	}

	if cfg.GCSBucket != "" {
		client, err := gcs.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return err
		}
		c.gcs = client
		c.Users.Avatars = gcs.NewAvatarStore(client, cfg.GCSBucket)
		c.Logger.WithField("bucket", cfg.GCSBucket).Info("avatar uploads enabled")
	}
	return nil
}

func (c *Container) openStore(ctx context.Context) (repo.UserRepository, repo.TaskRepository, error) {
	cfg := c.Config
	switch cfg.DBDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, int(cfg.DBMaxConns), c.Logger)
		if err != nil {
			return nil, nil, err
		}
		c.sqlite = store
		c.Ping = store.Ping
		return sqlite.NewUserRepository(store), sqlite.NewTaskRepository(store), nil
	case config.DriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, nil, err
		}
		c.pgPool = pool
		c.Ping = pool.Ping
		return pginfra.NewUserRepository(pool), pginfra.NewTaskRepository(pool), nil
	default:
		return nil, nil, fmt.Errorf("container: unknown db driver %q", cfg.DBDriver)
	}
}

// RouterDeps exposes the container to the HTTP layer.
func (c *Container) RouterDeps() router.Deps {
	return router.Deps{
		Users:         c.Users,
		Tasks:         c.Tasks,
		Tokens:        c.JWT,
		Logger:        c.Logger,
		Ping:          c.Ping,
		AvatarUploads: c.Users != nil && c.Users.Avatars != nil,
		DebugMetrics:  c.Config.DebugMetricsEnabled,
		AccessLog:     c.Config.HTTPLogEnabled,
		CORSOrigins:   c.Config.CORSOrigins(),
	}
}

// Close releases clients in reverse order of construction. It is safe to
// call on a partially built container.
func (c *Container) Close() {
	var errs []error
	if c.gcs != nil {
		errs = append(errs, c.gcs.Close())
	}
	if c.rabbitPub != nil {
		errs = append(errs, c.rabbitPub.Close())
	}
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.sqlite != nil {
		errs = append(errs, c.sqlite.Close())
	}
	if c.pgPool != nil {
		c.pgPool.Close()
	}
	if err := errors.Join(errs...); err != nil {
		c.Logger.WithError(err).Warn("container close")
	}
}
