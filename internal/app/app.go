package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpapp "devmart/internal/app/http"
	"devmart/internal/clientstate"
	"devmart/internal/config"
	"devmart/internal/lib/logger/sl"
	"devmart/internal/lib/retry"
	"devmart/internal/lib/validate"
	"devmart/internal/metrics"
	"devmart/internal/notify"
	"devmart/internal/notify/events"
	"devmart/internal/repository"
	"devmart/internal/services/auth"
	contentservice "devmart/internal/services/content_service"
	leadservice "devmart/internal/services/lead_service"
	mediaservice "devmart/internal/services/media_service"
	"devmart/internal/storage"
	"devmart/internal/storage/filestorage"
	"devmart/internal/storage/memory"
	"devmart/internal/storage/postgresql"
	redisapp "devmart/internal/storage/redis"
	"devmart/internal/storage/s3"
	httprouters "devmart/internal/transport/http"
)

const preferencesTTL = 30 * 24 * time.Hour

type App struct {
	HTTPServer *httpapp.Server

	log       *slog.Logger
	content   *contentservice.ContentService
	leads     *leadservice.LeadService
	publisher events.Publisher
	redis     *redisapp.Client
	postgres  *postgresql.Storage
}

// New wires every component from cfg and panics when a required dependency
// cannot be set up.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	a := &App{log: log}

	retrier := retry.New(log, cfg.Retry, retry.WithNotify(func(op string, attempt int, err error, delay time.Duration) {
		metrics.RetryAttemptsTotal.WithLabelValues(op).Inc()
	}))

	store, err := a.store(ctx, cfg.Storage)
	if err != nil {
		panic(err)
	}

	objects, err := objectStore(ctx, cfg.ObjectStorage)
	if err != nil {
		panic(err)
	}

	a.redis = redisapp.NewClient(redisapp.Options{
		Addr:        cfg.Redis.RedisAddr,
		Password:    cfg.Redis.RedisPassword,
		DB:          cfg.Redis.RedisDB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err := a.redis.HealthCheck(ctx); err != nil {
		log.Warn("redis is not reachable, refresh tokens will fail until it is", sl.Err(err))
	}

	v := validate.New()
	repo := repository.NewRepository(store, retrier, v)

	a.publisher = events.Noop{}
	if cfg.RabbitMQ.URL != "" {
		publisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			panic(err)
		}
		a.publisher = publisher
	}

	var notifier leadservice.LeadNotifier
	if cfg.Notify.Endpoint != "" {
		notifier = notify.NewEmailNotifier(log, cfg.Notify, retrier)
	}

	a.content, err = contentservice.NewContentService(log, repo, cfg.Hooks, a.publisher)
	if err != nil {
		panic(err)
	}

	a.leads = leadservice.NewLeadService(
		log,
		repo.Leads,
		v,
		leadservice.NewCooldown(cfg.Leads.Cooldown, time.Now),
		notifier,
		a.publisher,
	)

	media := mediaservice.NewMediaService(log, repo.Media, objects, retrier, v)

	authService := auth.New(log, repo.Users, repository.NewRedisTokenRepo(a.redis), cfg.Auth)
	if cfg.Admin.Email != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password); err != nil {
			panic(err)
		}
	}

	routers := httprouters.NewRouter(
		log,
		a.content,
		a.leads,
		media,
		authService,
		repo.Settings,
		clientstate.NewRegistry(clientstate.NewMemory(preferencesTTL)),
	)
	routers.Checks["redis"] = a.redis
	if a.postgres != nil {
		routers.Checks["postgres"] = a.postgres
	}

	opts := httpapp.Options{
		Host:          cfg.HTTP.Host,
		Port:          cfg.HTTP.Port,
		Secret:        authService.Secret(),
		SessionSecret: cfg.HTTP.SessionSecret,
		SecureCookies: cfg.HTTP.SecureCookies,
		AllowOrigins:  cfg.HTTP.AllowOrigins,
	}
	if cfg.ObjectStorage.Driver == config.ObjectsLocal {
		opts.UploadsDir = cfg.ObjectStorage.BaseDir
	}

	a.HTTPServer = httpapp.New(log, opts, routers)

	return a
}

func (a *App) store(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	const op = "app.store"

	switch cfg.Driver {
	case config.StorageMemory:
		a.log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil

	case config.StoragePostgres:
		pg, err := postgresql.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Stop()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.postgres = pg

		return pg, nil
	}

	return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
}

func objectStore(ctx context.Context, cfg config.ObjectStorageConfig) (storage.ObjectStore, error) {
	const op = "app.objectStore"

	switch cfg.Driver {
	case config.ObjectsLocal:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "/uploads"
		}

		fs, err := filestorage.NewLocalFileStorage(cfg.BaseDir, baseURL, cfg.MaxSize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return fs, nil

	case config.ObjectsS3:
		st, err := s3.New(ctx, cfg.Region, cfg.Bucket, cfg.Endpoint, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, nil
	}

	return nil, fmt.Errorf("%s: unknown object storage driver %q", op, cfg.Driver)
}

// Stop shuts the server down first, then waits for background
// notifications and releases connections.
func (a *App) Stop() {
	const op = "app.Stop"

	log := a.log.With(slog.String("op", op))

	if err := a.HTTPServer.Stop(); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
	}

	a.leads.Wait()
	a.content.Close()

	if err := a.publisher.Close(); err != nil {
		log.Error("failed to close event publisher", sl.Err(err))
	}
	if err := a.redis.Close(); err != nil {
		log.Error("failed to close redis", sl.Err(err))
	}
	if a.postgres != nil {
		a.postgres.Stop()
	}
}
