package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/cfg"
	v1Http "github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/delivery/v1/http"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/infrastructure/export"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/infrastructure/kafka"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/infrastructure/scheduler"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/converter"
	fileRepo "github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/file"
	s3Repo "github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/minio"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/pgdb"
	pgdbConv "github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/pgdb/converter"
	redisRepo "github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/redis"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/clients"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/closer"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	clientInitTimeout = 10 * time.Second
	loadTimeout       = 10 * time.Second
)

// App собирает зависимости приложения и управляет его жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
	worker  *kafka.OutboxWorker
	archive *scheduler.ArchiveScheduler
}

// NewApp подключает хранилище, загружает снимок и готовит HTTP-сервер.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(ctx); cerr != nil {
			log.Warnf("close after failed init: %v", cerr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	conv := converter.NewSnapshotConverterImpl()

	snapshotRepo, err := a.initSnapshotRepo(conv)
	if err != nil {
		return err
	}

	opts := []usecase.Option{
		usecase.WithClock(func() time.Time { return time.Now().In(a.cfg.App.Location) }),
	}

	if a.cfg.Minio != nil {
		reportRepo, err := a.initReportRepo()
		if err != nil {
			return err
		}
		opts = append(opts, usecase.WithReportRepository(reportRepo))
	}

	exporter := export.NewCSVExporter(a.cfg.App.Location)
	shopUC := usecase.NewShopUC(snapshotRepo, exporter, a.logger, opts...)

	loadCtx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	shopUC.Load(loadCtx)

	if a.cfg.Minio != nil && a.cfg.Minio.ArchiveSchedule != "" {
		a.archive, err = scheduler.NewArchiveScheduler(shopUC, a.logger, a.cfg.App.Location, a.cfg.Minio.ArchiveSchedule)
		if err != nil {
			a.logger.Errorf(err, "invalid REPORT_ARCHIVE_SCHEDULE")
			return e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add("archive scheduler", a.archive.Stop)
	}

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.logger, a.cfg.App.Location)
	router.Init(shopUC)

	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", func(ctx context.Context) error {
		if err := a.httpSrv.Stop(ctx); err != nil {
			return err
		}
		a.logger.Infof("HTTP server stopped")
		return nil
	})

	return nil
}

func (a *App) initSnapshotRepo(conv converter.SnapshotConverter) (usecase.SnapshotRepository, error) {
	switch a.cfg.Storage.Backend {
	case config.StoragePostgres:
		return a.initPostgresRepo(conv)

	case config.StorageRedis:
		redisClient := clients.NewRedisClient(a.cfg.Redis)
		a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

		ctx, cancel := context.WithTimeout(context.Background(), clientInitTimeout)
		defer cancel()
		if err := redisClient.Ping(ctx); err != nil {
			a.logger.Errorf(err, "failed to connect to redis")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		a.logger.Infof("snapshot storage: redis %s", a.cfg.Redis.Addr)
		return redisRepo.NewSnapshotRepo(redisClient, conv, a.cfg.Storage, a.logger), nil

	default:
		a.logger.Infof("snapshot storage: file %s", a.cfg.Storage.DataDir)
		return fileRepo.NewSnapshotRepo(a.cfg.Storage, conv), nil
	}
}

// initPostgresRepo поднимает пул, применяет миграции и, если настроен брокер,
// запускает пересылку outbox-событий.
func (a *App) initPostgresRepo(conv converter.SnapshotConverter) (usecase.SnapshotRepository, error) {
	db, err := initPGDB(a.logger, a.cfg)
	if err != nil {
		return nil, err
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverterImpl())

	if a.cfg.Kafka != nil {
		producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
		a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })

		if err := producer.EnsureTopic(clientInitTimeout); err != nil {
			a.logger.Errorf(err, "failed to ensure kafka topic")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn, pgdb.OutboxChannel, a.cfg.Kafka.BatchSize)
		a.closer.Add("outbox worker", a.worker.Stop)
	}

	a.logger.Infof("snapshot storage: postgres %s/%s", a.cfg.Db.Host, a.cfg.Db.DBName)
	return pgdb.NewSnapshotRepo(db.Pool, conv, outboxRepo, a.cfg.Storage), nil
}

func (a *App) initReportRepo() (usecase.ReportRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), clientInitTimeout)
	defer cancel()

	minioClient, err := clients.NewMinIOClient(ctx, a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO report bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	a.logger.Infof("report archive: minio bucket %s", minioClient.Bucket)
	return s3Repo.NewReportRepo(minioClient), nil
}

// Run запускает сервер и блокируется до сигнала остановки или падения сервера.
func (a *App) Run() error {
	if a.worker != nil {
		a.worker.Start(context.Background())
	}
	if a.archive != nil {
		a.archive.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on %s", a.httpSrv.Addr())
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), clientInitTimeout)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
