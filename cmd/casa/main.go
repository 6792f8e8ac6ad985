package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "charm.land/log/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nakamauwu/casa/cockroach"
	"github.com/nakamauwu/casa/cockroach/migrator"
	"github.com/nakamauwu/casa/config"
	casaminio "github.com/nakamauwu/casa/minio"
	casanats "github.com/nakamauwu/casa/nats"
	"github.com/nakamauwu/casa/service"
	"github.com/nakamauwu/casa/sqlite"
	httptransport "github.com/nakamauwu/casa/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	errLogger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	}))
	infoLogger := slog.New(charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		ReportTimestamp: true,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, infoLogger)
	if err != nil {
		return err
	}

	defer closeStore()

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return fmt.Errorf("create minio client: %w", err)
	}

	blob, err := casaminio.New(casaminio.Config{
		Client:    minioClient,
		Bucket:    service.AttachmentsBucket,
		PublicURL: cfg.MinioPublicURL,
	})
	if err != nil {
		return fmt.Errorf("create minio blob storage: %w", err)
	}

	bucketsStart := time.Now()
	infoLogger.Info("creating minio buckets")

	if err := blob.CreateReadOnlyBucket(ctx); err != nil {
		return fmt.Errorf("create minio bucket: %w", err)
	}

	infoLogger.Info("finished creating minio buckets", "took", time.Since(bucketsStart))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svcCfg := &service.Config{
		Store:             store,
		Blob:              blob,
		Metrics:           service.NewMetrics(reg),
		Logger:            errLogger,
		BaseCtx:           context.Background(),
		BackgroundTimeout: cfg.BackgroundTimeout,
	}

	if cfg.NatsURL != "" {
		publisher, err := casanats.Connect(ctx, cfg.NatsURL)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}

		defer publisher.Close()

		svcCfg.Publisher = publisher
		infoLogger.Info("publishing message events", "stream", casanats.StreamName)
	}

	svc := service.New(svcCfg)

	go func() {
		for err := range svc.Errs() {
			errLogger.Error("service error", "err", err)
		}
	}()

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: &httptransport.Handler{
			Service:  svc,
			Logger:   errLogger,
			Gatherer: reg,
		},
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.BackgroundTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			errLogger.Error("shutdown casa server", "err", err)
		}
	}()

	infoLogger.Info("starting casa server", "url", fmt.Sprintf("http://localhost:%d", cfg.Port), "store", cfg.Store)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start casa server: %w", err)
	}

	return svc.Close()
}

func openStore(ctx context.Context, cfg config.Config, infoLogger *slog.Logger) (service.Store, func(), error) {
	if cfg.Store == config.StoreSQLite {
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}

		return store, func() { _ = store.Close() }, nil
	}

	dbPool, err := pgxpool.New(ctx, cfg.CockroachURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open cockroach connection pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("ping cockroach: %w", err)
	}

	migrationStart := time.Now()
	infoLogger.Info("starting cockroach migrations")

	if err := migrator.Migrate(ctx, dbPool, cockroach.MigrationsFS); err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("migrate cockroach schema: %w", err)
	}

	infoLogger.Info("finished cockroach migrations", "took", time.Since(migrationStart))

	return cockroach.New(dbPool), dbPool.Close, nil
}
