// Command server runs the SPPG enrollment API: program and enrollment
// endpoints behind tenant auth, with Postgres or in-memory storage, an
// optional Redis program cache, and an optional Kafka audit trail.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	enrollmenthandler "sppg/internal/enrollment/handler"
	enrollmentmetrics "sppg/internal/enrollment/metrics"
	"sppg/internal/enrollment/ports"
	enrollmentservice "sppg/internal/enrollment/service"
	enrollmentstore "sppg/internal/enrollment/store"
	"sppg/internal/enrollment/validate"
	httpapi "sppg/internal/http"
	"sppg/internal/platform/config"
	"sppg/internal/platform/httpserver"
	"sppg/internal/platform/logger"
	"sppg/internal/platform/postgres"
	platformredis "sppg/internal/platform/redis"
	programcache "sppg/internal/program/cache"
	programhandler "sppg/internal/program/handler"
	programservice "sppg/internal/program/service"
	programstore "sppg/internal/program/store"
	audit "sppg/pkg/platform/audit"
	"sppg/pkg/platform/audit/publisher"
	auditkafka "sppg/pkg/platform/audit/store/kafka"
	auditmemory "sppg/pkg/platform/audit/store/memory"
	"sppg/pkg/platform/middleware/auth"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	programs    programStore
	enrollments enrollmentStore
	db          *sql.DB
}

type programStore interface {
	programservice.Store
	ports.ProgramReader
}

type enrollmentStore interface {
	enrollmentservice.Store
	ports.AllocationReader
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer st.db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("program cache enabled", "ttl", cfg.Redis.ProgramCacheTTL)
	}

	auditStore, closeAudit, err := openAuditStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeAudit()

	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(cfg.AuditAsyncDepth))
	defer auditPublisher.Close()

	var underlying *redis.Client
	if redisClient != nil {
		underlying = redisClient.Client
	}
	cachedPrograms := programcache.New(st.programs, underlying, cfg.Redis.ProgramCacheTTL, log)

	pipeline, err := validate.NewPipeline(validate.DefaultPolicy(), cachedPrograms)
	if err != nil {
		return err
	}
	exceedance, err := validate.NewExceedanceChecker(validate.DefaultPolicy(), cachedPrograms, st.enrollments)
	if err != nil {
		return err
	}

	programSvc, err := programservice.New(st.programs,
		programservice.WithLogger(log),
		programservice.WithCacheInvalidator(cachedPrograms),
		programservice.WithAuditPublisher(auditPublisher))
	if err != nil {
		return err
	}

	enrollmentSvc, err := enrollmentservice.New(st.enrollments, pipeline, exceedance,
		enrollmentservice.WithLogger(log),
		enrollmentservice.WithAuditPublisher(auditPublisher),
		enrollmentservice.WithMetrics(enrollmentmetrics.New()))
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:      log,
		Auth:        auth.NewValidator(cfg.JWTSigningKey),
		Programs:    programhandler.New(programSvc, log),
		Enrollments: enrollmenthandler.New(enrollmentSvc, log),
		Health: func(ctx context.Context) error {
			if st.db != nil {
				if err := st.db.PingContext(ctx); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr, "store_backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStores selects the storage backend. Postgres applies its schema on
// startup so a fresh database is usable without a migration step.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	if cfg.StoreBackend == "memory" {
		log.Warn("using in-memory stores; data will not survive a restart")
		return &stores{
			programs:    programstore.NewInMemory(),
			enrollments: enrollmentstore.NewInMemory(),
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	for _, schema := range []string{programstore.Schema, enrollmentstore.Schema} {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &stores{
		programs:    programstore.NewPostgres(db),
		enrollments: enrollmentstore.NewPostgres(db),
		db:          db,
	}, nil
}

// openAuditStore picks Kafka when brokers are configured, the in-memory
// store otherwise.
func openAuditStore(ctx context.Context, cfg config.Config, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("audit trail using in-memory store")
		return auditmemory.NewInMemoryStore(), func() {}, nil
	}

	topic := cfg.AuditTopic
	store, err := auditkafka.New(ctx, cfg.KafkaBrokers, topic)
	if err != nil {
		return nil, nil, err
	}
	log.Info("audit trail publishing to kafka", "brokers", cfg.KafkaBrokers)
	return store, store.Close, nil
}
