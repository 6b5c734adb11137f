package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peppolcheck/internal/participant/directory"
	"peppolcheck/internal/participant/events"
	"peppolcheck/internal/participant/handler"
	"peppolcheck/internal/participant/identifier"
	participantmetrics "peppolcheck/internal/participant/metrics"
	"peppolcheck/internal/participant/service"
	"peppolcheck/internal/participant/store"
	"peppolcheck/internal/participant/tracer"
	"peppolcheck/internal/platform/config"
	"peppolcheck/internal/platform/database"
	"peppolcheck/internal/platform/health"
	"peppolcheck/internal/platform/httpserver"
	"peppolcheck/internal/platform/kafka/producer"
	"peppolcheck/internal/platform/logger"
	"peppolcheck/internal/platform/metrics"
	redisplatform "peppolcheck/internal/platform/redis"
	httptransport "peppolcheck/internal/transport/http"
	request "peppolcheck/pkg/platform/middleware/request"
)

const statsInterval = 15 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/participant.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing peppolcheck",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	processMetrics := metrics.New()
	processMetrics.SetBuildInfo(health.Version, cfg.Environment)
	lookupMetrics := participantmetrics.New()
	healthHandler := health.New(cfg.Environment)

	participants, closeStore := buildStore(ctx, cfg, log, processMetrics, healthHandler)
	defer closeStore()

	var trace tracer.Tracer = tracer.NewNoop()
	if cfg.OTelEnabled {
		trace = tracer.NewOTel()
	}

	normalizer := identifier.NewNormalizer(cfg.Lookup.CountryCodes)
	index := buildDirectory(cfg, log, normalizer, lookupMetrics)
	healthHandler.RegisterCheck("directory", index.Health)
	go func() {
		if err := index.Warm(ctx); err != nil {
			log.Warn("directory index warm-up failed, will retry on first lookup", "error", err)
		}
	}()

	resolverOpts := []service.Option{
		service.WithLogger(log),
		service.WithTracer(trace),
		service.WithMetrics(lookupMetrics),
		service.WithQueryTimeout(cfg.Lookup.StoreQueryTimeout),
	}

	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck // shutdown path
		healthHandler.RegisterCheck("redis", redisClient.Health)
		resolverOpts = append(resolverOpts, service.WithResultCache(
			store.NewRedisResultCache(redisClient.Client, cfg.Lookup.CacheTTL, lookupMetrics),
		))
		go every(ctx, statsInterval, redisClient.RecordPoolStats)
	}

	kafkaProducer := connectKafka(cfg, log)
	if kafkaProducer == nil {
		resolverOpts = append(resolverOpts, service.WithEventPublisher(events.NoopPublisher{}))
	} else {
		defer kafkaProducer.Close() //nolint:errcheck // shutdown path
		healthHandler.RegisterCheck("kafka", kafkaProducer.Health)
		resolverOpts = append(resolverOpts, service.WithEventPublisher(
			events.NewKafkaPublisher(kafkaProducer, cfg.Kafka.LookupTopic, log, lookupMetrics),
		))
	}

	resolver := service.New(participants, index, normalizer, resolverOpts...)
	lister := service.NewListingService(participants,
		service.WithListingLogger(log),
		service.WithListingTracer(trace),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Participants:   handler.New(resolver, lister, log),
		Health:         healthHandler,
		Logger:         log,
		LatencyMetrics: request.NewMetrics(),
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	log.Info("server stopped")
}

// participantStore is the union of what the resolver and the listing service read.
type participantStore interface {
	service.ParticipantStore
	service.ListingStore
}

func buildStore(ctx context.Context, cfg config.Server, log *slog.Logger, m *metrics.Metrics, hc *health.Handler) (participantStore, func()) {
	pool, err := database.New(cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if pool == nil {
		log.Warn("DATABASE_URL not set, serving from an empty in-memory participant store")
		return store.NewInMemory(), func() {}
	}

	log.Info("connected to participants database")
	hc.RegisterCheck("database", pool.Health)
	go every(ctx, statsInterval, func() { m.RecordDBStats(pool.Stats()) })

	return store.NewPostgres(pool.DB()), func() {
		if err := pool.Close(); err != nil {
			log.Warn("failed to close database pool", "error", err)
		}
	}
}

func buildDirectory(cfg config.Server, log *slog.Logger, normalizer *identifier.Normalizer, m *participantmetrics.Metrics) *directory.IndexCache {
	fetcher := directory.Empty
	if cfg.Directory.Snapshot != "" {
		parser, err := directory.ParserFor(cfg.Directory.Format)
		if err != nil {
			log.Error("invalid directory snapshot format", "format", cfg.Directory.Format, "error", err)
			os.Exit(1)
		}
		source := directory.SourceFor(cfg.Directory.Snapshot, &http.Client{Timeout: cfg.Directory.FetchTimeout})
		fetcher = directory.NewLoader(source, parser)
		log.Info("directory snapshot configured", "source", source.String(), "format", cfg.Directory.Format)
	} else {
		log.Warn("DIRECTORY_SNAPSHOT not set, directory fallback disabled")
	}

	return directory.NewIndexCache(fetcher, normalizer,
		directory.WithTTL(cfg.Directory.IndexTTL),
		directory.WithFetchTimeout(cfg.Directory.FetchTimeout),
		directory.WithLogger(log),
		directory.WithMetrics(m),
	)
}

// connectRedis returns nil when Redis is not configured or unreachable; lookups then skip the result cache.
func connectRedis(ctx context.Context, cfg config.Server, log *slog.Logger) *redisplatform.Client {
	client, err := redisplatform.New(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, lookup result cache disabled", "error", err)
		return nil
	}
	if client == nil {
		return nil
	}
	log.Info("connected to redis")
	return client
}

func connectKafka(cfg config.Server, log *slog.Logger) *producer.Producer {
	if cfg.Kafka.Brokers == "" {
		log.Info("KAFKA_BROKERS not set, lookup events disabled")
		return nil
	}
	p, err := producer.New(cfg.Kafka, log)
	if err != nil {
		log.Warn("kafka producer unavailable, lookup events disabled", "error", err)
		return nil
	}
	log.Info("kafka producer connected", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.LookupTopic)
	return p
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
