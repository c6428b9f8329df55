package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/aggregator"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/config"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/format"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/penalty"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/retry"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/session"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
)

// resultStore is everything finalized games are written through and read from
type resultStore interface {
	contracts.GameStore
	contracts.SeriesStore
	contracts.HeadToHeadStore
	contracts.AllStarStore
	contracts.RosterLookup
	contracts.TeamLookup
	handlers.ResultsReader
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger settings come from the config, so fall back to the default
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New("game-results-service", cfg.Log.Level, cfg.Log.Pretty)
	logger.Info().Str("addr", cfg.Server.Addr).Str("sink", cfg.Sink.Kind).Msg("starting game results service")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis: live stream, snapshot cache and optionally the event sink
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid redis url")
		}
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to redis")
	}

	// Storage
	var results resultStore
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open postgres")
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to postgres")
		}

		pg := store.NewPostgres(db)
		if cfg.Postgres.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				logger.Fatal().Err(err).Msg("failed to migrate schema")
			}
		}
		results = pg
		logger.Info().Msg("connected to postgres")
	} else {
		results = store.NewMemory()
		logger.Warn().Msg("no postgres dsn, game records are kept in memory")
	}

	// Narrative event sink
	var sink contracts.EventSink
	switch cfg.Sink.Kind {
	case config.SinkKafka:
		ks := publisher.NewKafkaSink(cfg.Sink.KafkaBrokers, cfg.Sink.KafkaTopic, logger)
		defer ks.Close()
		sink = ks
	case config.SinkRedis:
		if redisClient == nil {
			logger.Fatal().Msg("redis sink requires redis.url")
		}
		sink = publisher.NewStreamSink(redisClient, cfg.Redis.StreamMaxLen)
	default:
		sink = publisher.NewLogSink(logger)
	}

	// Penalty table, with configured opportunity counts layered on the defaults
	opportunities := penalty.DefaultOpportunities()
	for category, n := range cfg.Penalty.Opportunities {
		opportunities[penalty.PlayCategory(category)] = n
	}
	penalties, err := penalty.NewModel(penalty.DefaultInfractions(), opportunities)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid penalty table")
	}

	recorder := metrics.NewRecorder()
	reg := registry.New(cfg.Sports)

	stores := aggregator.Stores{
		Games:      results,
		Series:     results,
		HeadToHead: results,
		AllStars:   results,
		Players:    results,
		Teams:      results,
		Sink:       sink,
	}
	links := format.Links{Base: cfg.League.BaseURL}
	finalizers := make(map[string]session.Finalizer)
	for _, module := range reg.EnabledSports() {
		finalizers[module.GetSportKey()] = aggregator.New(module, stores, links, logger,
			aggregator.WithRetry(retry.NewPolicy(cfg.League.RetryAttempts, 200*time.Millisecond)),
			aggregator.WithObserver(recorder),
		)
		logger.Info().Str("sport", module.GetSportKey()).Msg("sport enabled")
	}

	// Create hub
	h := hub.NewHub(logger, recorder)
	go h.Run(ctx)

	deps := session.Deps{
		Registry:    reg,
		Finalizers:  finalizers,
		Broadcaster: h,
		Events:      recorder,
		Observer:    recorder,
		Pace:        cfg.Playback.Pace,
	}
	if redisClient != nil {
		deps.Cache = cache.NewRedisWriter(redisClient)
		deps.Streams = publisher.NewStreamSink(redisClient, cfg.Redis.StreamMaxLen)
	}
	sessions := session.NewManager(deps, logger)

	// Create HTTP handler (pass context for playback and websocket lifecycle)
	handler := handlers.NewHandler(ctx, sessions, h, results, penalties, reg, logger)
	router := handlers.NewRouter(handler, recorder.Handler(), cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down")

	// Stop pacing loops and websocket pumps
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}

	logger.Info().Msg("shutdown complete")
}
