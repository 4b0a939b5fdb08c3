package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/api"
	"github.com/example/finstinct-storefront/internal/api/middleware"
	"github.com/example/finstinct-storefront/internal/auth"
	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/checkout"
	"github.com/example/finstinct-storefront/internal/config"
	"github.com/example/finstinct-storefront/internal/infrastructure/kafka"
	"github.com/example/finstinct-storefront/internal/infrastructure/store"
	"github.com/example/finstinct-storefront/internal/logger"
	"github.com/example/finstinct-storefront/internal/query"
)

const (
	cacheSweepInterval = time.Minute
	purgeInterval      = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput}).Named("storefront")
	defer func() { _ = log.Sync() }()

	if err := cfg.ValidateStorefront(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting storefront",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("backend", cfg.BackendURL),
		zap.String("store", cfg.StoreDriver),
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
		zap.String("kafka_topic", cfg.KafkaTopic),
	)

	var wg sync.WaitGroup

	profiles, closeStore := openStore(ctx, cfg, log, &wg)
	defer closeStore()

	publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("no kafka brokers configured; storefront events are discarded")
	}

	client := backend.NewClient(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithAuthenticator(middleware.SessionAuthenticator{Logger: log.Named("session")}),
		backend.WithLogger(log.Named("backend")),
	)

	cache := query.NewCache(cfg.QueryStaleTime)
	wg.Add(1)
	go func() {
		defer wg.Done()
		cache.Run(ctx, cacheSweepInterval)
	}()

	queries := query.NewHandler(cache, client)
	relay := checkout.NewRelay(queries, publisher, log.Named("checkout"))

	views, err := api.NewRenderer()
	if err != nil {
		log.Fatal("failed to parse templates", zap.Error(err))
	}

	router := api.NewRouter(api.RouterConfig{
		Handlers:      api.NewHandlers(queries, relay, views, cfg.PublicOrigin, log.Named("api")),
		Tokens:        auth.NewProfileTokens(cfg.ProfileSecret, cfg.ProfileTTL),
		Store:         profiles,
		SecureCookies: cfg.SecureCookies(),
		StaticDir:     cfg.StaticDir,
		Logger:        log.Named("http"),
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server started", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	wg.Wait()
}

// openStore builds the profile store named by STORE_DRIVER. Background
// maintenance goroutines are tracked by wg and stop with ctx.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger, wg *sync.WaitGroup) (store.Store, func()) {
	switch cfg.StoreDriver {
	case "postgres":
		if err := store.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal("failed to migrate profile storage", zap.Error(err))
		}
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
		}
		log.Info("connected to PostgreSQL")

		ps := store.NewPostgresStore(db)
		wg.Add(1)
		go func() {
			defer wg.Done()
			purgeStaleProfiles(ctx, ps, cfg.ProfileTTL, log)
		}()
		return ps, func() { db.Close() }

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		log.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
		return store.NewRedisStore(client, cfg.ProfileTTL), func() { client.Close() }

	default:
		log.Warn("using in-memory profile storage; profiles are lost on restart")
		return store.NewMemoryStore(), func() {}
	}
}

// purgeStaleProfiles drops values no cookie can reach any more
func purgeStaleProfiles(ctx context.Context, ps *store.PostgresStore, ttl time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := ps.PurgeBefore(ctx, time.Now().Add(-ttl))
			if err != nil {
				log.Warn("purge profile storage failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("purged stale profile values", zap.Int64("rows", n))
			}
		}
	}
}
