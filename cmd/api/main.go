package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"bookstock/internal/book"
	"bookstock/internal/catalog"
	"bookstock/internal/config"
	apphttp "bookstock/internal/http"
	"bookstock/internal/httpx"
	"bookstock/internal/inventory"
	"bookstock/internal/platform/googlebooks"
	"bookstock/internal/platform/openlibrary"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	lookup, closeCatalog := buildCatalog(ctx, cfg)
	defer closeCatalog()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, repo, lookup, reg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Increment may wait on a slow catalog before answering.
		WriteTimeout: cfg.Catalog.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting server on %s store=%s", cfg.Addr, cfg.StoreDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newHandler(ctx context.Context, cfg config.Config, repo book.Repository, lookup catalog.Lookup, reg *prometheus.Registry) http.Handler {
	ledger := inventory.NewLedger(repo, lookup,
		inventory.WithCatalogTimeout(cfg.Catalog.Timeout),
		inventory.WithMetrics(inventory.NewMetrics(reg)),
	)
	view := inventory.NewView(repo)
	httpMetrics := httpx.NewMetricsMiddleware(reg)

	router := http.NewServeMux()
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := repo.Ping(pingCtx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	apphttp.NewBookHandler(ledger, view).Register(router, httpMetrics.Route)

	limiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}

func openStore(ctx context.Context, cfg config.Config) (book.Repository, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Println("using in-memory store, data is lost on exit")
		return book.NewMemoryRepo(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("cannot ping database (%s): %w", cfg.RedactedDSN(), err)
	}
	log.Println("database connection OK")
	return book.NewPostgresRepo(pool, cfg.DBTimeout), pool.Close, nil
}

// buildCatalog chains the configured providers and puts the Redis cache in
// front when REDIS_ADDR is set.
func buildCatalog(ctx context.Context, cfg config.Config) (catalog.Lookup, func()) {
	cc := cfg.Catalog
	providers := make([]catalog.Lookup, 0, len(cc.Providers))
	for _, name := range cc.Providers {
		switch name {
		case config.ProviderGoogle:
			providers = append(providers, catalog.NewGoogleBooks(
				googlebooks.NewClient(cc.GoogleAPIKey, cc.UserAgent, cc.RPS, cc.MaxRetries)))
		case config.ProviderOpenLibrary:
			providers = append(providers, catalog.NewOpenLibrary(
				openlibrary.NewClient(cc.UserAgent, cc.RPS, cc.MaxRetries)))
		}
	}
	var lookup catalog.Lookup = catalog.NewChain(providers...)

	if cfg.Redis.Addr == "" {
		return lookup, func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis unavailable addr=%s, catalog cache degraded: %v", cfg.Redis.Addr, err)
	}
	return catalog.NewCache(lookup, rdb, cc.CacheTTL, cc.CacheMissTTL), func() { _ = rdb.Close() }
}
