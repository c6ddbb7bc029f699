package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nantkhun/fintracker/internal/auth"
	"github.com/nantkhun/fintracker/internal/cache"
	"github.com/nantkhun/fintracker/internal/config"
	httpx "github.com/nantkhun/fintracker/internal/http"
	"github.com/nantkhun/fintracker/internal/http/handlers"
	"github.com/nantkhun/fintracker/internal/observability"
	"github.com/nantkhun/fintracker/internal/repo"
	"github.com/nantkhun/fintracker/internal/service"
	"github.com/nantkhun/fintracker/internal/store"
	filestore "github.com/nantkhun/fintracker/internal/store/file"
	pgstore "github.com/nantkhun/fintracker/internal/store/postgres"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := slog.New(observability.NewTraceHandler(observability.NewLogger(cfg.Env).Handler()))
	slog.SetDefault(log)

	ctx := context.Background()

	// tracing is optional; skip it when no collector endpoint is set
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "fintracker", cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(tctx); err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}()
	}

	// pick the storage backend
	var (
		backend store.Store
		ready   func(context.Context) error
	)

	switch cfg.StoreBackend {
	case "postgres":
		pg, err := pgstore.New(ctx, cfg.DBURL)
		if err != nil {
			log.Error("postgres connect failed", "err", err)
			os.Exit(1)
		}
		defer pg.Close()

		if err := pg.Migrate(ctx); err != nil {
			log.Error("postgres migrate failed", "err", err)
			os.Exit(1)
		}
		backend = pg
		ready = pg.Ping
	default:
		fs, err := filestore.New(cfg.DataDir)
		if err != nil {
			log.Error("data dir init failed", "err", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
		backend = fs
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	st := observability.NewMeasuredStore(backend, prom)

	// repositories and services
	users := repo.NewUsers(st)
	categories := repo.NewCategories(st)
	transactions := repo.NewTransactions(st)
	reports := service.NewReports(categories, transactions)

	// report cache: redis when configured, in-process otherwise
	var reportCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisCache.Ping(ctx); err != nil {
			log.Error("redis connect failed", "err", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		defer redisCache.Close()
		reportCache = redisCache
	} else {
		reportCache = cache.NewMemory()
	}
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)

	router := httpx.NewRouter(cfg, httpx.Deps{
		Log:          log,
		Auth:         handlers.NewAuthHandler(users, jwtManager),
		Categories:   handlers.NewCategoriesHandler(categories, reports, reportCache, cacheTTL),
		Transactions: handlers.NewTransactionsHandler(transactions, reportCache),
		Balance:      handlers.NewBalanceHandler(reports, reportCache, cacheTTL),
		JWT:          jwtManager,
		Prom:         prom,
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Ready:        ready,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreBackend)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
