package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ruscigno/StockPulse/feed"
	"github.com/Ruscigno/StockPulse/pkg/cache"
	"github.com/Ruscigno/StockPulse/pkg/config"
	"github.com/Ruscigno/StockPulse/pkg/database"
	"github.com/Ruscigno/StockPulse/pkg/endpoint"
	"github.com/Ruscigno/StockPulse/pkg/metrics"
	"github.com/Ruscigno/StockPulse/pkg/refresher"
	"github.com/Ruscigno/StockPulse/pkg/repository"
	"github.com/Ruscigno/StockPulse/pkg/service"
	httptransport "github.com/Ruscigno/StockPulse/pkg/transport/http"
	"github.com/Ruscigno/StockPulse/scraper/storage"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "insight API service",
	Long:  `Starts the HTTP server that serves insights, charts and the watchlist`,
	Run: func(cmd *cobra.Command, args []string) {
		startAPIServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startAPIServer() {
	logger := zap.L()
	cfg := config.LoadConfig()

	dbConfig := database.DefaultConfig(cfg.DatabaseURL)
	db, err := database.NewDB(dbConfig, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(dbConfig.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	insightCache := cache.NewRedisCache(rdb, cfg.CacheTTL, logger)

	ratingsStore, err := storage.NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer ratingsStore.Close()

	consumer := newFeedConsumer(cfg)

	appMetrics := metrics.NewApplicationMetrics(metrics.NewSimpleMetricsCollector(logger), logger)

	svc := service.NewService(
		consumer,
		cfg.FeedProvider,
		repository.NewCandleRepository(db, logger),
		repository.NewWatchlistRepository(db, logger),
		insightCache,
		ratingsStore,
		appMetrics,
		logger,
		cfg.HistoryDays,
	)
	healthSvc := service.NewHealthService(db, insightCache, ratingsStore, consumer, logger, cfg.Version)

	endpoints := endpoint.MakeEndpoints(svc, healthSvc)
	handler := httptransport.NewHTTPHandler(endpoints, httptransport.HTTPConfig{
		APIKey:            cfg.APIKey,
		MaxBodySize:       1 << 20, // 1 MB
		RequestsPerSecond: 10,
		BurstSize:         20,
		Logger:            logger,
		AllowedOrigins:    cfg.AllowedOrigins,
	})

	watchlistRefresher := refresher.New(svc, cfg.RefreshInterval, logger)
	watchlistRefresher.Start()
	defer watchlistRefresher.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newFeedConsumer(cfg config.Config) feed.FeedConsumer {
	switch cfg.FeedProvider {
	case feed.DataFeedProviderLocal:
		return feed.NewLocalDataFeed(cfg.LocalFeedDir)
	case feed.DataFeedProviderAlphaVantage:
		return feed.NewAlphaVantageScrapper()
	default:
		return feed.NewYahooDataFeed()
	}
}
