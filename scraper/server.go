package scraper

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Ruscigno/StockPulse/api"
	"github.com/Ruscigno/StockPulse/pkg/config"
	"github.com/Ruscigno/StockPulse/pkg/metrics"
	"github.com/Ruscigno/StockPulse/scraper/crawler"
	"github.com/Ruscigno/StockPulse/scraper/storage"
	"github.com/Ruscigno/StockPulse/scraper/worker"
	"go.uber.org/zap"
)

// StartRatingsServer runs the admin API that accepts scrape jobs and
// serves stored analyst ratings. It blocks until an interrupt arrives.
func StartRatingsServer(cfg config.Config, appMetrics *metrics.ApplicationMetrics) {
	store, err := storage.NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer store.Close()

	cr := crawler.NewFinvizCrawler(zap.L())
	wq := worker.NewWorkQueue(cfg.ScrapeWorkers, cr, store, appMetrics)
	defer wq.Stop()

	router := api.SetupRouter(store, wq)
	go func() {
		if err := router.Run(":" + cfg.ScraperPort); err != nil {
			zap.L().Fatal("Failed to start ratings server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	zap.L().Info("Shutting down ratings server...")
}
