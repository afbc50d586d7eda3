package worker

import (
	"context"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"github.com/Ruscigno/StockPulse/pkg/metrics"
	"github.com/Ruscigno/StockPulse/scraper/crawler"
	"github.com/Ruscigno/StockPulse/scraper/storage"
	"go.uber.org/zap"
)

type Worker struct {
	jobs    <-chan *model.ScrapeJob
	crawler crawler.RatingsCrawler
	store   *storage.MongoStorage
	metrics *metrics.ApplicationMetrics
	stop    chan struct{}
}

func NewWorker(jobs <-chan *model.ScrapeJob, c crawler.RatingsCrawler, store *storage.MongoStorage, appMetrics *metrics.ApplicationMetrics) *Worker {
	return &Worker{
		jobs:    jobs,
		crawler: c,
		store:   store,
		metrics: appMetrics,
		stop:    make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go func() {
		for {
			select {
			case job, ok := <-w.jobs:
				if !ok {
					return
				}
				w.process(job)
			case <-w.stop:
				return
			}
		}
	}()
}

func (w *Worker) process(job *model.ScrapeJob) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err := w.run(ctx, job)
	w.metrics.RecordScrapeJob(job.Symbol, err == nil, time.Since(start))
	if err != nil {
		zap.L().Error("Worker failed to process job",
			zap.String("job_id", job.ID),
			zap.String("symbol", job.Symbol),
			zap.Error(err))
		return
	}
	zap.L().Info("Worker processed job",
		zap.String("job_id", job.ID),
		zap.String("symbol", job.Symbol))
}

func (w *Worker) run(ctx context.Context, job *model.ScrapeJob) error {
	recs, err := w.crawler.Scrape(ctx, job.Symbol)
	if err != nil {
		return err
	}
	return w.store.SaveSnapshot(ctx, &model.RatingSnapshot{
		Symbol:          job.Symbol,
		ScrapedAt:       time.Now().UTC(),
		Recommendations: recs,
	})
}

func (w *Worker) Stop() {
	close(w.stop)
}
