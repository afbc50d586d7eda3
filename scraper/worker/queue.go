package worker

import (
	"github.com/Ruscigno/StockPulse/model"
	"github.com/Ruscigno/StockPulse/pkg/metrics"
	"github.com/Ruscigno/StockPulse/scraper/crawler"
	"github.com/Ruscigno/StockPulse/scraper/storage"
)

type WorkQueue struct {
	jobs    chan *model.ScrapeJob
	workers []*Worker
}

func NewWorkQueue(numWorkers int, c crawler.RatingsCrawler, store *storage.MongoStorage, appMetrics *metrics.ApplicationMetrics) *WorkQueue {
	wq := &WorkQueue{
		jobs:    make(chan *model.ScrapeJob, 100),
		workers: make([]*Worker, numWorkers),
	}
	for i := 0; i < numWorkers; i++ {
		wq.workers[i] = NewWorker(wq.jobs, c, store, appMetrics)
		wq.workers[i].Start()
	}
	return wq
}

func (wq *WorkQueue) Enqueue(job *model.ScrapeJob) {
	wq.jobs <- job
}

func (wq *WorkQueue) Stop() {
	close(wq.jobs)
	for _, w := range wq.workers {
		w.Stop()
	}
}
