package refresher

import (
	"context"
	"sync"
	"time"

	"github.com/Ruscigno/StockPulse/pkg/service"
	"go.uber.org/zap"
)

// Refresher keeps cached insights warm for every watchlist symbol by
// rebuilding them on a fixed interval.
type Refresher struct {
	svc      service.Service
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(svc service.Service, interval time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{
		svc:      svc,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. An immediate pass runs first so the
// cache is warm right after boot.
func (r *Refresher) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		r.refreshAll()

		clock := time.NewTicker(r.interval)
		defer clock.Stop()
		for {
			select {
			case <-clock.C:
				r.refreshAll()
			case <-r.done:
				r.logger.Info("Refresher exiting")
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight pass.
func (r *Refresher) Stop() {
	close(r.done)
	r.wg.Wait()
}

func (r *Refresher) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	items, err := r.svc.GetWatchlist(ctx)
	if err != nil {
		r.logger.Error("Failed to load watchlist for refresh", zap.Error(err))
		return
	}

	start := time.Now()
	for _, item := range items {
		select {
		case <-r.done:
			return
		default:
		}
		if err := r.svc.RefreshSymbol(ctx, item.Symbol); err != nil {
			r.logger.Warn("Failed to refresh symbol",
				zap.String("symbol", item.Symbol),
				zap.Error(err))
		}
	}

	r.logger.Info("Watchlist refresh completed",
		zap.Int("symbols", len(items)),
		zap.Duration("duration", time.Since(start)))
}
