package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ruscigno/StockPulse/feed"
	"github.com/Ruscigno/StockPulse/model"
	"github.com/Ruscigno/StockPulse/pkg/cache"
	"github.com/Ruscigno/StockPulse/pkg/indicators"
	"github.com/Ruscigno/StockPulse/pkg/metrics"
	"github.com/Ruscigno/StockPulse/pkg/ratings"
	"github.com/Ruscigno/StockPulse/pkg/repository"
	"github.com/Ruscigno/StockPulse/pkg/retry"
	"github.com/Ruscigno/StockPulse/utils"
	"go.uber.org/zap"
)

var (
	// ErrInvalidSymbol is returned when the requested symbol fails validation.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrSymbolNotFound is returned when the feed has no data for a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// RatingsSource reads the latest stored analyst snapshot for a symbol.
// The scraper's Mongo storage satisfies this.
type RatingsSource interface {
	LatestSnapshot(ctx context.Context, symbol string) (*model.RatingSnapshot, error)
}

// Service defines the stock insight service interface
type Service interface {
	GetInsight(ctx context.Context, symbol string) (*model.StockInsight, error)
	GetChart(ctx context.Context, symbol string, days int) (*model.Chart, error)
	GetWatchlist(ctx context.Context) ([]*repository.WatchlistItem, error)
	AddToWatchlist(ctx context.Context, symbol string) (*repository.WatchlistItem, error)
	RemoveFromWatchlist(ctx context.Context, symbol string) error
	RefreshSymbol(ctx context.Context, symbol string) error
}

// service implements the Service interface
type service struct {
	feed        feed.FeedConsumer
	provider    string
	candles     repository.CandleRepository
	watchlist   repository.WatchlistRepository
	cache       cache.InsightCache
	ratings     RatingsSource
	metrics     *metrics.ApplicationMetrics
	logger      *zap.Logger
	feedBreaker *retry.CircuitBreaker
	retryConfig retry.RetryConfig
	historyDays int
}

// NewService creates a new Service instance with all dependencies
func NewService(
	consumer feed.FeedConsumer,
	provider string,
	candles repository.CandleRepository,
	watchlist repository.WatchlistRepository,
	insightCache cache.InsightCache,
	ratingsSource RatingsSource,
	appMetrics *metrics.ApplicationMetrics,
	logger *zap.Logger,
	historyDays int,
) Service {
	cbConfig := retry.DefaultCircuitBreakerConfig("market-data-feed")
	cbConfig.Logger = logger

	retryConfig := retry.RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
		Logger:        logger,
	}

	return &service{
		feed:        consumer,
		provider:    provider,
		candles:     candles,
		watchlist:   watchlist,
		cache:       insightCache,
		ratings:     ratingsSource,
		metrics:     appMetrics,
		logger:      logger,
		feedBreaker: retry.NewCircuitBreaker(cbConfig),
		retryConfig: retryConfig,
		historyDays: historyDays,
	}
}

// GetInsight returns the assembled analysis for a symbol: moving averages,
// distance from the 200-day low, the derived signal list, and the latest
// analyst consensus when one has been scraped.
func (s *service) GetInsight(ctx context.Context, symbol string) (*model.StockInsight, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSymbol, err)
	}

	if cached, err := s.cache.GetInsight(ctx, symbol); err == nil {
		s.metrics.RecordCacheLookup("insight", true)
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Insight cache read failed", zap.String("symbol", symbol), zap.Error(err))
	}
	s.metrics.RecordCacheLookup("insight", false)

	insight, err := s.buildInsight(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetInsight(ctx, insight); err != nil {
		s.logger.Warn("Insight cache write failed", zap.String("symbol", symbol), zap.Error(err))
	}
	return insight, nil
}

func (s *service) buildInsight(ctx context.Context, symbol string) (*model.StockInsight, error) {
	data, err := s.fetchMarketData(ctx, symbol)
	if err != nil {
		return nil, err
	}

	summary, err := indicators.Compute(data, data.MetaData.CurrentPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to compute indicators for %s: %w", symbol, err)
	}

	insight := &model.StockInsight{
		Symbol:      symbol,
		CompanyName: data.MetaData.CompanyName,
		Indicators:  summary,
		Signals:     indicators.Summarize(summary),
		LastUpdated: time.Now().UTC(),
	}

	snapshot, err := s.ratings.LatestSnapshot(ctx, symbol)
	if err != nil {
		s.logger.Warn("Failed to load analyst snapshot", zap.String("symbol", symbol), zap.Error(err))
	} else if snapshot != nil {
		insight.Rating = ratings.Aggregate(snapshot.Recommendations, snapshot.ScrapedAt)
	}

	return insight, nil
}

// GetChart returns the candle series with moving-average overlays. days
// limits the window to the most recent candles; zero means the full history.
func (s *service) GetChart(ctx context.Context, symbol string, days int) (*model.Chart, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSymbol, err)
	}
	if days <= 0 || days > s.historyDays {
		days = s.historyDays
	}

	chart, err := s.fullChart(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if days >= s.historyDays {
		return chart, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	trimmed := &model.Chart{Symbol: chart.Symbol, Low200: chart.Low200}
	for _, p := range chart.Points {
		if !p.Time.Before(cutoff) {
			trimmed.Points = append(trimmed.Points, p)
		}
	}
	return trimmed, nil
}

// fullChart builds or retrieves the cached full-history chart. Overlays are
// computed on the full series so trimming never distorts the averages.
func (s *service) fullChart(ctx context.Context, symbol string) (*model.Chart, error) {
	if cached, err := s.cache.GetChart(ctx, symbol); err == nil {
		s.metrics.RecordCacheLookup("chart", true)
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Chart cache read failed", zap.String("symbol", symbol), zap.Error(err))
	}
	s.metrics.RecordCacheLookup("chart", false)

	return s.rebuildChart(ctx, symbol)
}

// rebuildChart fetches the series and recomputes the overlays, replacing
// whatever the cache held.
func (s *service) rebuildChart(ctx context.Context, symbol string) (*model.Chart, error) {
	data, err := s.fetchMarketData(ctx, symbol)
	if err != nil {
		return nil, err
	}

	closes := data.Closes()
	ma20 := indicators.MovingAverageSeries(closes, 20)
	ma50 := indicators.MovingAverageSeries(closes, 50)
	low200, err := indicators.RollingLow(data.Lows(), 200)
	if err != nil {
		return nil, fmt.Errorf("failed to compute 200-day low for %s: %w", symbol, err)
	}

	chart := &model.Chart{
		Symbol: symbol,
		Low200: low200,
		Points: make([]model.ChartPoint, len(data.TimeSeries)),
	}
	for i, candle := range data.TimeSeries {
		chart.Points[i] = model.ChartPoint{
			Time:   candle.CloseTime,
			Open:   candle.Open,
			High:   candle.High,
			Low:    candle.Low,
			Close:  candle.Close,
			Volume: candle.Volume,
			MA20:   ma20[i],
			MA50:   ma50[i],
		}
	}

	if err := s.cache.SetChart(ctx, chart); err != nil {
		s.logger.Warn("Chart cache write failed", zap.String("symbol", symbol), zap.Error(err))
	}
	return chart, nil
}

// fetchMarketData downloads the daily history through the circuit breaker
// and persists the candles. An empty feed response means the symbol does
// not exist.
func (s *service) fetchMarketData(ctx context.Context, symbol string) (*model.MarketData, error) {
	start := time.Now().UTC().AddDate(0, 0, -s.historyDays)
	end := time.Now().UTC()

	fetchStart := time.Now()
	data, err := retry.ExecuteWithResult(ctx, s.feedBreaker, func(ctx context.Context) (*model.MarketData, error) {
		return retry.RetryWithResult(ctx, s.retryConfig, func() (*model.MarketData, error) {
			return s.feed.DownloadMarketData(symbol, start, &end)
		})
	})
	s.metrics.RecordFeedFetch(s.provider, symbol, err == nil, time.Since(fetchStart))

	if err != nil {
		if errors.Is(err, feed.ErrNoData) {
			return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
		}
		s.logger.Error("Failed to download market data",
			zap.String("symbol", symbol),
			zap.String("provider", s.provider),
			zap.Error(err))
		return nil, fmt.Errorf("failed to download market data for %s: %w", symbol, err)
	}
	if data == nil || len(data.TimeSeries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}

	if err := s.candles.UpsertCandles(ctx, data); err != nil {
		// Persistence is best effort; the insight still gets served.
		s.logger.Warn("Failed to persist candles", zap.String("symbol", symbol), zap.Error(err))
	}
	return data, nil
}

// GetWatchlist returns all tracked symbols.
func (s *service) GetWatchlist(ctx context.Context) ([]*repository.WatchlistItem, error) {
	items, err := s.watchlist.List(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.SetWatchlistSize(len(items))
	return items, nil
}

// AddToWatchlist tracks a symbol after verifying the feed knows it.
func (s *service) AddToWatchlist(ctx context.Context, symbol string) (*repository.WatchlistItem, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSymbol, err)
	}

	if _, err := s.GetInsight(ctx, symbol); err != nil {
		return nil, err
	}

	item, err := s.watchlist.Add(ctx, symbol)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Watchlist updated", zap.String("symbol", symbol), zap.String("op", "add"))
	return item, nil
}

// RemoveFromWatchlist stops tracking a symbol.
func (s *service) RemoveFromWatchlist(ctx context.Context, symbol string) error {
	symbol = utils.NormalizeSymbol(symbol)
	if err := utils.ValidateSymbol(symbol); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSymbol, err)
	}
	if err := s.watchlist.Remove(ctx, symbol); err != nil {
		return err
	}
	s.logger.Info("Watchlist updated", zap.String("symbol", symbol), zap.String("op", "remove"))
	return nil
}

// RefreshSymbol rebuilds and re-caches the insight and chart for a symbol.
// The background refresher calls this for every watchlist entry.
func (s *service) RefreshSymbol(ctx context.Context, symbol string) error {
	symbol = utils.NormalizeSymbol(symbol)
	if err := utils.ValidateSymbol(symbol); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSymbol, err)
	}

	insight, err := s.buildInsight(ctx, symbol)
	if err != nil {
		return err
	}
	if err := s.cache.SetInsight(ctx, insight); err != nil {
		s.logger.Warn("Insight cache write failed", zap.String("symbol", symbol), zap.Error(err))
	}

	if _, err := s.rebuildChart(ctx, symbol); err != nil {
		return err
	}
	return nil
}
