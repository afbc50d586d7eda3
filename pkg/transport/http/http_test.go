package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"github.com/Ruscigno/StockPulse/pkg/endpoint"
	"github.com/Ruscigno/StockPulse/pkg/repository"
	"github.com/Ruscigno/StockPulse/pkg/service"
	"github.com/Ruscigno/StockPulse/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubService serves a fixed set of symbols.
type stubService struct {
	insights  map[string]*model.StockInsight
	watchlist map[string]*repository.WatchlistItem
}

func newStubService(symbols ...string) *stubService {
	s := &stubService{
		insights:  make(map[string]*model.StockInsight),
		watchlist: make(map[string]*repository.WatchlistItem),
	}
	for _, symbol := range symbols {
		s.insights[symbol] = &model.StockInsight{
			Symbol:      symbol,
			Indicators:  model.IndicatorSummary{CurrentPrice: 100, MA20: 95, MA50: 90, Low200: 80},
			LastUpdated: time.Now(),
		}
	}
	return s
}

func (s *stubService) GetInsight(ctx context.Context, symbol string) (*model.StockInsight, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, fmt.Errorf("%w: %s", service.ErrInvalidSymbol, err)
	}
	insight, ok := s.insights[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", service.ErrSymbolNotFound, symbol)
	}
	return insight, nil
}

func (s *stubService) GetChart(ctx context.Context, symbol string, days int) (*model.Chart, error) {
	if _, err := s.GetInsight(ctx, symbol); err != nil {
		return nil, err
	}
	return &model.Chart{Symbol: utils.NormalizeSymbol(symbol), Low200: 80}, nil
}

func (s *stubService) GetWatchlist(ctx context.Context) ([]*repository.WatchlistItem, error) {
	out := []*repository.WatchlistItem{}
	for _, item := range s.watchlist {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubService) AddToWatchlist(ctx context.Context, symbol string) (*repository.WatchlistItem, error) {
	if _, err := s.GetInsight(ctx, symbol); err != nil {
		return nil, err
	}
	symbol = utils.NormalizeSymbol(symbol)
	item := &repository.WatchlistItem{ID: uuid.New(), Symbol: symbol, CreatedAt: time.Now()}
	s.watchlist[symbol] = item
	return item, nil
}

func (s *stubService) RemoveFromWatchlist(ctx context.Context, symbol string) error {
	symbol = utils.NormalizeSymbol(symbol)
	if _, ok := s.watchlist[symbol]; !ok {
		return fmt.Errorf("symbol %s is not on the watchlist", symbol)
	}
	delete(s.watchlist, symbol)
	return nil
}

func (s *stubService) RefreshSymbol(ctx context.Context, symbol string) error {
	return nil
}

type stubHealth struct{}

func (stubHealth) CheckHealth(ctx context.Context) service.HealthResponse {
	return service.HealthResponse{Status: service.HealthStatusHealthy, Timestamp: time.Now()}
}

func newTestHandler(apiKey string) http.Handler {
	endpoints := endpoint.MakeEndpoints(newStubService("AAPL"), stubHealth{})
	return NewHTTPHandler(endpoints, HTTPConfig{
		APIKey:            apiKey,
		MaxBodySize:       1 << 20,
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		Logger:            zap.NewNop(),
		AllowedOrigins:    []string{"*"},
	})
}

func TestGetInsightRoute(t *testing.T) {
	handler := newTestHandler("")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insight/AAPL", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var insight model.StockInsight
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&insight))
	assert.Equal(t, "AAPL", insight.Symbol)
	assert.InDelta(t, 100.0, insight.Indicators.CurrentPrice, 1e-9)
}

func TestGetInsightUnknownSymbolIs404(t *testing.T) {
	handler := newTestHandler("")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insight/ZZZZ", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInsightInvalidSymbolIs400(t *testing.T) {
	handler := newTestHandler("")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insight/WAYTOOLONGSYM", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartRouteWithDays(t *testing.T) {
	handler := newTestHandler("")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart/AAPL?days=30", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var chart model.Chart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&chart))
	assert.Equal(t, "AAPL", chart.Symbol)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart/AAPL?days=soon", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchlistRoutes(t *testing.T) {
	handler := newTestHandler("")

	req := httptest.NewRequest(http.MethodPost, "/watchlist", strings.NewReader(`{"symbol":"AAPL"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/watchlist", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var items []repository.WatchlistItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	assert.Len(t, items, 1)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/watchlist/AAPL", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/watchlist/AAPL", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/watchlist", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAPIKeyAuth(t *testing.T) {
	handler := newTestHandler("secret")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insight/AAPL", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/insight/AAPL", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open without credentials.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
