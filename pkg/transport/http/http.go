package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Ruscigno/StockPulse/pkg/endpoint"
	"github.com/Ruscigno/StockPulse/pkg/middleware"
	"github.com/Ruscigno/StockPulse/pkg/service"
	httptransport "github.com/go-kit/kit/transport/http"
	"go.uber.org/zap"
)

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	APIKey            string
	MaxBodySize       int64
	RequestsPerSecond int
	BurstSize         int
	Logger            *zap.Logger
	AllowedOrigins    []string
}

var errMissingSymbol = errors.New("symbol is required")

// NewHTTPHandler sets up HTTP handlers for the endpoints with middleware.
func NewHTTPHandler(endpoints endpoint.Endpoints, config HTTPConfig) http.Handler {
	mux := http.NewServeMux()
	opts := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
	}

	mux.Handle("/insight/", httptransport.NewServer(
		endpoints.GetInsight,
		decodeInsightRequest,
		encodeResponse,
		opts...,
	))

	mux.Handle("/chart/", httptransport.NewServer(
		endpoints.GetChart,
		decodeChartRequest,
		encodeResponse,
		opts...,
	))

	watchlistGet := httptransport.NewServer(
		endpoints.GetWatchlist,
		decodeEmptyRequest,
		encodeResponse,
		opts...,
	)
	watchlistPost := httptransport.NewServer(
		endpoints.AddToWatchlist,
		decodeWatchlistBodyRequest,
		encodeResponse,
		opts...,
	)
	mux.Handle("/watchlist", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			watchlistGet.ServeHTTP(w, r)
		case http.MethodPost:
			watchlistPost.ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	watchlistDelete := httptransport.NewServer(
		endpoints.RemoveFromWatchlist,
		decodeWatchlistPathRequest,
		encodeResponse,
		opts...,
	)
	mux.Handle("/watchlist/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		watchlistDelete.ServeHTTP(w, r)
	}))

	// Health check endpoint (no authentication required)
	mux.Handle("/health", httptransport.NewServer(
		endpoints.CheckHealth,
		decodeEmptyRequest,
		encodeResponse,
		opts...,
	))

	// Apply middleware in reverse order (last applied = first executed)
	var handler http.Handler = mux
	handler = middleware.RequestLogging(config.Logger)(handler)
	handler = middleware.RequestValidation(middleware.ValidationConfig{
		MaxBodySize: config.MaxBodySize,
		Logger:      config.Logger,
	})(handler)
	handler = middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: config.RequestsPerSecond,
		BurstSize:         config.BurstSize,
		Logger:            config.Logger,
	})(handler)
	handler = middleware.APIKeyAuth(middleware.AuthConfig{
		APIKey: config.APIKey,
		Logger: config.Logger,
	})(handler)
	handler = middleware.CORS(config.AllowedOrigins)(handler)
	handler = middleware.SecurityHeaders()(handler)
	handler = middleware.RequestID()(handler)

	return handler
}

func decodeInsightRequest(_ context.Context, r *http.Request) (interface{}, error) {
	symbol := strings.TrimPrefix(r.URL.Path, "/insight/")
	if symbol == "" {
		return nil, errMissingSymbol
	}
	return symbol, nil
}

func decodeChartRequest(_ context.Context, r *http.Request) (interface{}, error) {
	symbol := strings.TrimPrefix(r.URL.Path, "/chart/")
	if symbol == "" {
		return nil, errMissingSymbol
	}

	req := endpoint.ChartRequest{Symbol: symbol}
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return nil, errors.New("days must be an integer")
		}
		req.Days = days
	}
	return req, nil
}

func decodeWatchlistBodyRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req endpoint.WatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return req, nil
}

func decodeWatchlistPathRequest(_ context.Context, r *http.Request) (interface{}, error) {
	symbol := strings.TrimPrefix(r.URL.Path, "/watchlist/")
	if symbol == "" {
		return nil, errMissingSymbol
	}
	return endpoint.WatchlistRequest{Symbol: symbol}, nil
}

func decodeEmptyRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return nil, nil
}

func encodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(response)
}

// encodeError maps service errors to HTTP status codes.
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidSymbol), errors.Is(err, errMissingSymbol):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrSymbolNotFound):
		status = http.StatusNotFound
	case strings.Contains(err.Error(), "not on the watchlist"):
		status = http.StatusNotFound
	case strings.Contains(err.Error(), "days must be"):
		status = http.StatusBadRequest
	case strings.Contains(err.Error(), "circuit breaker"):
		status = http.StatusServiceUnavailable
	}

	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
