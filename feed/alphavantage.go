package feed

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"go.uber.org/zap"
)

type alphaVantageScrapper struct {
}

const (
	FUNCTION          = "TIME_SERIES_DAILY"
	OUTPUT_SIZE       = "full" // Full data set
	DATA_TYPE         = "json" // Output format
	ALPHA_VANTAGE_URL = "https://www.alphavantage.co/query"
)

var (
	apiKey string = os.Getenv("ALPHA_VANTAGE_API_KEY")
)

func NewAlphaVantageScrapper() FeedConsumer {
	if apiKey == "" {
		zap.L().Fatal("Alpha Vantage API key is missing. Please set the 'ALPHA_VANTAGE_API_KEY' variable")
	}
	return &alphaVantageScrapper{}
}

func (s *alphaVantageScrapper) DownloadMarketData(symbol string, startTime time.Time, endTime *time.Time) (*model.MarketData, error) {
	data, err := s.fetchMarketData(symbol)
	if err != nil {
		return nil, err
	}
	if data == nil || len(data.TimeSeries) == 0 {
		return nil, ErrNoData
	}
	// The daily endpoint always returns the full history; trim to the
	// requested window.
	trimmed := data.TimeSeries[:0]
	for _, candle := range data.TimeSeries {
		if candle.CloseTime.Before(startTime) {
			continue
		}
		if endTime != nil && candle.CloseTime.After(*endTime) {
			continue
		}
		trimmed = append(trimmed, candle)
	}
	data.TimeSeries = trimmed
	if len(data.TimeSeries) == 0 {
		return nil, ErrNoData
	}
	zap.L().Info("Downloaded stock data", zap.String("symbol", symbol), zap.Int("candles", len(data.TimeSeries)))
	return data, nil
}

func (s *alphaVantageScrapper) fetchMarketData(symbol string) (*model.MarketData, error) {
	// Build the URL
	queryURL := fmt.Sprintf("%s?function=%s&symbol=%s&outputsize=%s&datatype=%s&apikey=%s",
		ALPHA_VANTAGE_URL, FUNCTION, symbol, OUTPUT_SIZE, DATA_TYPE, apiKey)

	// Perform the HTTP request
	resp, err := http.Get(queryURL)
	if err != nil {
		zap.L().Error("HTTP request failed", zap.Error(err))
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Error("Non-200 response", zap.String("status", resp.Status))
		return nil, fmt.Errorf("non-200 response: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		zap.L().Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	data, err := s.ParseStockData(body)
	if err != nil {
		zap.L().Error("Error parsing stock data", zap.Error(err))
		return nil, fmt.Errorf("error parsing stock data: %w", err)
	}
	return data, nil
}

// GetServerTimeZone doubles as the provider reachability probe used by the
// health check.
func (s *alphaVantageScrapper) GetServerTimeZone() (string, error) {
	resp, err := http.Head(ALPHA_VANTAGE_URL)
	if err != nil {
		return "", fmt.Errorf("feed unreachable: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("feed unhealthy: status %d", resp.StatusCode)
	}
	return "UTC", nil
}
