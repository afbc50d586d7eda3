package feed

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"go.uber.org/zap"
)

type localDataFeed struct {
	dir string
}

func NewLocalDataFeed(dir string) FeedConsumer {
	if dir == "" {
		dir = "feed/data"
	}
	return &localDataFeed{dir: dir}
}

func (s *localDataFeed) DownloadMarketData(symbol string, startTime time.Time, endTime *time.Time) (*model.MarketData, error) {
	fileName := fmt.Sprintf("%s/%s.json", s.dir, symbol)
	if _, err := os.Stat(fileName); os.IsNotExist(err) {
		zap.L().Error("file does not exist", zap.String("file", fileName))
		return nil, ErrNoData
	}
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	jsonData, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	av := alphaVantageScrapper{}
	data, err := av.ParseStockData(jsonData)
	if err != nil {
		zap.L().Error("error parsing stock data", zap.Error(err))
		return nil, fmt.Errorf("error parsing stock data: %w", err)
	}
	if data == nil || len(data.TimeSeries) == 0 {
		return nil, ErrNoData
	}
	return data, nil
}

// GetServerTimeZone doubles as the provider reachability probe: the data
// directory must exist for the feed to be considered healthy.
func (s *localDataFeed) GetServerTimeZone() (string, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return "", fmt.Errorf("feed data directory unavailable: %w", err)
	}
	return "UTC", nil
}
