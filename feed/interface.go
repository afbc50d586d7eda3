package feed

import (
	"errors"
	"time"

	"github.com/Ruscigno/StockPulse/model"
)

const (
	DataFeedProviderLocal        = "local"
	DataFeedProviderAlphaVantage = "alphavantage"
	DataFeedProviderYahoo        = "yahoo"
)

// ErrNoData is returned when the provider has no candles for a symbol,
// which usually means the symbol does not exist.
var ErrNoData = errors.New("no data returned")

type FeedConsumer interface {
	DownloadMarketData(symbol string, startTime time.Time, endTime *time.Time) (*model.MarketData, error)
	GetServerTimeZone() (string, error)
}
