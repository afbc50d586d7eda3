package feed

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Ruscigno/StockPulse/model"
)

const (
	FIELD_INFORMATION    = "1. Information"
	FIELD_SYMBOL         = "2. Symbol"
	FIELD_LAST_REFRESHED = "3. Last Refreshed"
	FIELD_OUTPUT_SIZE    = "4. Output Size"
	FIELD_TIME_ZONE      = "5. Time Zone"
	FIELD_OPEN           = "1. open"
	FIELD_HIGH           = "2. high"
	FIELD_LOW            = "3. low"
	FIELD_CLOSE          = "4. close"
	FIELD_VOLUME         = "5. volume"
	TIME_LAYOUT          = "2006-01-02"
)

type alphaVantageResponse struct {
	MetaData   map[string]string            `json:"Meta Data"`
	TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
}

// ParseStockData decodes an AlphaVantage daily time-series payload into
// MarketData with candles sorted ascending by close time.
func (s *alphaVantageScrapper) ParseStockData(jsonData []byte) (*model.MarketData, error) {
	var response alphaVantageResponse
	if err := json.Unmarshal(jsonData, &response); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if response.MetaData == nil || response.TimeSeries == nil {
		return nil, nil
	}

	result := &model.MarketData{
		MetaData: &model.MetaData{
			Information: response.MetaData[FIELD_INFORMATION],
			Symbol:      response.MetaData[FIELD_SYMBOL],
			Interval:    "1d",
			OutputSize:  response.MetaData[FIELD_OUTPUT_SIZE],
			TimeZone:    response.MetaData[FIELD_TIME_ZONE],
		},
	}
	var err error
	result.MetaData.LastRefreshed, err = parseDay(response.MetaData[FIELD_LAST_REFRESHED])
	if err != nil {
		return nil, fmt.Errorf("failed to parse last refreshed time: %w", err)
	}

	for timestamp, data := range response.TimeSeries {
		open, err := strconv.ParseFloat(data[FIELD_OPEN], 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse open value: %w", err)
		}

		high, err := strconv.ParseFloat(data[FIELD_HIGH], 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse high value: %w", err)
		}

		low, err := strconv.ParseFloat(data[FIELD_LOW], 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse low value: %w", err)
		}

		closePrice, err := strconv.ParseFloat(data[FIELD_CLOSE], 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse close value: %w", err)
		}

		volume, err := strconv.ParseInt(data[FIELD_VOLUME], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse volume value: %w", err)
		}

		t, err := parseDay(timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}

		result.TimeSeries = append(result.TimeSeries, &model.StockData{
			Symbol:    result.MetaData.Symbol,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    float64(volume),
			CloseTime: t,
		})
	}

	sort.Slice(result.TimeSeries, func(i, j int) bool {
		return result.TimeSeries[i].CloseTime.Before(result.TimeSeries[j].CloseTime)
	})

	return result, nil
}

func parseDay(timestamp string) (time.Time, error) {
	return time.ParseInLocation(TIME_LAYOUT, timestamp, time.UTC)
}
