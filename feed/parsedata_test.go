package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alphaVantagePayload = `{
	"Meta Data": {
		"1. Information": "Daily Prices (open, high, low, close) and Volumes",
		"2. Symbol": "IBM",
		"3. Last Refreshed": "2024-12-17",
		"4. Output Size": "Compact",
		"5. Time Zone": "US/Eastern"
	},
	"Time Series (Daily)": {
		"2024-12-17": {
			"1. open": "228.00",
			"2. high": "230.50",
			"3. low": "227.10",
			"4. close": "229.30",
			"5. volume": "3214567"
		},
		"2024-12-16": {
			"1. open": "226.50",
			"2. high": "228.80",
			"3. low": "225.90",
			"4. close": "228.10",
			"5. volume": "2987654"
		}
	}
}`

func TestParseStockData(t *testing.T) {
	s := &alphaVantageScrapper{}

	data, err := s.ParseStockData([]byte(alphaVantagePayload))
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, "IBM", data.MetaData.Symbol)
	assert.Equal(t, "US/Eastern", data.MetaData.TimeZone)

	require.Len(t, data.TimeSeries, 2)
	// Candles come back sorted ascending regardless of map order.
	assert.True(t, data.TimeSeries[0].CloseTime.Before(data.TimeSeries[1].CloseTime))
	assert.InDelta(t, 228.10, data.TimeSeries[0].Close, 1e-9)
	assert.InDelta(t, 229.30, data.TimeSeries[1].Close, 1e-9)
	assert.InDelta(t, 3214567, data.TimeSeries[1].Volume, 1e-9)
}

func TestParseStockDataEmptyPayload(t *testing.T) {
	s := &alphaVantageScrapper{}

	data, err := s.ParseStockData([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestParseStockDataMalformed(t *testing.T) {
	s := &alphaVantageScrapper{}

	_, err := s.ParseStockData([]byte(`not json`))
	assert.Error(t, err)
}
