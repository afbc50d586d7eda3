package feed

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartJSON(symbol string, timestamps []int64, closes []float64) string {
	ts := ""
	opens, highs, lows, closesStr, volumes := "", "", "", "", ""
	for i, t := range timestamps {
		if i > 0 {
			ts += ","
			opens += ","
			highs += ","
			lows += ","
			closesStr += ","
			volumes += ","
		}
		ts += fmt.Sprintf("%d", t)
		opens += fmt.Sprintf("%.2f", closes[i]-0.5)
		highs += fmt.Sprintf("%.2f", closes[i]+1)
		lows += fmt.Sprintf("%.2f", closes[i]-1)
		closesStr += fmt.Sprintf("%.2f", closes[i])
		volumes += "1000"
	}
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {
					"currency": "USD",
					"symbol": %q,
					"longName": "Test Corp",
					"regularMarketPrice": %.2f
				},
				"timestamp": [%s],
				"indicators": {
					"quote": [{
						"open": [%s],
						"high": [%s],
						"low": [%s],
						"close": [%s],
						"volume": [%s]
					}]
				}
			}],
			"error": null
		}
	}`, symbol, closes[len(closes)-1], ts, opens, highs, lows, closesStr, volumes)
}

func TestYahooDownloadMarketData(t *testing.T) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	timestamps := []int64{
		now.AddDate(0, 0, -3).Unix(),
		now.AddDate(0, 0, -2).Unix(),
		now.AddDate(0, 0, -1).Unix(),
	}
	closes := []float64{100, 101, 102}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/AAPL")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, chartJSON("AAPL", timestamps, closes))
	}))
	defer server.Close()

	consumer := NewYahooDataFeedWithBaseURL(server.URL)
	start := now.AddDate(0, 0, -5)
	data, err := consumer.DownloadMarketData("AAPL", start, nil)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", data.MetaData.Symbol)
	assert.Equal(t, "Test Corp", data.MetaData.CompanyName)
	assert.InDelta(t, 102.0, data.MetaData.CurrentPrice, 1e-9)

	require.Len(t, data.TimeSeries, 3)
	assert.InDelta(t, 100.0, data.TimeSeries[0].Close, 1e-9)
	assert.InDelta(t, 99.0, data.TimeSeries[0].Low, 1e-9)
	assert.InDelta(t, 1000.0, data.TimeSeries[0].Volume, 1e-9)
	assert.True(t, data.TimeSeries[0].CloseTime.Before(data.TimeSeries[2].CloseTime))
}

func TestYahooDownloadMarketDataNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	consumer := NewYahooDataFeedWithBaseURL(server.URL)
	_, err := consumer.DownloadMarketData("ZZZZ", time.Now().AddDate(0, 0, -5), nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooDownloadMarketDataEmptySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"AAPL"},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`)
	}))
	defer server.Close()

	consumer := NewYahooDataFeedWithBaseURL(server.URL)
	_, err := consumer.DownloadMarketData("AAPL", time.Now().AddDate(0, 0, -5), nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooDownloadMarketDataRaggedQuoteArrays(t *testing.T) {
	// Two timestamps but single-element quote arrays; the extra timestamp
	// must be dropped instead of indexing past the quote data.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{
			"meta":{"symbol":"AAPL","regularMarketPrice":101},
			"timestamp":[1700000000,1700086400],
			"indicators":{"quote":[{
				"open":[99.5],"high":[101],"low":[99],"close":[100],"volume":[1000]
			}]}
		}],"error":null}}`)
	}))
	defer server.Close()

	consumer := NewYahooDataFeedWithBaseURL(server.URL)
	data, err := consumer.DownloadMarketData("AAPL", time.Now().AddDate(0, 0, -5), nil)
	require.NoError(t, err)

	require.Len(t, data.TimeSeries, 1)
	assert.InDelta(t, 100.0, data.TimeSeries[0].Close, 1e-9)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), data.MetaData.LastRefreshed)
}

func TestYahooDownloadMarketDataMissingQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{
			"meta":{"symbol":"AAPL"},
			"timestamp":[1700000000],
			"indicators":{"quote":[]}
		}],"error":null}}`)
	}))
	defer server.Close()

	consumer := NewYahooDataFeedWithBaseURL(server.URL)
	_, err := consumer.DownloadMarketData("AAPL", time.Now().AddDate(0, 0, -5), nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooDownloadMarketDataEmptyQuoteArrays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{
			"meta":{"symbol":"AAPL"},
			"timestamp":[1700000000],
			"indicators":{"quote":[{"open":[],"high":[],"low":[],"close":[],"volume":[]}]}
		}],"error":null}}`)
	}))
	defer server.Close()

	consumer := NewYahooDataFeedWithBaseURL(server.URL)
	_, err := consumer.DownloadMarketData("AAPL", time.Now().AddDate(0, 0, -5), nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooServerTimeZoneProbesProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	consumer := NewYahooDataFeedWithBaseURL(server.URL)
	tz, err := consumer.GetServerTimeZone()
	require.NoError(t, err)
	assert.Equal(t, "UTC", tz)

	server.Close()
	_, err = consumer.GetServerTimeZone()
	assert.Error(t, err)
}

func TestYahooDownloadMarketDataServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusInternalServerError)
	}))
	defer server.Close()

	consumer := NewYahooDataFeedWithBaseURL(server.URL)
	_, err := consumer.DownloadMarketData("AAPL", time.Now().AddDate(0, 0, -5), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}
