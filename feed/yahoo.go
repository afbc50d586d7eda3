package feed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"github.com/Ruscigno/StockPulse/utils"
)

const (
	FinanceYahooUrl = "%s/v8/finance/chart/%s?interval=1d&range=%dd"
	PeriodString    = "&period1=%d&period2=%d"
	UserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/91.0.4472.124"

	DefaultYahooBaseURL = "https://query2.finance.yahoo.com"
)

type yahooScraper struct {
	baseURL string
	client  *http.Client
}

func NewYahooDataFeed() FeedConsumer {
	return NewYahooDataFeedWithBaseURL(DefaultYahooBaseURL)
}

// NewYahooDataFeedWithBaseURL allows pointing the feed at a test server.
func NewYahooDataFeedWithBaseURL(baseURL string) FeedConsumer {
	return &yahooScraper{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// DownloadMarketData fetches historical OHLCV data for a ticker from Yahoo Finance
func (y *yahooScraper) DownloadMarketData(symbol string, startTime time.Time, endTime *time.Time) (*model.MarketData, error) {
	url := y.constructURL(symbol, startTime, endTime)

	resp, err := y.makeHTTPRequest(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := y.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	chart, err := y.parseResponse(resp)
	if err != nil {
		return nil, err
	}

	data := y.extractOHLCVData(chart, symbol)
	if len(data.TimeSeries) == 0 {
		return nil, ErrNoData
	}
	return data, nil
}

func (y *yahooScraper) constructURL(ticker string, startDate time.Time, endDate *time.Time) string {
	if endDate == nil {
		ed := time.Now().UTC()
		endDate = &ed
	}
	url := fmt.Sprintf(
		FinanceYahooUrl,
		y.baseURL,
		ticker,
		int(endDate.Sub(startDate).Hours()/24)+1,
	)
	url += fmt.Sprintf(PeriodString, startDate.Unix(), endDate.Unix())
	return url
}

func (y *yahooScraper) makeHTTPRequest(url string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	return resp, nil
}

func (y *yahooScraper) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func (y *yahooScraper) parseResponse(resp *http.Response) (*model.YahooChartResponse, error) {
	var chart model.YahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("API error: %v", chart.Chart.Error)
	}

	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, ErrNoData
	}
	if len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	return &chart, nil
}

// extractOHLCVData flattens the chart payload. Yahoo occasionally returns
// quote arrays shorter than the timestamp list; the series is bounded by the
// shortest array so a ragged payload never indexes out of range.
func (y *yahooScraper) extractOHLCVData(chart *model.YahooChartResponse, ticker string) *model.MarketData {
	chartResult := chart.Chart.Result[0]
	quote := chartResult.Indicators.Quote[0]

	n := len(chartResult.Timestamp)
	for _, l := range []int{len(quote.Open), len(quote.High), len(quote.Low), len(quote.Close), len(quote.Volume)} {
		if l < n {
			n = l
		}
	}

	result := &model.MarketData{
		MetaData: &model.MetaData{
			Symbol:       ticker,
			CompanyName:  chartResult.Meta.LongName,
			CurrentPrice: chartResult.Meta.RegularMarketPrice,
			Interval:     "1d",
			TimeZone:     "UTC",
		},
	}
	if n > 0 {
		result.MetaData.LastRefreshed = time.Unix(chartResult.Timestamp[n-1], 0).UTC()
	}
	result.TimeSeries = make([]*model.StockData, n)
	for i := 0; i < n; i++ {
		result.TimeSeries[i] = &model.StockData{
			Symbol:    ticker,
			CloseTime: time.Unix(chartResult.Timestamp[i], 0).UTC(),
			Open:      utils.NullToZero(quote.Open[i]),
			High:      utils.NullToZero(quote.High[i]),
			Low:       utils.NullToZero(quote.Low[i]),
			Close:     utils.NullToZero(quote.Close[i]),
			Volume:    float64(quote.Volume[i]),
		}
	}
	return result
}

// GetServerTimeZone doubles as the provider reachability probe used by the
// health check.
func (y *yahooScraper) GetServerTimeZone() (string, error) {
	req, err := http.NewRequest(http.MethodHead, y.baseURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("feed unreachable: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("feed unhealthy: status %d", resp.StatusCode)
	}
	return "UTC", nil
}
