package model

import "time"

type MarketData struct {
	MetaData   *MetaData    `json:"meta_data"`
	TimeSeries []*StockData `json:"time_series"`
}

type MetaData struct {
	Information   string    `json:"information"`
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name,omitempty"`
	LastRefreshed time.Time `json:"last_refreshed"`
	Interval      string    `json:"interval"`
	OutputSize    string    `json:"output_size"`
	TimeZone      string    `json:"time_zone"`
	CurrentPrice  float64   `json:"current_price,omitempty"`
}

type StockData struct {
	Symbol    string    `json:"symbol"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	OpenTime  time.Time `json:"open_time"`
	CloseTime time.Time `json:"close_time"`
}

// Closes returns the close-price series in chronological order.
func (m *MarketData) Closes() []float64 {
	out := make([]float64, len(m.TimeSeries))
	for i, s := range m.TimeSeries {
		out[i] = s.Close
	}
	return out
}

// Lows returns the low-price series in chronological order.
func (m *MarketData) Lows() []float64 {
	out := make([]float64, len(m.TimeSeries))
	for i, s := range m.TimeSeries {
		out[i] = s.Low
	}
	return out
}

// Volumes returns the volume series in chronological order.
func (m *MarketData) Volumes() []float64 {
	out := make([]float64, len(m.TimeSeries))
	for i, s := range m.TimeSeries {
		out[i] = s.Volume
	}
	return out
}
