package model

import "time"

// OverallRating buckets an aggregated analyst consensus.
type OverallRating string

const (
	RatingStrongBuy OverallRating = "STRONG_BUY"
	RatingBuy       OverallRating = "BUY"
	RatingHold      OverallRating = "HOLD"
	RatingSell      OverallRating = "SELL"
)

// AnalystRating summarizes the most recent analyst recommendations.
type AnalystRating struct {
	Overall    OverallRating `json:"overall"`
	BuyCount   int           `json:"buy_count"`
	HoldCount  int           `json:"hold_count"`
	SellCount  int           `json:"sell_count"`
	BuyPct     float64       `json:"buy_pct"`
	HoldPct    float64       `json:"hold_pct"`
	SellPct    float64       `json:"sell_pct"`
	SampleSize int           `json:"sample_size"`
	AsOf       time.Time     `json:"as_of"`
}

// SignalTone classifies a technical signal.
type SignalTone string

const (
	ToneBullish SignalTone = "BULLISH"
	ToneBearish SignalTone = "BEARISH"
	ToneNeutral SignalTone = "NEUTRAL"
)

// Signal is a single line of the technical analysis summary.
type Signal struct {
	Tone    SignalTone `json:"tone"`
	Message string     `json:"message"`
}

// IndicatorSummary holds the derived statistics for a symbol.
type IndicatorSummary struct {
	CurrentPrice  float64 `json:"current_price"`
	MA20          float64 `json:"ma_20"`
	MA50          float64 `json:"ma_50"`
	Low200        float64 `json:"low_200"`
	PctFromMA20   float64 `json:"pct_from_ma_20"`
	PctFromMA50   float64 `json:"pct_from_ma_50"`
	PctFromLow200 float64 `json:"pct_from_low_200"`
}

// StockInsight is the assembled response for a symbol lookup.
type StockInsight struct {
	Symbol      string           `json:"symbol"`
	CompanyName string           `json:"company_name,omitempty"`
	Indicators  IndicatorSummary `json:"indicators"`
	Rating      *AnalystRating   `json:"rating,omitempty"`
	Signals     []Signal         `json:"signals"`
	LastUpdated time.Time        `json:"last_updated"`
}

// ChartPoint is one candle enriched with rolling averages, chart-ready.
type ChartPoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	MA20   *float64  `json:"ma_20,omitempty"`
	MA50   *float64  `json:"ma_50,omitempty"`
}

// Chart is the series payload for price and volume rendering.
type Chart struct {
	Symbol string       `json:"symbol"`
	Low200 float64      `json:"low_200"`
	Points []ChartPoint `json:"points"`
}
