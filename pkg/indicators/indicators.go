package indicators

import (
	"fmt"

	"github.com/Ruscigno/StockPulse/model"
)

// MovingAverage returns the arithmetic mean of the last n values.
func MovingAverage(values []float64, n int) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("window must be positive, got %d", n)
	}
	if len(values) < n {
		return 0, fmt.Errorf("need at least %d samples, have %d", n, len(values))
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n), nil
}

// MovingAverageSeries returns the rolling mean over a window of n values.
// Entries before the window fills are nil, matching how chart overlays
// leave the first n-1 points empty.
func MovingAverageSeries(values []float64, n int) []*float64 {
	out := make([]*float64, len(values))
	if n <= 0 || len(values) < n {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= n {
			sum -= values[i-n]
		}
		if i >= n-1 {
			avg := sum / float64(n)
			out[i] = &avg
		}
	}
	return out
}

// RollingLow returns the minimum of the last n values. When fewer than n
// samples exist the whole series is used.
func RollingLow(values []float64, n int) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("empty series")
	}
	if n <= 0 {
		return 0, fmt.Errorf("window must be positive, got %d", n)
	}
	if len(values) < n {
		n = len(values)
	}
	low := values[len(values)-n]
	for _, v := range values[len(values)-n:] {
		if v < low {
			low = v
		}
	}
	return low, nil
}

// PercentFrom returns the signed percentage distance of current from reference.
func PercentFrom(current, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return (current - reference) / reference * 100
}

// Summarize derives the technical signal list from the computed indicators.
func Summarize(s model.IndicatorSummary) []model.Signal {
	signals := make([]model.Signal, 0, 4)

	if s.CurrentPrice > s.MA50 {
		signals = append(signals, model.Signal{Tone: model.ToneBullish, Message: "Price is above 50-day MA"})
	} else {
		signals = append(signals, model.Signal{Tone: model.ToneBearish, Message: "Price is below 50-day MA"})
	}

	if s.CurrentPrice > s.MA20 {
		signals = append(signals, model.Signal{Tone: model.ToneBullish, Message: "Price is above 20-day MA"})
	} else {
		signals = append(signals, model.Signal{Tone: model.ToneBearish, Message: "Price is below 20-day MA"})
	}

	if s.MA20 > s.MA50 {
		signals = append(signals, model.Signal{Tone: model.ToneBullish, Message: "20-day MA is above 50-day MA (uptrend)"})
	} else {
		signals = append(signals, model.Signal{Tone: model.ToneBearish, Message: "20-day MA is below 50-day MA (downtrend)"})
	}

	switch {
	case s.PctFromLow200 > 50:
		signals = append(signals, model.Signal{
			Tone:    model.ToneBullish,
			Message: fmt.Sprintf("Price is %.1f%% above 200-day low (strong recovery)", s.PctFromLow200),
		})
	case s.PctFromLow200 > 20:
		signals = append(signals, model.Signal{
			Tone:    model.ToneBullish,
			Message: fmt.Sprintf("Price is %.1f%% above 200-day low (recovering)", s.PctFromLow200),
		})
	default:
		signals = append(signals, model.Signal{
			Tone:    model.ToneNeutral,
			Message: fmt.Sprintf("Price is only %.1f%% above 200-day low (near support)", s.PctFromLow200),
		})
	}

	return signals
}

// Compute builds the full indicator summary for a candle series. The series
// must be sorted ascending; currentPrice falls back to the last close when
// zero.
func Compute(data *model.MarketData, currentPrice float64) (model.IndicatorSummary, error) {
	closes := data.Closes()
	if len(closes) == 0 {
		return model.IndicatorSummary{}, fmt.Errorf("empty series")
	}
	if currentPrice == 0 {
		currentPrice = closes[len(closes)-1]
	}

	ma20, err := MovingAverage(closes, 20)
	if err != nil {
		return model.IndicatorSummary{}, fmt.Errorf("20-day MA: %w", err)
	}
	ma50, err := MovingAverage(closes, 50)
	if err != nil {
		return model.IndicatorSummary{}, fmt.Errorf("50-day MA: %w", err)
	}
	low200, err := RollingLow(data.Lows(), 200)
	if err != nil {
		return model.IndicatorSummary{}, fmt.Errorf("200-day low: %w", err)
	}

	return model.IndicatorSummary{
		CurrentPrice:  currentPrice,
		MA20:          ma20,
		MA50:          ma50,
		Low200:        low200,
		PctFromMA20:   PercentFrom(currentPrice, ma20),
		PctFromMA50:   PercentFrom(currentPrice, ma50),
		PctFromLow200: PercentFrom(currentPrice, low200),
	}, nil
}
