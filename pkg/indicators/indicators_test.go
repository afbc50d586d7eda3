package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/Ruscigno/StockPulse/model"
)

func series(values ...float64) []float64 {
	return values
}

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		n       int
		want    float64
		wantErr bool
	}{
		{"exact window", series(1, 2, 3), 3, 2, false},
		{"uses tail only", series(10, 10, 2, 4), 2, 3, false},
		{"single sample", series(7), 1, 7, false},
		{"too few samples", series(1, 2), 3, 0, true},
		{"zero window", series(1, 2), 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MovingAverage(tt.values, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MovingAverage() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MovingAverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMovingAverageSeries(t *testing.T) {
	got := MovingAverageSeries(series(1, 2, 3, 4), 2)
	if len(got) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(got))
	}
	if got[0] != nil {
		t.Errorf("expected nil before window fills, got %v", *got[0])
	}
	want := []float64{1.5, 2.5, 3.5}
	for i, w := range want {
		v := got[i+1]
		if v == nil || math.Abs(*v-w) > 1e-9 {
			t.Errorf("entry %d = %v, want %v", i+1, v, w)
		}
	}
}

func TestMovingAverageSeriesShortInput(t *testing.T) {
	got := MovingAverageSeries(series(1, 2), 5)
	for i, v := range got {
		if v != nil {
			t.Errorf("entry %d should be nil when input shorter than window, got %v", i, *v)
		}
	}
}

func TestRollingLow(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		n       int
		want    float64
		wantErr bool
	}{
		{"min of tail", series(1, 9, 5, 7), 3, 5, false},
		{"ignores values before window", series(0.5, 9, 5, 7), 3, 5, false},
		{"short series uses all", series(3, 2), 200, 2, false},
		{"empty series", nil, 200, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RollingLow(tt.values, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RollingLow() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("RollingLow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentFrom(t *testing.T) {
	if got := PercentFrom(150, 100); got != 50 {
		t.Errorf("PercentFrom(150, 100) = %v, want 50", got)
	}
	if got := PercentFrom(80, 100); got != -20 {
		t.Errorf("PercentFrom(80, 100) = %v, want -20", got)
	}
	if got := PercentFrom(10, 0); got != 0 {
		t.Errorf("PercentFrom(10, 0) = %v, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	s := model.IndicatorSummary{
		CurrentPrice:  120,
		MA20:          110,
		MA50:          100,
		Low200:        60,
		PctFromLow200: 100,
	}
	signals := Summarize(s)
	if len(signals) != 4 {
		t.Fatalf("expected 4 signals, got %d", len(signals))
	}
	for i, sig := range signals {
		if sig.Tone != model.ToneBullish {
			t.Errorf("signal %d tone = %s, want BULLISH (%s)", i, sig.Tone, sig.Message)
		}
	}

	s = model.IndicatorSummary{
		CurrentPrice:  90,
		MA20:          100,
		MA50:          110,
		Low200:        85,
		PctFromLow200: 5.9,
	}
	signals = Summarize(s)
	if signals[0].Tone != model.ToneBearish || signals[1].Tone != model.ToneBearish || signals[2].Tone != model.ToneBearish {
		t.Errorf("expected bearish MA signals, got %+v", signals)
	}
	if signals[3].Tone != model.ToneNeutral {
		t.Errorf("expected near-support signal to be NEUTRAL, got %s", signals[3].Tone)
	}
}

func TestCompute(t *testing.T) {
	data := &model.MarketData{MetaData: &model.MetaData{Symbol: "AAPL"}}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		price := 100 + float64(i)
		data.TimeSeries = append(data.TimeSeries, &model.StockData{
			Symbol:    "AAPL",
			Close:     price,
			Low:       price - 1,
			CloseTime: base.AddDate(0, 0, i),
		})
	}

	summary, err := Compute(data, 0)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if summary.CurrentPrice != 159 {
		t.Errorf("CurrentPrice = %v, want last close 159", summary.CurrentPrice)
	}
	// last 20 closes are 140..159
	if math.Abs(summary.MA20-149.5) > 1e-9 {
		t.Errorf("MA20 = %v, want 149.5", summary.MA20)
	}
	// last 50 closes are 110..159
	if math.Abs(summary.MA50-134.5) > 1e-9 {
		t.Errorf("MA50 = %v, want 134.5", summary.MA50)
	}
	// fewer than 200 lows, whole series applies
	if summary.Low200 != 99 {
		t.Errorf("Low200 = %v, want 99", summary.Low200)
	}
}

func TestComputeTooFewSamples(t *testing.T) {
	data := &model.MarketData{
		TimeSeries: []*model.StockData{{Close: 1, Low: 1}},
	}
	if _, err := Compute(data, 0); err == nil {
		t.Fatal("expected error for series shorter than MA windows")
	}
}
