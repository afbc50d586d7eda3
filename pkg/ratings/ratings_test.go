package ratings

import (
	"testing"
	"time"

	"github.com/Ruscigno/StockPulse/model"
)

func rec(daysAgo int, toGrade string) model.Recommendation {
	return model.Recommendation{
		Symbol:  "AAPL",
		Date:    time.Now().UTC().AddDate(0, 0, -daysAgo),
		ToGrade: toGrade,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		grade string
		want  Bucket
	}{
		{"Buy", BucketBuy},
		{"Strong Buy", BucketBuy},
		{"Outperform", BucketBuy},
		{"Market Outperform", BucketBuy},
		{"Overweight", BucketBuy},
		{"Hold", BucketHold},
		{"Neutral", BucketHold},
		{"Sell", BucketSell},
		{"Underperform", BucketSell},
		{"Underweight", BucketSell},
		{"Market Perform", BucketUnknown},
		{"", BucketUnknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.grade); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.grade, got, tt.want)
		}
	}
}

func TestAggregateOverall(t *testing.T) {
	asOf := time.Now().UTC()
	tests := []struct {
		name   string
		grades []string
		want   model.OverallRating
	}{
		{"strong buy at 60 pct", []string{"Buy", "Buy", "Buy", "Hold", "Sell"}, model.RatingStrongBuy},
		{"buy at 40 pct", []string{"Buy", "Buy", "Hold", "Hold", "Sell"}, model.RatingBuy},
		{"hold majority", []string{"Hold", "Hold", "Hold", "Buy", "Sell", "Sell"}, model.RatingHold},
		{"sell at 40 pct", []string{"Sell", "Sell", "Hold", "Buy", "Sell"}, model.RatingSell},
		{"fallback hold", []string{"Buy", "Sell", "Sell", "Hold", "Hold", "Buy"}, model.RatingHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := make([]model.Recommendation, len(tt.grades))
			for i, g := range tt.grades {
				recs[i] = rec(i, g)
			}
			got := Aggregate(recs, asOf)
			if got == nil {
				t.Fatal("Aggregate() = nil, want rating")
			}
			if got.Overall != tt.want {
				t.Errorf("Overall = %s, want %s (buy=%.0f%% hold=%.0f%% sell=%.0f%%)",
					got.Overall, tt.want, got.BuyPct, got.HoldPct, got.SellPct)
			}
		})
	}
}

func TestAggregateSampleWindow(t *testing.T) {
	// 10 recent Buys followed by a pile of older Sells: only the window counts.
	var recs []model.Recommendation
	for i := 0; i < SampleSize; i++ {
		recs = append(recs, rec(i, "Buy"))
	}
	for i := 0; i < 20; i++ {
		recs = append(recs, rec(100+i, "Sell"))
	}

	got := Aggregate(recs, time.Now().UTC())
	if got == nil {
		t.Fatal("Aggregate() = nil, want rating")
	}
	if got.SellCount != 0 {
		t.Errorf("SellCount = %d, want 0 (older than sample window)", got.SellCount)
	}
	if got.BuyCount != SampleSize {
		t.Errorf("BuyCount = %d, want %d", got.BuyCount, SampleSize)
	}
	if got.Overall != model.RatingStrongBuy {
		t.Errorf("Overall = %s, want STRONG_BUY", got.Overall)
	}
}

func TestAggregateNoClassifiableGrades(t *testing.T) {
	recs := []model.Recommendation{rec(0, "Market Perform"), rec(1, "")}
	if got := Aggregate(recs, time.Now().UTC()); got != nil {
		t.Errorf("Aggregate() = %+v, want nil when nothing classifies", got)
	}
	if got := Aggregate(nil, time.Now().UTC()); got != nil {
		t.Errorf("Aggregate(nil) = %+v, want nil", got)
	}
}
