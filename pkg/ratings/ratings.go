package ratings

import (
	"sort"
	"strings"
	"time"

	"github.com/Ruscigno/StockPulse/model"
)

// SampleSize caps how many of the most recent recommendations feed the
// aggregate rating.
const SampleSize = 10

var (
	buyGrades  = []string{"buy", "outperform", "overweight"}
	holdGrades = []string{"hold", "neutral"}
	sellGrades = []string{"sell", "underperform", "underweight"}
)

// Bucket classifies a single analyst grade.
type Bucket int

const (
	BucketUnknown Bucket = iota
	BucketBuy
	BucketHold
	BucketSell
)

// Classify maps an analyst grade string onto a buy/hold/sell bucket.
func Classify(grade string) Bucket {
	g := strings.ToLower(grade)
	for _, p := range buyGrades {
		if strings.Contains(g, p) {
			return BucketBuy
		}
	}
	for _, p := range holdGrades {
		if strings.Contains(g, p) {
			return BucketHold
		}
	}
	for _, p := range sellGrades {
		if strings.Contains(g, p) {
			return BucketSell
		}
	}
	return BucketUnknown
}

// Aggregate folds recommendations into an overall analyst rating. Only the
// SampleSize most recent classifiable grades count. Returns nil when nothing
// classifies, the caller then omits the rating block.
func Aggregate(recs []model.Recommendation, asOf time.Time) *model.AnalystRating {
	sorted := make([]model.Recommendation, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > SampleSize {
		sorted = sorted[:SampleSize]
	}

	var buy, hold, sell int
	for _, rec := range sorted {
		switch Classify(rec.ToGrade) {
		case BucketBuy:
			buy++
		case BucketHold:
			hold++
		case BucketSell:
			sell++
		}
	}

	total := buy + hold + sell
	if total == 0 {
		return nil
	}

	rating := &model.AnalystRating{
		BuyCount:   buy,
		HoldCount:  hold,
		SellCount:  sell,
		BuyPct:     float64(buy) / float64(total) * 100,
		HoldPct:    float64(hold) / float64(total) * 100,
		SellPct:    float64(sell) / float64(total) * 100,
		SampleSize: total,
		AsOf:       asOf,
	}
	rating.Overall = overall(rating.BuyPct, rating.HoldPct, rating.SellPct)
	return rating
}

func overall(buyPct, holdPct, sellPct float64) model.OverallRating {
	switch {
	case buyPct >= 60:
		return model.RatingStrongBuy
	case buyPct >= 40:
		return model.RatingBuy
	case holdPct >= 50:
		return model.RatingHold
	case sellPct >= 40:
		return model.RatingSell
	default:
		return model.RatingHold
	}
}
