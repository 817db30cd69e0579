package scoring

import (
	"math"
	"sort"
)

// trendTolerance absorbs float rounding so an average landing exactly on a
// ratio boundary classifies as stable.
const trendTolerance = 1e-9

// ClassifyTrend compares the mean of the most recent gifts with the mean of the
// earliest gifts. Fewer than Trend.MinDonations gifts is reported as stable.
//
// The recent and earliest windows overlap when the donor has fewer than twice
// Window gifts; with the defaults a 4-gift history shares two gifts between them.
func (e *Engine) ClassifyTrend(history []DonationFact) GivingTrend {
	cfg := e.t.Trend
	if len(history) < cfg.MinDonations || len(history) < cfg.Window {
		return TrendStable
	}

	ordered := make([]DonationFact, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	olderAvg := meanAmount(ordered[:cfg.Window])
	recentAvg := meanAmount(ordered[len(ordered)-cfg.Window:])

	tol := trendTolerance * math.Max(1, math.Abs(olderAvg))
	switch {
	case recentAvg-olderAvg*cfg.IncreaseRatio > tol:
		return TrendIncreasing
	case olderAvg*cfg.DecreaseRatio-recentAvg > tol:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func meanAmount(facts []DonationFact) float64 {
	if len(facts) == 0 {
		return 0
	}
	var sum float64
	for _, f := range facts {
		sum += f.Amount
	}
	return sum / float64(len(facts))
}
