package scoring

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// RankProspects scores every candidate for major-gift potential, drops those
// below Prospect.MinScore and returns the rest ordered by descending score.
// Candidates with equal scores keep their input order.
func (e *Engine) RankProspects(pool []Candidate, threshold float64) []ProspectResult {
	if threshold <= 0 {
		threshold = e.t.Prospect.MajorGiftThreshold
	}

	results := make([]ProspectResult, 0, len(pool))
	for _, c := range pool {
		r := e.scoreProspect(c, threshold)
		if r.Score < e.t.Prospect.MinScore {
			continue
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func (e *Engine) scoreProspect(c Candidate, threshold float64) ProspectResult {
	cfg := e.t.Prospect
	agg := c.Aggregate

	var (
		score   int
		reasons = []string{}
	)

	switch {
	case agg.TotalGiven >= threshold:
		score += cfg.ExceedsPoints
		reasons = append(reasons, "Total giving exceeds "+formatMoney(threshold))
	case agg.TotalGiven >= threshold*cfg.ApproachingRatio:
		score += cfg.ApproachingPoints
		reasons = append(reasons, "Approaching major gift threshold")
	}

	if agg.AverageGiftTrend == TrendIncreasing {
		score += cfg.IncreasingPoints
		reasons = append(reasons, "Gifts are increasing over time")
	}

	if agg.DonationCount >= cfg.LoyalMinCount {
		score += cfg.LoyalPoints
		reasons = append(reasons, "Loyal, consistent donor")
	}

	if agg.DaysSinceLastGift <= cfg.RecentMaxDays {
		score += cfg.RecentPoints
		reasons = append(reasons, "Recently engaged")
	}

	if agg.DonationCount > 0 {
		avg := agg.TotalGiven / float64(agg.DonationCount)
		if avg >= cfg.HighAverageGift {
			score += cfg.HighAveragePoints
			reasons = append(reasons, "High average gift: "+formatMoney(avg))
		}
	}

	return ProspectResult{
		DonorRef: c.Ref,
		Score:    score,
		Reasons:  reasons,
		Donor:    agg,
	}
}

// formatMoney renders whole dollars with thousands separators, e.g. $10,000.
func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("$%.0f", v)
}
