package scoring

var engagementRecommendations = map[EngagementLevel][]string{
	EngagementHigh: {
		"Schedule a major gift conversation",
		"Invite to exclusive donor events",
		"Ask for a testimonial or referral",
	},
	EngagementMedium: {
		"Send personalized impact updates",
		"Invite to mid-level donor events",
		"Include in the upgrade campaign",
	},
	EngagementLow: {
		"Share re-engagement impact stories",
		"Send an interest survey",
		"Offer multiple ways to give",
	},
	EngagementAtRisk: {
		"Reach out personally as soon as possible",
		"Send a \"we miss you\" message",
		"Ask for feedback on their experience",
	},
}

// ScoreEngagement sums the frequency, recency, total, trend and optional channel
// contributions. The score is not clamped to 100; with the default ladders the
// ceiling is exactly 100, and any configured event bonus stacks above it.
func (e *Engine) ScoreEngagement(agg DonorAggregate) EngagementResult {
	cfg := e.t.Engagement

	score := cfg.Frequency.AtLeast(float64(agg.DonationCount)) +
		cfg.Recency.AtMost(float64(agg.DaysSinceLastGift)) +
		cfg.Total.AtLeast(agg.TotalGiven) +
		cfg.Trend.For(agg.AverageGiftTrend)
	if agg.EmailOpens != nil {
		score += cfg.Channel.AtLeast(float64(*agg.EmailOpens))
	}
	if agg.EventAttendance != nil {
		score += cfg.Event.AtLeast(float64(*agg.EventAttendance))
	}

	level := e.engagementLevel(score)
	return EngagementResult{
		Score:           score,
		Level:           level,
		Recommendations: cloneStrings(engagementRecommendations[level]),
	}
}

func (e *Engine) engagementLevel(score int) EngagementLevel {
	cfg := e.t.Engagement
	switch {
	case score >= cfg.HighMin:
		return EngagementHigh
	case score >= cfg.MediumMin:
		return EngagementMedium
	case score >= cfg.LowMin:
		return EngagementLow
	default:
		return EngagementAtRisk
	}
}

// cloneStrings keeps callers from mutating the shared recommendation tables.
func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
