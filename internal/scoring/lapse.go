package scoring

var retentionActions = map[RiskLevel][]string{
	RiskHigh: {
		"Make an urgent personal call",
		"Send a \"we miss you\" message",
		"Offer to discuss their philanthropic goals",
		"Request feedback on their experience",
	},
	RiskMedium: {
		"Send an impact update",
		"Extend an exclusive event invitation",
		"Share a story targeted to their interests",
		"Send a gentle giving reminder",
	},
	RiskLow: {
		"Continue regular stewardship",
		"Keep them on general mailings",
		"Make no immediate ask",
		"Thank them for their continued support",
	},
}

// PredictLapseRisk adds up how overdue the donor is against their own cadence,
// their trend and the depth of their history. The probability is the raw sum
// capped at Lapse.ProbabilityCap; the level is read from the uncapped sum.
func (e *Engine) PredictLapseRisk(in LapseInput) LapseRiskResult {
	cfg := e.t.Lapse

	daysPastDue := in.DaysSinceLastGift - in.TypicalGivingFrequencyDays
	raw := cfg.Overdue.Above(float64(daysPastDue)) + cfg.Trend.For(in.AverageGiftTrend)

	switch {
	case in.DonationCount == 1:
		raw += cfg.SingleGiftPoints
	case in.DonationCount < cfg.FewGiftsBelow:
		raw += cfg.FewGiftsPoints
	}

	level := e.riskLevel(raw)
	return LapseRiskResult{
		RiskLevel:        level,
		Probability:      min(cfg.ProbabilityCap, raw),
		RetentionActions: cloneStrings(retentionActions[level]),
	}
}

func (e *Engine) riskLevel(raw int) RiskLevel {
	switch {
	case raw >= e.t.Lapse.HighMin:
		return RiskHigh
	case raw >= e.t.Lapse.MediumMin:
		return RiskMedium
	default:
		return RiskLow
	}
}
