package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorcrm/internal/domain"
	"donorcrm/internal/scoring"
)

func monthly(start time.Time, amounts ...float64) []scoring.DonationFact {
	out := make([]scoring.DonationFact, len(amounts))
	for i, a := range amounts {
		out[i] = scoring.DonationFact{Date: start.AddDate(0, i, 0), Amount: a}
	}
	return out
}

func TestBuildReport(t *testing.T) {
	asOf := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	pool := []domain.DonorHistory{
		// Lapsed single gift: 40 + 10 + 30 = 80, High.
		{DonorID: "lapsed", Donations: monthly(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 50)},
		// Active major donor, 30 + 25 + 20 + 15 + 10 = 100 as a prospect.
		{DonorID: "major", Donations: monthly(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2000, 2000, 2000, 3000, 3000, 3000)},
		{DonorID: "empty"},
		{DonorID: "broken", Donations: []scoring.DonationFact{{Date: asOf, Amount: -1}}},
		// Two gifts a month apart, last one 91 days ago: 20 + 10 + 20 = 50, Medium.
		{DonorID: "slipping", Donations: []scoring.DonationFact{
			{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Amount: 100},
			{Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Amount: 100},
		}},
	}

	out, errs := buildReport(scoring.Default(), pool, asOf, 0)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], scoring.ErrInvalidInput)
	assert.Equal(t, 3, out.Evaluated)
	assert.Equal(t, 2, out.Skipped)
	assert.Equal(t, scoring.DefaultMajorGiftThreshold, out.Threshold)

	require.Len(t, out.Prospects, 1)
	assert.Equal(t, "major", out.Prospects[0].DonorRef)
	assert.Equal(t, 100, out.Prospects[0].Score)

	require.Len(t, out.AtRisk, 2)
	assert.Equal(t, "lapsed", out.AtRisk[0].DonorID)
	assert.Equal(t, scoring.RiskHigh, out.AtRisk[0].RiskLevel)
	assert.Equal(t, 80, out.AtRisk[0].Probability)
	assert.Equal(t, "slipping", out.AtRisk[1].DonorID)
	assert.Equal(t, scoring.RiskMedium, out.AtRisk[1].RiskLevel)
	assert.Equal(t, 50, out.AtRisk[1].Probability)
}

func TestBuildReportCustomThreshold(t *testing.T) {
	asOf := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	pool := []domain.DonorHistory{
		{DonorID: "mid", Donations: monthly(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 500, 500, 500, 500, 500, 500)},
	}

	out, errs := buildReport(scoring.Default(), pool, asOf, 2500)

	assert.Empty(t, errs)
	assert.Equal(t, 2500.0, out.Threshold)
	// 30 + 20 + 15
	require.Len(t, out.Prospects, 1)
	assert.Equal(t, 65, out.Prospects[0].Score)
	assert.Empty(t, out.AtRisk)
}
