package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAggregate() DonorAggregate {
	return DonorAggregate{
		DonationCount:              3,
		TotalGiven:                 300,
		DaysSinceLastGift:          10,
		TypicalGivingFrequencyDays: 30,
		AverageGiftTrend:           TrendStable,
	}
}

func TestValidateAggregate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DonorAggregate)
		ok     bool
	}{
		{name: "valid", mutate: func(*DonorAggregate) {}, ok: true},
		{name: "zero donations", mutate: func(a *DonorAggregate) { a.DonationCount = 0; a.TotalGiven = 0 }, ok: true},
		{name: "negative count", mutate: func(a *DonorAggregate) { a.DonationCount = -1 }},
		{name: "negative total", mutate: func(a *DonorAggregate) { a.TotalGiven = -0.01 }},
		{name: "nan total", mutate: func(a *DonorAggregate) { a.TotalGiven = math.NaN() }},
		{name: "negative days", mutate: func(a *DonorAggregate) { a.DaysSinceLastGift = -3 }},
		{name: "zero cadence", mutate: func(a *DonorAggregate) { a.TypicalGivingFrequencyDays = 0 }},
		{name: "unknown trend", mutate: func(a *DonorAggregate) { a.AverageGiftTrend = "sideways" }},
		{name: "empty trend", mutate: func(a *DonorAggregate) { a.AverageGiftTrend = "" }},
		{name: "negative opens", mutate: func(a *DonorAggregate) { a.EmailOpens = intPtr(-1) }},
		{name: "negative events", mutate: func(a *DonorAggregate) { a.EventAttendance = intPtr(-2) }},
		{name: "zero opens", mutate: func(a *DonorAggregate) { a.EmailOpens = intPtr(0) }, ok: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agg := validAggregate()
			tc.mutate(&agg)
			err := ValidateAggregate(agg)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestValidateLapseInput(t *testing.T) {
	ok := LapseInput{DaysSinceLastGift: 0, TypicalGivingFrequencyDays: 1, AverageGiftTrend: TrendIncreasing, DonationCount: 0}
	require.NoError(t, ValidateLapseInput(ok))

	bad := []LapseInput{
		{DaysSinceLastGift: -1, TypicalGivingFrequencyDays: 1, AverageGiftTrend: TrendStable},
		{TypicalGivingFrequencyDays: 0, AverageGiftTrend: TrendStable},
		{TypicalGivingFrequencyDays: 30, AverageGiftTrend: "up"},
		{TypicalGivingFrequencyDays: 30, AverageGiftTrend: TrendStable, DonationCount: -4},
	}
	for i, in := range bad {
		assert.ErrorIs(t, ValidateLapseInput(in), ErrInvalidInput, "case %d", i)
	}
}

func TestValidateHistory(t *testing.T) {
	assert.NoError(t, ValidateHistory(nil))
	assert.NoError(t, ValidateHistory(gifts(0, 10)))

	err := ValidateHistory([]DonationFact{{Date: epoch, Amount: 5}, {Amount: 5}})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "donations[1]")

	assert.ErrorIs(t, ValidateHistory([]DonationFact{{Date: time.Now(), Amount: math.Inf(1)}}), ErrInvalidInput)
}

func TestValidatePool(t *testing.T) {
	bad := validAggregate()
	bad.TypicalGivingFrequencyDays = -1
	err := ValidatePool([]Candidate{{Ref: "a", Aggregate: validAggregate()}, {Ref: "b", Aggregate: bad}})

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "donors[1]")
}

func TestParseGivingTrend(t *testing.T) {
	got, err := ParseGivingTrend("  Increasing ")
	require.NoError(t, err)
	assert.Equal(t, TrendIncreasing, got)

	_, err = ParseGivingTrend("flat")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
