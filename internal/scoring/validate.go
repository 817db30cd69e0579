package scoring

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks caller-side contract violations: negative amounts or
// counts, a non-positive giving cadence, missing dates or unknown trends.
// Scoring functions never return it; the Validate* helpers do, so bad input is
// rejected at the boundary instead of producing nonsensical scores.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidateHistory rejects gifts with a zero date or a negative or non-finite amount.
func ValidateHistory(history []DonationFact) error {
	for i, f := range history {
		if f.Date.IsZero() {
			return invalid("donations[%d].date is required", i)
		}
		if math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0) || f.Amount < 0 {
			return invalid("donations[%d].amount must be a non-negative number", i)
		}
	}
	return nil
}

// ValidateAggregate checks every DonorAggregate field against its domain.
func ValidateAggregate(agg DonorAggregate) error {
	if agg.DonationCount < 0 {
		return invalid("donation_count must be >= 0")
	}
	if math.IsNaN(agg.TotalGiven) || math.IsInf(agg.TotalGiven, 0) || agg.TotalGiven < 0 {
		return invalid("total_given must be a non-negative number")
	}
	if agg.DaysSinceLastGift < 0 {
		return invalid("days_since_last_gift must be >= 0")
	}
	if agg.TypicalGivingFrequencyDays <= 0 {
		return invalid("typical_giving_frequency_days must be > 0")
	}
	if !agg.AverageGiftTrend.Valid() {
		return invalid("average_gift_trend %q is not one of increasing, decreasing, stable", agg.AverageGiftTrend)
	}
	if agg.EmailOpens != nil && *agg.EmailOpens < 0 {
		return invalid("email_opens must be >= 0")
	}
	if agg.EventAttendance != nil && *agg.EventAttendance < 0 {
		return invalid("event_attendance must be >= 0")
	}
	return nil
}

// ValidateLapseInput checks the lapse predictor input.
func ValidateLapseInput(in LapseInput) error {
	if in.DaysSinceLastGift < 0 {
		return invalid("days_since_last_gift must be >= 0")
	}
	if in.TypicalGivingFrequencyDays <= 0 {
		return invalid("typical_giving_frequency_days must be > 0")
	}
	if !in.AverageGiftTrend.Valid() {
		return invalid("average_gift_trend %q is not one of increasing, decreasing, stable", in.AverageGiftTrend)
	}
	if in.DonationCount < 0 {
		return invalid("donation_count must be >= 0")
	}
	return nil
}

// ValidatePool validates each candidate aggregate, prefixing errors with the
// candidate position.
func ValidatePool(pool []Candidate) error {
	for i, c := range pool {
		if err := ValidateAggregate(c.Aggregate); err != nil {
			return fmt.Errorf("donors[%d]: %w", i, err)
		}
	}
	return nil
}
