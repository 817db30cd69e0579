package scoring

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrNoHistory is returned by BuildAggregate for a donor without any gifts.
var ErrNoHistory = errors.New("no donation history")

// ChannelSignals are optional non-giving engagement counters.
type ChannelSignals struct {
	EmailOpens      *int
	EventAttendance *int
}

const day = 24 * time.Hour

// BuildAggregate derives a DonorAggregate from raw history as of asOf.
//
// TypicalGivingFrequencyDays is the rounded mean gap between consecutive gifts
// (at least one day). Donors with a single gift get DefaultGivingFrequencyDays.
// Gifts dated after asOf count toward totals but DaysSinceLastGift never goes
// below zero.
func (e *Engine) BuildAggregate(history []DonationFact, asOf time.Time, signals ChannelSignals) (DonorAggregate, error) {
	if len(history) == 0 {
		return DonorAggregate{}, ErrNoHistory
	}
	if err := ValidateHistory(history); err != nil {
		return DonorAggregate{}, err
	}

	ordered := make([]DonationFact, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	var total float64
	for _, f := range ordered {
		total += f.Amount
	}

	last := ordered[len(ordered)-1].Date
	sinceLast := int(asOf.Sub(last) / day)
	if sinceLast < 0 {
		sinceLast = 0
	}

	frequency := e.t.DefaultGivingFrequencyDays
	if len(ordered) > 1 {
		span := last.Sub(ordered[0].Date).Hours() / 24
		frequency = int(math.Round(span / float64(len(ordered)-1)))
		if frequency < 1 {
			frequency = 1
		}
	}

	return DonorAggregate{
		DonationCount:              len(ordered),
		TotalGiven:                 total,
		DaysSinceLastGift:          sinceLast,
		TypicalGivingFrequencyDays: frequency,
		AverageGiftTrend:           e.ClassifyTrend(ordered),
		EmailOpens:                 signals.EmailOpens,
		EventAttendance:            signals.EventAttendance,
	}, nil
}
