package scoring

import (
	"fmt"
	"strings"
	"time"
)

// GivingTrend is the direction of a donor's recent gift size against their history.
type GivingTrend string

const (
	TrendIncreasing GivingTrend = "increasing"
	TrendDecreasing GivingTrend = "decreasing"
	TrendStable     GivingTrend = "stable"
)

// ParseGivingTrend accepts the canonical lowercase names, ignoring case and
// surrounding whitespace.
func ParseGivingTrend(s string) (GivingTrend, error) {
	switch GivingTrend(strings.ToLower(strings.TrimSpace(s))) {
	case TrendIncreasing:
		return TrendIncreasing, nil
	case TrendDecreasing:
		return TrendDecreasing, nil
	case TrendStable:
		return TrendStable, nil
	}
	return "", fmt.Errorf("%w: unknown giving trend %q", ErrInvalidInput, s)
}

// Valid reports whether t is one of the known trends.
func (t GivingTrend) Valid() bool {
	return t == TrendIncreasing || t == TrendDecreasing || t == TrendStable
}

// EngagementLevel is the tier derived from an engagement score.
type EngagementLevel string

const (
	EngagementHigh   EngagementLevel = "High"
	EngagementMedium EngagementLevel = "Medium"
	EngagementLow    EngagementLevel = "Low"
	EngagementAtRisk EngagementLevel = "AtRisk"
)

// RiskLevel is the lapse risk bucket.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// DonationFact is a single historical gift. Records are never mutated.
type DonationFact struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Fund   string    `json:"fund,omitempty"`
}

// DonorAggregate is the per-call summary of a donor's giving the scorers read.
// EmailOpens and EventAttendance are optional channel signals.
type DonorAggregate struct {
	DonationCount              int         `json:"donation_count"`
	TotalGiven                 float64     `json:"total_given"`
	DaysSinceLastGift          int         `json:"days_since_last_gift"`
	TypicalGivingFrequencyDays int         `json:"typical_giving_frequency_days"`
	AverageGiftTrend           GivingTrend `json:"average_gift_trend"`
	EmailOpens                 *int        `json:"email_opens,omitempty"`
	EventAttendance            *int        `json:"event_attendance,omitempty"`
}

// EngagementResult is the output of ScoreEngagement.
type EngagementResult struct {
	Score           int             `json:"score"`
	Level           EngagementLevel `json:"level"`
	Recommendations []string        `json:"recommendations"`
}

// Candidate is a donor in a prospect pool.
type Candidate struct {
	Ref       string         `json:"ref"`
	Aggregate DonorAggregate `json:"aggregate"`
}

// ProspectResult is a scored prospect, paired with the aggregate it came from.
type ProspectResult struct {
	DonorRef string         `json:"donor_ref"`
	Score    int            `json:"score"`
	Reasons  []string       `json:"reasons"`
	Donor    DonorAggregate `json:"donor"`
}

// LapseInput holds the fields PredictLapseRisk reads.
type LapseInput struct {
	DaysSinceLastGift          int         `json:"days_since_last_gift"`
	TypicalGivingFrequencyDays int         `json:"typical_giving_frequency_days"`
	AverageGiftTrend           GivingTrend `json:"average_gift_trend"`
	DonationCount              int         `json:"donation_count"`
}

// LapseInputFrom projects an aggregate onto the lapse predictor input.
func LapseInputFrom(agg DonorAggregate) LapseInput {
	return LapseInput{
		DaysSinceLastGift:          agg.DaysSinceLastGift,
		TypicalGivingFrequencyDays: agg.TypicalGivingFrequencyDays,
		AverageGiftTrend:           agg.AverageGiftTrend,
		DonationCount:              agg.DonationCount,
	}
}

// LapseRiskResult is the output of PredictLapseRisk.
type LapseRiskResult struct {
	RiskLevel        RiskLevel `json:"risk_level"`
	Probability      int       `json:"probability"`
	RetentionActions []string  `json:"retention_actions"`
}
