package scoring

import (
	"errors"
	"fmt"
)

// Step awards Points once a value crosses Limit. How "crosses" is read depends on
// the ladder method used: at least, at most, or strictly above.
type Step struct {
	Limit  float64 `yaml:"limit" json:"limit"`
	Points int     `yaml:"points" json:"points"`
}

// Ladder is an ordered list of steps plus the points awarded when no step matches.
// The first matching step wins, so steps are listed from the most to the least
// demanding limit.
type Ladder struct {
	Steps []Step `yaml:"steps" json:"steps"`
	Floor int    `yaml:"floor" json:"floor"`
}

// AtLeast returns the points of the first step whose limit is <= v.
func (l Ladder) AtLeast(v float64) int {
	for _, s := range l.Steps {
		if v >= s.Limit {
			return s.Points
		}
	}
	return l.Floor
}

// AtMost returns the points of the first step whose limit is >= v.
func (l Ladder) AtMost(v float64) int {
	for _, s := range l.Steps {
		if v <= s.Limit {
			return s.Points
		}
	}
	return l.Floor
}

// Above returns the points of the first step whose limit is strictly below v.
func (l Ladder) Above(v float64) int {
	for _, s := range l.Steps {
		if v > s.Limit {
			return s.Points
		}
	}
	return l.Floor
}

// TrendPoints maps each GivingTrend to a score contribution.
type TrendPoints struct {
	Increasing int `yaml:"increasing" json:"increasing"`
	Stable     int `yaml:"stable" json:"stable"`
	Decreasing int `yaml:"decreasing" json:"decreasing"`
}

// For returns the contribution for trend. Unknown values score as stable.
func (p TrendPoints) For(trend GivingTrend) int {
	switch trend {
	case TrendIncreasing:
		return p.Increasing
	case TrendDecreasing:
		return p.Decreasing
	default:
		return p.Stable
	}
}

// TrendThresholds drives ClassifyTrend.
type TrendThresholds struct {
	MinDonations  int     `yaml:"min_donations" json:"min_donations"`
	Window        int     `yaml:"window" json:"window"`
	IncreaseRatio float64 `yaml:"increase_ratio" json:"increase_ratio"`
	DecreaseRatio float64 `yaml:"decrease_ratio" json:"decrease_ratio"`
}

// EngagementThresholds drives ScoreEngagement.
type EngagementThresholds struct {
	Frequency Ladder      `yaml:"frequency" json:"frequency"`
	Recency   Ladder      `yaml:"recency" json:"recency"`
	Total     Ladder      `yaml:"total" json:"total"`
	Channel   Ladder      `yaml:"channel" json:"channel"`
	Event     Ladder      `yaml:"event" json:"event"`
	Trend     TrendPoints `yaml:"trend" json:"trend"`
	HighMin   int         `yaml:"high_min" json:"high_min"`
	MediumMin int         `yaml:"medium_min" json:"medium_min"`
	LowMin    int         `yaml:"low_min" json:"low_min"`
}

// ProspectThresholds drives RankProspects.
type ProspectThresholds struct {
	MajorGiftThreshold float64 `yaml:"major_gift_threshold" json:"major_gift_threshold"`
	ApproachingRatio   float64 `yaml:"approaching_ratio" json:"approaching_ratio"`
	ExceedsPoints      int     `yaml:"exceeds_points" json:"exceeds_points"`
	ApproachingPoints  int     `yaml:"approaching_points" json:"approaching_points"`
	IncreasingPoints   int     `yaml:"increasing_points" json:"increasing_points"`
	LoyalMinCount      int     `yaml:"loyal_min_count" json:"loyal_min_count"`
	LoyalPoints        int     `yaml:"loyal_points" json:"loyal_points"`
	RecentMaxDays      int     `yaml:"recent_max_days" json:"recent_max_days"`
	RecentPoints       int     `yaml:"recent_points" json:"recent_points"`
	HighAverageGift    float64 `yaml:"high_average_gift" json:"high_average_gift"`
	HighAveragePoints  int     `yaml:"high_average_points" json:"high_average_points"`
	MinScore           int     `yaml:"min_score" json:"min_score"`
}

// LapseThresholds drives PredictLapseRisk.
type LapseThresholds struct {
	Overdue          Ladder      `yaml:"overdue" json:"overdue"`
	Trend            TrendPoints `yaml:"trend" json:"trend"`
	SingleGiftPoints int         `yaml:"single_gift_points" json:"single_gift_points"`
	FewGiftsBelow    int         `yaml:"few_gifts_below" json:"few_gifts_below"`
	FewGiftsPoints   int         `yaml:"few_gifts_points" json:"few_gifts_points"`
	HighMin          int         `yaml:"high_min" json:"high_min"`
	MediumMin        int         `yaml:"medium_min" json:"medium_min"`
	ProbabilityCap   int         `yaml:"probability_cap" json:"probability_cap"`
}

// Thresholds gathers every tunable number used by the engine.
type Thresholds struct {
	Trend      TrendThresholds      `yaml:"trend" json:"trend"`
	Engagement EngagementThresholds `yaml:"engagement" json:"engagement"`
	Prospect   ProspectThresholds   `yaml:"prospect" json:"prospect"`
	Lapse      LapseThresholds      `yaml:"lapse" json:"lapse"`

	// DefaultGivingFrequencyDays is the cadence assumed for donors with fewer than
	// two gifts when building aggregates.
	DefaultGivingFrequencyDays int `yaml:"default_giving_frequency_days" json:"default_giving_frequency_days"`
}

// DefaultMajorGiftThreshold is the total giving that qualifies as a major gift donor.
const DefaultMajorGiftThreshold = 10000.0

// DefaultThresholds returns the production scoring configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Trend: TrendThresholds{
			MinDonations:  3,
			Window:        3,
			IncreaseRatio: 1.1,
			DecreaseRatio: 0.9,
		},
		Engagement: EngagementThresholds{
			Frequency: Ladder{
				Steps: []Step{{Limit: 12, Points: 30}, {Limit: 6, Points: 25}, {Limit: 3, Points: 20}, {Limit: 2, Points: 15}},
				Floor: 10,
			},
			Recency: Ladder{
				Steps: []Step{{Limit: 30, Points: 25}, {Limit: 90, Points: 20}, {Limit: 180, Points: 15}, {Limit: 365, Points: 10}},
				Floor: 5,
			},
			Total: Ladder{
				Steps: []Step{{Limit: 10000, Points: 20}, {Limit: 5000, Points: 15}, {Limit: 1000, Points: 10}, {Limit: 100, Points: 5}},
				Floor: 0,
			},
			Channel: Ladder{
				Steps: []Step{{Limit: 10, Points: 10}, {Limit: 5, Points: 7}, {Limit: 1, Points: 4}},
				Floor: 0,
			},
			// Event attendance is collected but not scored unless configured.
			Event:     Ladder{},
			Trend:     TrendPoints{Increasing: 15, Stable: 10, Decreasing: 5},
			HighMin:   80,
			MediumMin: 60,
			LowMin:    40,
		},
		Prospect: ProspectThresholds{
			MajorGiftThreshold: DefaultMajorGiftThreshold,
			ApproachingRatio:   0.5,
			ExceedsPoints:      30,
			ApproachingPoints:  20,
			IncreasingPoints:   25,
			LoyalMinCount:      5,
			LoyalPoints:        20,
			RecentMaxDays:      90,
			RecentPoints:       15,
			HighAverageGift:    1000,
			HighAveragePoints:  10,
			MinScore:           40,
		},
		Lapse: LapseThresholds{
			Overdue: Ladder{
				Steps: []Step{{Limit: 180, Points: 40}, {Limit: 90, Points: 30}, {Limit: 30, Points: 20}, {Limit: 0, Points: 10}},
				Floor: 0,
			},
			Trend:            TrendPoints{Increasing: 0, Stable: 10, Decreasing: 30},
			SingleGiftPoints: 30,
			FewGiftsBelow:    3,
			FewGiftsPoints:   20,
			HighMin:          70,
			MediumMin:        40,
			ProbabilityCap:   100,
		},
		DefaultGivingFrequencyDays: 365,
	}
}

// Validate checks structural constraints so a hand-edited configuration cannot
// silently invert a ladder or tier ordering.
func (t Thresholds) Validate() error {
	var errs []error
	if t.Trend.Window < 1 {
		errs = append(errs, errors.New("trend.window must be >= 1"))
	}
	if t.Trend.MinDonations < t.Trend.Window {
		errs = append(errs, errors.New("trend.min_donations must be >= trend.window"))
	}
	if t.Trend.IncreaseRatio < 1 || t.Trend.DecreaseRatio > 1 || t.Trend.DecreaseRatio <= 0 {
		errs = append(errs, errors.New("trend ratios must satisfy 0 < decrease_ratio <= 1 <= increase_ratio"))
	}
	errs = append(errs,
		descending("engagement.frequency", t.Engagement.Frequency),
		ascending("engagement.recency", t.Engagement.Recency),
		descending("engagement.total", t.Engagement.Total),
		descending("engagement.channel", t.Engagement.Channel),
		descending("engagement.event", t.Engagement.Event),
		descending("lapse.overdue", t.Lapse.Overdue),
	)
	if !(t.Engagement.HighMin > t.Engagement.MediumMin && t.Engagement.MediumMin > t.Engagement.LowMin) {
		errs = append(errs, errors.New("engagement tiers must satisfy high_min > medium_min > low_min"))
	}
	if t.Lapse.HighMin <= t.Lapse.MediumMin {
		errs = append(errs, errors.New("lapse tiers must satisfy high_min > medium_min"))
	}
	if t.Lapse.ProbabilityCap <= 0 {
		errs = append(errs, errors.New("lapse.probability_cap must be positive"))
	}
	if t.Prospect.MajorGiftThreshold <= 0 {
		errs = append(errs, errors.New("prospect.major_gift_threshold must be positive"))
	}
	if t.Prospect.ApproachingRatio <= 0 || t.Prospect.ApproachingRatio >= 1 {
		errs = append(errs, errors.New("prospect.approaching_ratio must be in (0, 1)"))
	}
	if t.DefaultGivingFrequencyDays <= 0 {
		errs = append(errs, errors.New("default_giving_frequency_days must be positive"))
	}
	return errors.Join(errs...)
}

func descending(name string, l Ladder) error {
	for i := 1; i < len(l.Steps); i++ {
		if l.Steps[i].Limit >= l.Steps[i-1].Limit {
			return fmt.Errorf("%s: step limits must be strictly descending", name)
		}
	}
	return nil
}

func ascending(name string, l Ladder) error {
	for i := 1; i < len(l.Steps); i++ {
		if l.Steps[i].Limit <= l.Steps[i-1].Limit {
			return fmt.Errorf("%s: step limits must be strictly ascending", name)
		}
	}
	return nil
}
