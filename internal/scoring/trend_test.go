package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// gifts builds a history with one gift per month, oldest first.
func gifts(amounts ...float64) []DonationFact {
	out := make([]DonationFact, len(amounts))
	for i, a := range amounts {
		out[i] = DonationFact{Date: epoch.AddDate(0, i, 0), Amount: a, Fund: "general"}
	}
	return out
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name    string
		history []DonationFact
		want    GivingTrend
	}{
		{name: "no donations", history: nil, want: TrendStable},
		{name: "one donation", history: gifts(100), want: TrendStable},
		{name: "two donations rising sharply", history: gifts(10, 1000), want: TrendStable},
		{name: "three equal donations", history: gifts(500, 500, 500), want: TrendStable},
		{
			// older avg 100, recent avg 200 > 110
			name:    "increasing",
			history: gifts(100, 100, 100, 200, 200, 200),
			want:    TrendIncreasing,
		},
		{
			// older avg 100, recent avg 50 < 90
			name:    "decreasing",
			history: gifts(100, 100, 100, 50, 50, 50),
			want:    TrendDecreasing,
		},
		{
			// recent avg 110 == 100 * 1.1, strict comparison keeps it stable
			name:    "exactly at increase ratio",
			history: gifts(100, 100, 100, 110, 110, 110),
			want:    TrendStable,
		},
		{
			// recent avg 90 == 100 * 0.9
			name:    "exactly at decrease ratio",
			history: gifts(100, 100, 100, 90, 90, 90),
			want:    TrendStable,
		},
		{
			// older avg 1000, recent avg 1100.01
			name:    "just above increase ratio",
			history: gifts(1000, 1000, 1000, 1100, 1100, 1100.03),
			want:    TrendIncreasing,
		},
		{
			// windows overlap: older {100,100,200}=133.33, recent {100,200,200}=166.67 > 146.67
			name:    "four donations share two gifts between windows",
			history: gifts(100, 100, 200, 200),
			want:    TrendIncreasing,
		},
		{
			// three gifts: both windows are the whole history
			name:    "three rising donations compare against themselves",
			history: gifts(100, 200, 300),
			want:    TrendStable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyTrend(tc.history))
		})
	}
}

func TestClassifyTrend_OrdersByDate(t *testing.T) {
	history := gifts(100, 100, 100, 300, 300, 300)
	shuffled := []DonationFact{history[4], history[0], history[5], history[2], history[3], history[1]}

	assert.Equal(t, TrendIncreasing, ClassifyTrend(shuffled))
	// input slice is left in caller order
	assert.Equal(t, history[4], shuffled[0])
	assert.Equal(t, history[1], shuffled[5])
}

func TestClassifyTrend_RequireSixDonations(t *testing.T) {
	cfg := DefaultThresholds()
	cfg.Trend.MinDonations = 6
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	assert.Equal(t, TrendStable, engine.ClassifyTrend(gifts(100, 100, 200, 200)))
	assert.Equal(t, TrendIncreasing, engine.ClassifyTrend(gifts(100, 100, 100, 200, 200, 200)))
}
