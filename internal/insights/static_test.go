package insights

import (
	"context"
	"strings"
	"testing"

	"donorcrm/internal/scoring"
)

func sampleRequest(locale string) NarrateRequest {
	agg := scoring.DonorAggregate{
		DonationCount:              10,
		TotalGiven:                 20000,
		DaysSinceLastGift:          30,
		TypicalGivingFrequencyDays: 30,
		AverageGiftTrend:           scoring.TrendIncreasing,
	}
	return NarrateRequest{
		DonorRef:   "donor-42",
		Locale:     locale,
		Aggregate:  agg,
		Engagement: scoring.ScoreEngagement(agg),
		Lapse:      scoring.PredictLapseRisk(scoring.LapseInputFrom(agg)),
	}
}

func TestStaticNarratorEnglish(t *testing.T) {
	res, err := NewStaticNarrator().Narrate(context.Background(), sampleRequest("en"))
	if err != nil {
		t.Fatalf("Narrate returned error: %v", err)
	}
	if res.Headline != "High Engagement, Low Lapse Risk" {
		t.Fatalf("Headline = %q", res.Headline)
	}
	for _, want := range []string{"donor-42", "10 gifts", "$20,000", "increasing", "scores 85 (high)"} {
		if !strings.Contains(res.Summary, want) {
			t.Fatalf("Summary %q missing %q", res.Summary, want)
		}
	}
	if res.Provider != staticProviderName || res.Metadata["locale"] != "en" {
		t.Fatalf("unexpected provider/metadata: %q %#v", res.Provider, res.Metadata)
	}
	// Low risk leads with engagement recommendations.
	if len(res.NextSteps) != 4 || res.NextSteps[0] != "Schedule a major gift conversation" {
		t.Fatalf("NextSteps = %#v", res.NextSteps)
	}
}

func TestStaticNarratorSpanish(t *testing.T) {
	res, err := NewStaticNarrator().Narrate(context.Background(), sampleRequest("es"))
	if err != nil {
		t.Fatalf("Narrate returned error: %v", err)
	}
	if res.Headline != "Compromiso Alto, Riesgo De Abandono Bajo" {
		t.Fatalf("Headline = %q", res.Headline)
	}
	for _, want := range []string{"$20.000", "en aumento"} {
		if !strings.Contains(res.Summary, want) {
			t.Fatalf("Summary %q missing %q", res.Summary, want)
		}
	}
}

func TestStaticNarratorUnknownLocaleUsesEnglish(t *testing.T) {
	res, _ := NewStaticNarrator().Narrate(context.Background(), sampleRequest("fr"))
	if res.Metadata["locale"] != "en" {
		t.Fatalf("locale = %q, want en", res.Metadata["locale"])
	}
}

func TestStaticNarratorLeadsWithRetentionWhenAtRisk(t *testing.T) {
	agg := scoring.DonorAggregate{DonationCount: 1, TotalGiven: 50, DaysSinceLastGift: 800, TypicalGivingFrequencyDays: 365, AverageGiftTrend: scoring.TrendStable}
	req := NarrateRequest{
		Aggregate:  agg,
		Engagement: scoring.ScoreEngagement(agg),
		Lapse:      scoring.PredictLapseRisk(scoring.LapseInputFrom(agg)),
	}
	res, _ := NewStaticNarrator().Narrate(context.Background(), req)
	if res.NextSteps[0] != "Make an urgent personal call" {
		t.Fatalf("NextSteps = %#v", res.NextSteps)
	}
}

func TestExtractJSONFragment(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "Sure! {\"a\":1} hope so", want: `{"a":1}`},
		{in: "  ", want: ""},
		{in: "```\n[1,2]\n```", want: "[1,2]"},
	}
	for _, tc := range cases {
		if got := extractJSONFragment(tc.in); got != tc.want {
			t.Fatalf("extractJSONFragment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeSteps(t *testing.T) {
	got := normalizeSteps([]string{" Call ", "call", "", "Write", "a", "b", "c", "d"}, nil)
	want := []string{"Call", "Write", "a", "b", "c"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("normalizeSteps = %#v, want %#v", got, want)
	}
	if got := normalizeSteps(nil, []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("fallback not applied: %#v", got)
	}
}
