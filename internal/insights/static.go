package insights

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"donorcrm/internal/scoring"
)

// Supported narrative locales.
const (
	LocaleEnglish = "en"
	LocaleSpanish = "es"
)

type localeText struct {
	tag        language.Tag
	headline   string
	summary    string
	trend      map[scoring.GivingTrend]string
	engagement map[scoring.EngagementLevel]string
	risk       map[scoring.RiskLevel]string
}

var localeTexts = map[string]localeText{
	LocaleEnglish: {
		tag:      language.English,
		headline: "%s engagement, %s lapse risk",
		summary: "Donor %s has made %d gifts totalling $%.0f; the last one was %d days ago against a typical cadence of %d days. " +
			"Giving is %s. Engagement scores %d (%s) and lapse risk is %s at %d%%.",
		trend: map[scoring.GivingTrend]string{
			scoring.TrendIncreasing: "increasing",
			scoring.TrendStable:     "stable",
			scoring.TrendDecreasing: "decreasing",
		},
		engagement: map[scoring.EngagementLevel]string{
			scoring.EngagementHigh:   "high",
			scoring.EngagementMedium: "medium",
			scoring.EngagementLow:    "low",
			scoring.EngagementAtRisk: "at-risk",
		},
		risk: map[scoring.RiskLevel]string{
			scoring.RiskHigh:   "high",
			scoring.RiskMedium: "medium",
			scoring.RiskLow:    "low",
		},
	},
	LocaleSpanish: {
		tag:      language.Spanish,
		headline: "compromiso %s, riesgo de abandono %s",
		summary: "El donante %s ha realizado %d donaciones por un total de $%.0f; la última fue hace %d días frente a una cadencia habitual de %d días. " +
			"Las donaciones están %s. El compromiso puntúa %d (%s) y el riesgo de abandono es %s con un %d%%.",
		trend: map[scoring.GivingTrend]string{
			scoring.TrendIncreasing: "en aumento",
			scoring.TrendStable:     "estables",
			scoring.TrendDecreasing: "en descenso",
		},
		engagement: map[scoring.EngagementLevel]string{
			scoring.EngagementHigh:   "alto",
			scoring.EngagementMedium: "medio",
			scoring.EngagementLow:    "bajo",
			scoring.EngagementAtRisk: "en riesgo",
		},
		risk: map[scoring.RiskLevel]string{
			scoring.RiskHigh:   "alto",
			scoring.RiskMedium: "medio",
			scoring.RiskLow:    "bajo",
		},
	},
}

// NormalizeLocale maps any locale to a supported one, defaulting to English.
func NormalizeLocale(locale string) string {
	if _, ok := localeTexts[locale]; ok {
		return locale
	}
	return LocaleEnglish
}

// StaticNarrator renders fixed templates. It is deterministic and never fails.
type StaticNarrator struct{}

func NewStaticNarrator() *StaticNarrator {
	return &StaticNarrator{}
}

func (s *StaticNarrator) Narrate(ctx context.Context, req NarrateRequest) (*Narrative, error) {
	locale := NormalizeLocale(req.Locale)
	text := localeTexts[locale]
	p := message.NewPrinter(text.tag)
	agg := req.Aggregate

	engagement := text.engagement[req.Engagement.Level]
	risk := text.risk[req.Lapse.RiskLevel]

	return &Narrative{
		Headline: cases.Title(text.tag).String(p.Sprintf(text.headline, engagement, risk)),
		Summary: p.Sprintf(text.summary,
			coalesce(req.DonorRef, "-"), agg.DonationCount, agg.TotalGiven,
			agg.DaysSinceLastGift, agg.TypicalGivingFrequencyDays,
			text.trend[agg.AverageGiftTrend],
			req.Engagement.Score, engagement, risk, req.Lapse.Probability),
		NextSteps: defaultNextSteps(req),
		Metadata:  map[string]string{"locale": locale},
		Provider:  staticProviderName,
	}, nil
}

// defaultNextSteps interleaves the top retention actions with the top
// engagement recommendations, retention first when risk is not low.
func defaultNextSteps(req NarrateRequest) []string {
	first, second := req.Engagement.Recommendations, req.Lapse.RetentionActions
	if req.Lapse.RiskLevel != scoring.RiskLow {
		first, second = second, first
	}
	var steps []string
	for i := 0; i < 2; i++ {
		if i < len(first) {
			steps = append(steps, first[i])
		}
		if i < len(second) {
			steps = append(steps, second[i])
		}
	}
	return normalizeSteps(steps, nil)
}

var _ Narrator = (*StaticNarrator)(nil)
