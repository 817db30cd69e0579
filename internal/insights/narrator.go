// Package insights turns computed donor scores into short human-readable
// narratives. Language model providers are optional: every provider falls back
// to the deterministic StaticNarrator, so a narrative is always produced.
package insights

import (
	"context"

	"donorcrm/internal/scoring"
)

// NarrateRequest carries the already computed results for one donor.
type NarrateRequest struct {
	DonorRef   string                   `json:"donor_ref"`
	Locale     string                   `json:"locale"`
	Aggregate  scoring.DonorAggregate   `json:"aggregate"`
	Engagement scoring.EngagementResult `json:"engagement"`
	Lapse      scoring.LapseRiskResult  `json:"lapse"`
}

// Narrative is a presentation of the scores. It never changes them.
type Narrative struct {
	Headline  string            `json:"headline"`
	Summary   string            `json:"summary"`
	NextSteps []string          `json:"next_steps"`
	Metadata  map[string]string `json:"metadata"`
	Provider  string            `json:"provider"`
}

type Narrator interface {
	Narrate(ctx context.Context, req NarrateRequest) (*Narrative, error)
}
