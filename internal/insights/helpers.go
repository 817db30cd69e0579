package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	staticProviderName = "static"
	geminiProviderName = "gemini"
	openAIProviderName = "openai"
)

const maxNextSteps = 5

const narrativeSystemPrompt = "You are a fundraising strategist writing brief donor briefings for gift officers. " +
	"You only respond with valid JSON and never change the numbers you are given."

type modelNarrativePayload struct {
	Headline  string            `json:"headline"`
	Summary   string            `json:"summary"`
	NextSteps []string          `json:"next_steps"`
	Metadata  map[string]string `json:"metadata"`
}

func buildNarrativePrompt(req NarrateRequest) string {
	locale := NormalizeLocale(req.Locale)
	scores, _ := json.Marshal(struct {
		Aggregate  any `json:"aggregate"`
		Engagement any `json:"engagement"`
		Lapse      any `json:"lapse_risk"`
	}{req.Aggregate, req.Engagement, req.Lapse})

	sb := &strings.Builder{}
	sb.WriteString("Write a donor briefing. Respond strictly with JSON matching this schema: ")
	sb.WriteString(`{"headline":string,"summary":string,"next_steps":string[],"metadata":{"locale":string}}`)
	fmt.Fprintf(sb, ". Write in locale '%s'. Keep the headline under 10 words, the summary under 80 words and give at most %d next steps. ", locale, maxNextSteps)
	fmt.Fprintf(sb, "Donor reference: %q. Computed scores: %s", req.DonorRef, scores)
	return sb.String()
}

// fromModel merges a model payload with the static rendering so missing
// fields are filled deterministically.
func fromModel(parsed modelNarrativePayload, base *Narrative, locale, provider string) *Narrative {
	return &Narrative{
		Headline:  coalesce(parsed.Headline, base.Headline),
		Summary:   coalesce(parsed.Summary, base.Summary),
		NextSteps: normalizeSteps(parsed.NextSteps, base.NextSteps),
		Metadata:  ensureMetadata(parsed.Metadata, locale),
		Provider:  provider,
	}
}

// useFallback narrates with fallback (the static narrator when nil) and tags
// the result with the reason the primary provider was skipped.
func useFallback(ctx context.Context, fallback Narrator, req NarrateRequest, reason string) (*Narrative, error) {
	if fallback == nil {
		fallback = NewStaticNarrator()
	}
	res, err := fallback.Narrate(ctx, req)
	if res != nil {
		if res.Provider == "" {
			res.Provider = staticProviderName
		}
		if res.Metadata == nil {
			res.Metadata = map[string]string{}
		}
		if reason != "" {
			res.Metadata["fallback_reason"] = reason
		}
	}
	return res, err
}

func ensureMetadata(meta map[string]string, locale string) map[string]string {
	if meta == nil {
		meta = map[string]string{}
	}
	meta["locale"] = NormalizeLocale(locale)
	return meta
}

// normalizeSteps trims, drops empties and case-insensitive duplicates, and caps
// the list. An empty result is replaced by fallback.
func normalizeSteps(steps []string, fallback []string) []string {
	seen := make(map[string]struct{})
	result := []string{}
	for _, step := range steps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		key := strings.ToLower(step)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, step)
		if len(result) == maxNextSteps {
			break
		}
	}
	if len(result) == 0 && len(fallback) > 0 {
		result = append(result, fallback...)
	}
	return result
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func parseModelPayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
