package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Narrator
	OnFallback func(reason string, err error)
}

// GeminiNarrator writes narratives with the generateContent API.
type GeminiNarrator struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	fallback   Narrator
	onFallback func(reason string, err error)
}

const geminiDefaultTimeout = 15 * time.Second

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// NewGeminiNarrator builds the narrator. An empty API key is accepted; every
// call then falls back with reason missing_api_key.
func NewGeminiNarrator(opts GeminiOptions) *GeminiNarrator {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiNarrator{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      model,
		baseURL:    baseURL,
		client:     client,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}
}

func (g *GeminiNarrator) Narrate(ctx context.Context, req NarrateRequest) (*Narrative, error) {
	if g.apiKey == "" {
		return g.useFallback(ctx, req, "missing_api_key", nil)
	}
	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: narrativeSystemPrompt}}},
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildNarrativePrompt(req)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.4,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return g.useFallback(ctx, req, "encode_request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return g.useFallback(ctx, req, "build_request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return g.useFallback(ctx, req, "http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return g.useFallback(ctx, req, fmt.Sprintf("http_%d", resp.StatusCode), fmt.Errorf("gemini status %d", resp.StatusCode))
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return g.useFallback(ctx, req, "decode_response", err)
	}
	if len(out.Candidates) == 0 {
		return g.useFallback(ctx, req, "empty_choices", errors.New("no candidates"))
	}
	text := extractGeminiText(out)
	if text == "" {
		return g.useFallback(ctx, req, "empty_response", errors.New("empty response"))
	}
	parsed, err := parseModelPayload[modelNarrativePayload](text)
	if err != nil {
		return g.useFallback(ctx, req, "parse_payload", err)
	}
	base, _ := NewStaticNarrator().Narrate(ctx, req)
	return fromModel(parsed, base, req.Locale, geminiProviderName), nil
}

func (g *GeminiNarrator) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func extractGeminiText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func (g *GeminiNarrator) useFallback(ctx context.Context, req NarrateRequest, reason string, err error) (*Narrative, error) {
	if g.onFallback != nil {
		g.onFallback(reason, err)
	}
	return useFallback(ctx, g.fallback, req, reason)
}

var _ Narrator = (*GeminiNarrator)(nil)
