package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Fallback     Narrator
	OnFallback   func(reason string, err error)
	OnWarning    func(reason, detail string)
}

// OpenAINarrator writes narratives with the chat completions API.
type OpenAINarrator struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
	fallback     Narrator
	onFallback   func(reason string, err error)
}

const openAIDefaultTimeout = 15 * time.Second

const defaultOpenAIModel = "gpt-4o-mini"

var openAIModelCanonical = map[string]string{
	"gpt-4o-mini":   "gpt-4o-mini",
	"gpt-4o":        "gpt-4o",
	"gpt-3.5-turbo": "gpt-3.5-turbo",
}

var openAIModelAliases = map[string]string{
	"gpt4o-mini":             "gpt-4o-mini",
	"gpt4omini":              "gpt-4o-mini",
	"gpt-4o-mini-2024-07-18": "gpt-4o-mini",
	"gpt4o":                  "gpt-4o",
	"gpt-3.5":                "gpt-3.5-turbo",
	"gpt-35-turbo":           "gpt-3.5-turbo",
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAINarrator builds the narrator. An empty API key is accepted; every
// call then falls back with reason missing_api_key.
func NewOpenAINarrator(opts OpenAIOptions) *OpenAINarrator {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	modelInput := strings.TrimSpace(opts.Model)
	model, reason := normalizeOpenAIModel(modelInput)
	if reason != "" && opts.OnWarning != nil {
		opts.OnWarning("model_"+reason, fmt.Sprintf("requested=%s resolved=%s", coalesce(modelInput, defaultOpenAIModel), model))
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAINarrator{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
		fallback:     opts.Fallback,
		onFallback:   opts.OnFallback,
	}
}

func (o *OpenAINarrator) Narrate(ctx context.Context, req NarrateRequest) (*Narrative, error) {
	if o.apiKey == "" {
		return o.useFallback(ctx, req, "missing_api_key", nil)
	}
	payload := openAIChatRequest{
		Model:          o.model,
		Temperature:    0.4,
		ResponseFormat: &openAIFormat{Type: "json_object"},
		Messages: []openAIMessage{
			{Role: "system", Content: narrativeSystemPrompt},
			{Role: "user", Content: buildNarrativePrompt(req)},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return o.useFallback(ctx, req, "encode_request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", &buf)
	if err != nil {
		return o.useFallback(ctx, req, "build_request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return o.useFallback(ctx, req, "http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return o.useFallback(ctx, req, fmt.Sprintf("http_%d", resp.StatusCode), fmt.Errorf("openai status %d", resp.StatusCode))
	}
	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return o.useFallback(ctx, req, "decode_response", err)
	}
	if len(out.Choices) == 0 {
		return o.useFallback(ctx, req, "empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return o.useFallback(ctx, req, "empty_response", errors.New("empty response"))
	}
	parsed, err := parseModelPayload[modelNarrativePayload](text)
	if err != nil {
		return o.useFallback(ctx, req, "parse_payload", err)
	}
	base, _ := NewStaticNarrator().Narrate(ctx, req)
	return fromModel(parsed, base, req.Locale, openAIProviderName), nil
}

func (o *OpenAINarrator) useFallback(ctx context.Context, req NarrateRequest, reason string, err error) (*Narrative, error) {
	if o.onFallback != nil {
		o.onFallback(reason, err)
	}
	return useFallback(ctx, o.fallback, req, reason)
}

var _ Narrator = (*OpenAINarrator)(nil)

func normalizeOpenAIModel(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return defaultOpenAIModel, ""
	}
	normalized := strings.ToLower(trimmed)
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	if canonical, ok := openAIModelCanonical[normalized]; ok {
		return canonical, ""
	}
	if alias, ok := openAIModelAliases[normalized]; ok {
		return alias, "alias"
	}
	return defaultOpenAIModel, "defaulted"
}
