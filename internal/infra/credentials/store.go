// Package credentials keeps narrative provider API keys in the
// integration_tokens table so operators can rotate them without a redeploy.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"donorcrm/internal/infra"
	"donorcrm/internal/sqlinline"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Supported reports whether provider has a stored key slot.
func Supported(provider string) bool {
	return provider == ProviderOpenAI || provider == ProviderGemini
}

type Store struct {
	sql infra.SQLExecutor
	now func() time.Time
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql, now: time.Now}
}

// Token returns the stored key for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// ResolveAPIKey prefers the configured key and falls back to the stored one.
func (s *Store) ResolveAPIKey(ctx context.Context, provider, configured string) (string, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, nil
	}
	return s.Token(ctx, provider)
}

// SetAPIKey stores key for provider, replacing any previous value.
func (s *Store) SetAPIKey(ctx context.Context, provider, key string) error {
	if !Supported(provider) {
		return fmt.Errorf("unsupported provider %q", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	return s.upsert(ctx, provider, key, map[string]any{
		"rotated_at": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
