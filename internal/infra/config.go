package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Narrative providers accepted by NARRATIVE_PROVIDER.
const (
	NarrativeStatic = "static"
	NarrativeOpenAI = "openai"
	NarrativeGemini = "gemini"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	DBSchema           string
	RedisURL           string
	GeoIPDBPath        string
	ScoringConfigPath  string
	CORSAllowedOrigins []string
	NarrativeProvider  string
	NarrativeCacheTTL  time.Duration
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIOrg          string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	ProspectPoolLimit  int
	ScorecardTimeout   time.Duration
	NarrativeTimeout   time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBSchema:           strings.TrimSpace(os.Getenv("DB_SCHEMA")),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		ScoringConfigPath:  strings.TrimSpace(os.Getenv("SCORING_CONFIG_PATH")),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		NarrativeProvider:  strings.ToLower(getEnv("NARRATIVE_PROVIDER", NarrativeStatic)),
		NarrativeCacheTTL:  time.Second * time.Duration(getEnvInt("NARRATIVE_CACHE_TTL_SECONDS", 3600)),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		ProspectPoolLimit:  getEnvInt("PROSPECT_POOL_LIMIT", 500),
		ScorecardTimeout:   time.Second * time.Duration(getEnvInt("SCORECARD_TIMEOUT_SECONDS", 5)),
		NarrativeTimeout:   time.Second * time.Duration(getEnvInt("NARRATIVE_TIMEOUT_SECONDS", 20)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	switch cfg.NarrativeProvider {
	case NarrativeStatic, NarrativeOpenAI, NarrativeGemini:
	default:
		return nil, fmt.Errorf("NARRATIVE_PROVIDER must be one of static, openai, gemini; got %q", cfg.NarrativeProvider)
	}

	if cfg.ProspectPoolLimit <= 0 {
		return nil, fmt.Errorf("PROSPECT_POOL_LIMIT must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
