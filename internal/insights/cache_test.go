package insights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	sets    int
	lastTTL time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.sets++
	m.lastTTL = ttl
	return nil
}

type countingNarrator struct {
	calls  int
	result *Narrative
}

func (c *countingNarrator) Narrate(ctx context.Context, req NarrateRequest) (*Narrative, error) {
	c.calls++
	cp := *c.result
	cp.Metadata = map[string]string{}
	for k, v := range c.result.Metadata {
		cp.Metadata[k] = v
	}
	return &cp, nil
}

func TestCachedNarratorHitAfterMiss(t *testing.T) {
	cache := newMemoryCache()
	next := &countingNarrator{result: &Narrative{Headline: "h", Summary: "s", NextSteps: []string{"a"}, Provider: openAIProviderName}}
	var results []string
	narrator := NewCachedNarrator(next, cache, CachedOptions{
		TTL:      10 * time.Minute,
		Logger:   zerolog.Nop(),
		OnResult: func(r string) { results = append(results, r) },
	})

	req := sampleRequest("en")
	first, err := narrator.Narrate(context.Background(), req)
	if err != nil {
		t.Fatalf("first Narrate: %v", err)
	}
	if first.Metadata["cache"] != "" {
		t.Fatalf("first call should not be a cache hit")
	}
	second, err := narrator.Narrate(context.Background(), req)
	if err != nil {
		t.Fatalf("second Narrate: %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("provider called %d times, want 1", next.calls)
	}
	if second.Headline != "h" || second.Provider != openAIProviderName || second.Metadata["cache"] != "hit" {
		t.Fatalf("unexpected cached narrative %#v", second)
	}
	if cache.lastTTL != 10*time.Minute {
		t.Fatalf("ttl = %s", cache.lastTTL)
	}
	if len(results) != 2 || results[0] != "miss" || results[1] != "hit" {
		t.Fatalf("results = %v", results)
	}

	other := sampleRequest("es")
	if _, err := narrator.Narrate(context.Background(), other); err != nil {
		t.Fatalf("Narrate other locale: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("locale change should miss the cache")
	}
}

func TestCachedNarratorSkipsFallbacks(t *testing.T) {
	cache := newMemoryCache()
	next := &countingNarrator{result: &Narrative{
		Headline: "h",
		Provider: staticProviderName,
		Metadata: map[string]string{"fallback_reason": "http_500"},
	}}
	narrator := NewCachedNarrator(next, cache, CachedOptions{Logger: zerolog.Nop()})

	for i := 0; i < 2; i++ {
		if _, err := narrator.Narrate(context.Background(), sampleRequest("en")); err != nil {
			t.Fatalf("Narrate: %v", err)
		}
	}
	if cache.sets != 0 {
		t.Fatalf("fallback narrative was cached %d times", cache.sets)
	}
	if next.calls != 2 {
		t.Fatalf("provider called %d times, want 2", next.calls)
	}
}

func TestCachedNarratorIgnoresCacheErrors(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	next := &countingNarrator{result: &Narrative{Headline: "h", Provider: geminiProviderName}}
	var results []string
	narrator := NewCachedNarrator(next, cache, CachedOptions{
		Logger:   zerolog.Nop(),
		OnResult: func(r string) { results = append(results, r) },
	})

	res, err := narrator.Narrate(context.Background(), sampleRequest("en"))
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if res.Headline != "h" || next.calls != 1 {
		t.Fatalf("unexpected result %#v after %d calls", res, next.calls)
	}
	if len(results) != 1 || results[0] != "error" {
		t.Fatalf("results = %v", results)
	}
	if cache.lastTTL != time.Hour {
		t.Fatalf("default ttl = %s", cache.lastTTL)
	}
}

func TestCachedNarratorDropsCorruptEntries(t *testing.T) {
	cache := newMemoryCache()
	req := sampleRequest("en")
	key, err := cacheKey(req)
	if err != nil {
		t.Fatalf("cacheKey: %v", err)
	}
	cache.entries[key] = "{not json"
	next := &countingNarrator{result: &Narrative{Headline: "fresh", Provider: openAIProviderName}}
	narrator := NewCachedNarrator(next, cache, CachedOptions{Logger: zerolog.Nop()})

	res, err := narrator.Narrate(context.Background(), req)
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if res.Headline != "fresh" || cache.entries[key] == "{not json" {
		t.Fatalf("corrupt entry was not replaced")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	cache := NewRedisCache(client, "")
	if cache.prefix != "donorcrm:narrative:" {
		t.Fatalf("prefix = %q", cache.prefix)
	}

	_, err := cache.Get(context.Background(), "k")
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected connection error, got %v", err)
	}
}
