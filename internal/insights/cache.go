package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores serialized narratives.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache adapts a go-redis client to Cache.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "donorcrm:narrative:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

type CachedOptions struct {
	TTL    time.Duration
	Logger zerolog.Logger
	// OnResult receives hit, miss or error for each lookup.
	OnResult func(result string)
}

// CachedNarrator memoizes narratives from next. Cache failures are logged and
// otherwise ignored. Fallback narratives are not stored so a recovered
// provider is used on the next request.
type CachedNarrator struct {
	next     Narrator
	cache    Cache
	ttl      time.Duration
	logger   zerolog.Logger
	onResult func(string)
}

func NewCachedNarrator(next Narrator, cache Cache, opts CachedOptions) *CachedNarrator {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedNarrator{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		logger:   opts.Logger,
		onResult: opts.OnResult,
	}
}

func (c *CachedNarrator) Narrate(ctx context.Context, req NarrateRequest) (*Narrative, error) {
	key, err := cacheKey(req)
	if err != nil {
		return c.next.Narrate(ctx, req)
	}

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var cached Narrative
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			c.report("hit")
			if cached.Metadata == nil {
				cached.Metadata = map[string]string{}
			}
			cached.Metadata["cache"] = "hit"
			return &cached, nil
		}
		c.report("error")
		c.logger.Warn().Str("donor_ref", req.DonorRef).Msg("insights: discarding undecodable cache entry")
	case errors.Is(err, ErrCacheMiss):
		c.report("miss")
	default:
		c.report("error")
		c.logger.Warn().Err(err).Str("donor_ref", req.DonorRef).Msg("insights: cache lookup failed")
	}

	res, err := c.next.Narrate(ctx, req)
	if err != nil || res == nil {
		return res, err
	}
	if _, fellBack := res.Metadata["fallback_reason"]; fellBack {
		return res, nil
	}

	encoded, err := json.Marshal(res)
	if err == nil {
		err = c.cache.Set(ctx, key, string(encoded), c.ttl)
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("donor_ref", req.DonorRef).Msg("insights: cache store failed")
	}
	return res, nil
}

func (c *CachedNarrator) report(result string) {
	if c.onResult != nil {
		c.onResult(result)
	}
}

// cacheKey hashes the full request so any score or locale change misses.
func cacheKey(req NarrateRequest) (string, error) {
	encoded, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

var _ Narrator = (*CachedNarrator)(nil)
