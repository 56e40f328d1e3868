package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RulesTTL bounds staleness of cached effective community rules; settings
// PATCHes invalidate eagerly, the TTL only covers missed invalidations.
const RulesTTL = 5 * time.Minute

// RulesKey is the cache key for a community's resolved rule set.
func RulesKey(communityID uint) string {
	return fmt.Sprintf("community:%d:rules", communityID)
}

// Aside implements the cache-aside pattern: on hit, unmarshal into dest; on
// miss, call load (which must fill dest) and store the result. A nil or
// unreachable Redis client degrades to calling load directly.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if client == nil {
		return load()
	}

	raw, err := client.Get(ctx, key).Result()
	if err == nil {
		if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry: fall through to reload and overwrite.
	} else if err != redis.Nil {
		return load()
	}

	if err := load(); err != nil {
		return err
	}

	if data, marshalErr := json.Marshal(dest); marshalErr == nil {
		client.Set(ctx, key, data, ttl)
	}
	return nil
}

// InvalidateRules drops the cached rule set for one community.
func InvalidateRules(ctx context.Context, communityID uint) {
	if client == nil {
		return
	}
	client.Del(ctx, RulesKey(communityID))
}
