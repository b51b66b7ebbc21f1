package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/domain/providers"
	"github.com/yangonbites/platform/internal/infrastructure/observability"
)

const (
	unreadCacheFamily = "unread_count"

	// generation markers must outlive any cached count they guard
	unreadGenerationTTLSecs = 3600
)

func customerUnreadKey(customerID string) string {
	return "notifications:unread:customer:" + customerID
}

func restaurantUnreadKey(restaurantID string) string {
	return "notifications:unread:restaurant:" + restaurantID
}

func generationKey(key string) string {
	return key + ":gen"
}

// readThroughCount serves key from the cache or stores the result of load.
// A count loaded while an invalidation ran is dropped again after the write,
// since load may have read the store before the change committed.
func readThroughCount(ctx context.Context, cache providers.CacheProvider, metrics *observability.Metrics, key string, ttl int, load func() (int, error)) (int, error) {
	if cache == nil {
		return load()
	}

	data, err := cache.Get(ctx, key)
	if err == nil {
		if count, convErr := strconv.Atoi(string(data)); convErr == nil {
			observability.RecordCacheLookup(ctx, metrics, unreadCacheFamily, true)
			return count, nil
		}
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("unread count cache lookup failed")
	}
	observability.RecordCacheLookup(ctx, metrics, unreadCacheFamily, false)

	before, genErr := generation(ctx, cache, key)

	count, err := load()
	if err != nil {
		return 0, err
	}
	if genErr != nil {
		return count, nil
	}

	if err := cache.Set(ctx, key, []byte(strconv.Itoa(count)), ttl); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache unread count")
		return count, nil
	}

	if after, err := generation(ctx, cache, key); err != nil || after != before {
		if err := cache.Delete(ctx, key); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to drop superseded unread count")
		}
	}
	return count, nil
}

// invalidateCount bumps the generation before deleting, so a concurrent
// readThroughCount either loads after the change or notices the bump.
func invalidateCount(ctx context.Context, cache providers.CacheProvider, key string) {
	if cache == nil {
		return
	}
	if err := cache.Set(ctx, generationKey(key), []byte(uuid.NewString()), unreadGenerationTTLSecs); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to bump unread count generation")
	}
	if err := cache.Delete(ctx, key); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to invalidate unread count")
	}
}

func generation(ctx context.Context, cache providers.CacheProvider, key string) (string, error) {
	data, err := cache.Get(ctx, generationKey(key))
	if errors.Is(err, providers.ErrCacheMiss) {
		return "", nil
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("unread count generation lookup failed")
		return "", err
	}
	return string(data), nil
}
