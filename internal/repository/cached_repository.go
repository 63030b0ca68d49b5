package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/karthikrshet/nexora-share-service/internal/cache"
	"github.com/karthikrshet/nexora-share-service/internal/model"
)

// CachedShareLinkRepository decorates the Postgres store with a Redis cache
// for redirect resolutions. Only the immutable resolution fields (short id,
// target URL, expiry) are cached, so click recording never needs to
// invalidate anything. Cache failures degrade to the database.
type CachedShareLinkRepository struct {
	inner ShareLinkRepository
	cache *cache.RedisClient
	log   zerolog.Logger
}

func NewCachedShareLinkRepository(inner ShareLinkRepository, cache *cache.RedisClient, log zerolog.Logger) ShareLinkRepository {
	return &CachedShareLinkRepository{
		inner: inner,
		cache: cache,
		log:   log,
	}
}

func (r *CachedShareLinkRepository) Create(ctx context.Context, link *model.ShareLink) error {
	if err := r.inner.Create(ctx, link); err != nil {
		return err
	}

	res := &model.Resolution{
		ShortID:     link.ShortID,
		OriginalURL: link.OriginalURL,
		ExpiresAt:   link.ExpiresAt,
	}
	key := r.cache.Keys().Resolution(link.ShortID)
	if err := r.cache.Set(ctx, key, res); err != nil {
		r.log.Warn().Err(err).Str("short_id", link.ShortID).Msg("failed to cache resolution")
	}

	return nil
}

func (r *CachedShareLinkRepository) Resolve(ctx context.Context, shortID string) (*model.Resolution, error) {
	key := r.cache.Keys().Resolution(shortID)

	var cached model.Resolution
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}

	if err != cache.ErrCacheMiss {
		r.log.Warn().Err(err).Str("short_id", shortID).Msg("cache error, falling back to database")
	}

	res, err := r.inner.Resolve(ctx, shortID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, res); err != nil {
		r.log.Warn().Err(err).Str("short_id", shortID).Msg("failed to cache resolution")
	}

	return res, nil
}

func (r *CachedShareLinkRepository) GetByShortID(ctx context.Context, shortID string) (*model.ShareLink, error) {
	return r.inner.GetByShortID(ctx, shortID)
}

func (r *CachedShareLinkRepository) RecordClick(ctx context.Context, shortID, referrerKey, platformKey string, at time.Time) error {
	return r.inner.RecordClick(ctx, shortID, referrerKey, platformKey, at)
}

func (r *CachedShareLinkRepository) CountLinks(ctx context.Context) (int64, error) {
	return r.inner.CountLinks(ctx)
}

func (r *CachedShareLinkRepository) SumClicks(ctx context.Context) (int64, error) {
	return r.inner.SumClicks(ctx)
}

func (r *CachedShareLinkRepository) TopByClicks(ctx context.Context, limit int) ([]model.ShareLink, error) {
	return r.inner.TopByClicks(ctx, limit)
}

func (r *CachedShareLinkRepository) MostRecent(ctx context.Context, limit int) ([]model.ShareLink, error) {
	return r.inner.MostRecent(ctx, limit)
}
