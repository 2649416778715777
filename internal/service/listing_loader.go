package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/linemk/agri-market/internal/cache"
	"github.com/linemk/agri-market/internal/domain/models"
)

type ListingFetcher interface {
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
}

type ListingCache interface {
	Get(ctx context.Context, id int64) (*models.Listing, error)
	Set(ctx context.Context, l *models.Listing) error
	Delete(ctx context.Context, id int64) error
}

// ListingLoader отдаёт объявление из кэша, а при промахе идёт в upstream.
// Одновременные запросы одного id склеиваются в один поход.
// Объявления публичны, поэтому общий кэш для всех пользователей допустим.
type ListingLoader struct {
	log   *slog.Logger
	api   ListingFetcher
	cache ListingCache
	group singleflight.Group
}

// NewListingLoader; listingCache может быть nil, тогда кэш не используется.
func NewListingLoader(log *slog.Logger, api ListingFetcher, listingCache ListingCache) *ListingLoader {
	return &ListingLoader{log: log, api: api, cache: listingCache}
}

func (l *ListingLoader) Load(ctx context.Context, id int64) (*models.Listing, error) {
	const op = "service.ListingLoader.Load"
	logger := l.log.With(slog.String("op", op), slog.Int64("listingID", id))

	if l.cache != nil {
		cached, err := l.cache.Get(ctx, id)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("listing cache get failed", slog.Any("error", err))
		}
	}

	v, err, shared := l.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		// отмена одного ожидающего не должна ронять запрос остальным
		fctx := context.WithoutCancel(ctx)
		fetched, err := l.api.GetListing(fctx, id)
		if err != nil {
			return nil, err
		}
		if l.cache != nil {
			if err := l.cache.Set(fctx, fetched); err != nil {
				logger.Warn("listing cache set failed", slog.Any("error", err))
			}
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("listing fetch shared")
	}
	// каждому вызывающему своя копия
	return v.(*models.Listing).Clone(), nil
}

// Invalidate выбрасывает объявление из кэша.
func (l *ListingLoader) Invalidate(ctx context.Context, id int64) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, id); err != nil {
		l.log.Warn("listing cache delete failed", slog.Int64("listingID", id), slog.Any("error", err))
	}
}
