package repository

import (
	"context"
	"time"

	"github.com/karthikrshet/nexora-share-service/internal/model"
)

// ShareLinkRepository is the durable ShareLink store. RecordClick must update
// the total, both breakdown maps, and the last-click timestamp atomically
// with respect to concurrent calls for the same short id.
type ShareLinkRepository interface {
	Create(ctx context.Context, link *model.ShareLink) error
	Resolve(ctx context.Context, shortID string) (*model.Resolution, error)
	GetByShortID(ctx context.Context, shortID string) (*model.ShareLink, error)
	RecordClick(ctx context.Context, shortID, referrerKey, platformKey string, at time.Time) error

	CountLinks(ctx context.Context) (int64, error)
	SumClicks(ctx context.Context) (int64, error)
	TopByClicks(ctx context.Context, limit int) ([]model.ShareLink, error)
	MostRecent(ctx context.Context, limit int) ([]model.ShareLink, error)
}
