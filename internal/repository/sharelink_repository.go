package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/karthikrshet/nexora-share-service/internal/errors"
	"github.com/karthikrshet/nexora-share-service/internal/model"
)

type PostgresShareLinkRepository struct {
	db *sql.DB
}

func NewPostgresShareLinkRepository(db *sql.DB) ShareLinkRepository {
	return &PostgresShareLinkRepository{
		db: db,
	}
}

func (r *PostgresShareLinkRepository) Create(ctx context.Context, link *model.ShareLink) error {
	query := `
	INSERT INTO share_links (short_id, original_url, app_id, created_by, expires_at, meta, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	ON CONFLICT (short_id) DO NOTHING
	RETURNING id
	`

	meta := link.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal meta: %w", err)
	}

	err = r.db.QueryRowContext(
		ctx,
		query,
		link.ShortID,
		link.OriginalURL,
		link.AppID,
		link.CreatedBy,
		link.ExpiresAt,
		metaJSON,
		link.CreatedAt,
	).Scan(&link.ID)

	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrShortIDExists
	}

	if err != nil {
		return apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to create share link",
			err,
		)
	}

	return nil
}

func (r *PostgresShareLinkRepository) Resolve(ctx context.Context, shortID string) (*model.Resolution, error) {
	query := `
	SELECT short_id, original_url, expires_at
	FROM share_links
	WHERE short_id = $1
	`

	res := &model.Resolution{}
	var expiresAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, shortID).Scan(
		&res.ShortID,
		&res.OriginalURL,
		&expiresAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("share link '%s': %w", shortID, apperrors.ErrLinkNotFound)
	}

	if err != nil {
		return nil, apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to resolve short id",
			err,
		)
	}

	if expiresAt.Valid {
		res.ExpiresAt = &expiresAt.Time
	}

	return res, nil
}

func (r *PostgresShareLinkRepository) GetByShortID(ctx context.Context, shortID string) (*model.ShareLink, error) {
	query := selectShareLink + ` WHERE short_id = $1`

	link, err := scanShareLink(r.db.QueryRowContext(ctx, query, shortID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("share link '%s': %w", shortID, apperrors.ErrLinkNotFound)
	}

	if err != nil {
		return nil, apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to get share link",
			err,
		)
	}

	return link, nil
}

// RecordClick bumps the total, both breakdown maps, and the last-click
// timestamp in one statement. Row-level atomicity keeps the three counters
// mutually consistent under concurrent redirects of the same link.
func (r *PostgresShareLinkRepository) RecordClick(ctx context.Context, shortID, referrerKey, platformKey string, at time.Time) error {
	query := `
	UPDATE share_links
	SET analytics_clicks = analytics_clicks + 1,
	    analytics_by_referrer = jsonb_set(analytics_by_referrer, ARRAY[$2],
	        to_jsonb(COALESCE((analytics_by_referrer->>$2)::bigint, 0) + 1)),
	    analytics_by_platform = jsonb_set(analytics_by_platform, ARRAY[$3],
	        to_jsonb(COALESCE((analytics_by_platform->>$3)::bigint, 0) + 1)),
	    analytics_last_click_at = $4,
	    updated_at = $4
	WHERE short_id = $1
	RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, shortID, referrerKey, platformKey, at).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("share link '%s': %w", shortID, apperrors.ErrLinkNotFound)
	}

	if err != nil {
		return apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to record click",
			err,
		)
	}

	return nil
}

func (r *PostgresShareLinkRepository) CountLinks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM share_links`).Scan(&count)
	if err != nil {
		return 0, apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to count share links",
			err,
		)
	}

	return count, nil
}

func (r *PostgresShareLinkRepository) SumClicks(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(analytics_clicks), 0) FROM share_links`).Scan(&sum)
	if err != nil {
		return 0, apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to sum clicks",
			err,
		)
	}

	return sum, nil
}

func (r *PostgresShareLinkRepository) TopByClicks(ctx context.Context, limit int) ([]model.ShareLink, error) {
	query := selectShareLink + ` ORDER BY analytics_clicks DESC LIMIT $1`
	return r.queryShareLinks(ctx, query, limit)
}

func (r *PostgresShareLinkRepository) MostRecent(ctx context.Context, limit int) ([]model.ShareLink, error) {
	query := selectShareLink + ` ORDER BY created_at DESC LIMIT $1`
	return r.queryShareLinks(ctx, query, limit)
}

func (r *PostgresShareLinkRepository) queryShareLinks(ctx context.Context, query string, args ...any) ([]model.ShareLink, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to query share links",
			err,
		)
	}
	defer rows.Close()

	links := []model.ShareLink{}
	for rows.Next() {
		link, err := scanShareLink(rows)
		if err != nil {
			return nil, apperrors.NewBusinessError(
				"DATABASE_ERROR",
				"failed to scan share link",
				err,
			)
		}
		links = append(links, *link)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to read share links",
			err,
		)
	}

	return links, nil
}

const selectShareLink = `
	SELECT id, short_id, original_url, app_id, created_by, expires_at, meta,
	       analytics_clicks, analytics_by_referrer, analytics_by_platform,
	       analytics_last_click_at, created_at, updated_at
	FROM share_links`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShareLink(row rowScanner) (*model.ShareLink, error) {
	link := &model.ShareLink{}
	var (
		appID       sql.NullString
		createdBy   sql.NullString
		expiresAt   sql.NullTime
		lastClickAt sql.NullTime
		metaJSON    []byte
		byReferrer  []byte
		byPlatform  []byte
	)

	err := row.Scan(
		&link.ID,
		&link.ShortID,
		&link.OriginalURL,
		&appID,
		&createdBy,
		&expiresAt,
		&metaJSON,
		&link.Analytics.Clicks,
		&byReferrer,
		&byPlatform,
		&lastClickAt,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if appID.Valid {
		link.AppID = &appID.String
	}
	if createdBy.Valid {
		link.CreatedBy = &createdBy.String
	}
	if expiresAt.Valid {
		link.ExpiresAt = &expiresAt.Time
	}
	if lastClickAt.Valid {
		link.Analytics.LastClickAt = &lastClickAt.Time
	}

	if err := json.Unmarshal(metaJSON, &link.Meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meta: %w", err)
	}
	if err := json.Unmarshal(byReferrer, &link.Analytics.ByReferrer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal referrer breakdown: %w", err)
	}
	if err := json.Unmarshal(byPlatform, &link.Analytics.ByPlatform); err != nil {
		return nil, fmt.Errorf("failed to unmarshal platform breakdown: %w", err)
	}

	return link, nil
}
