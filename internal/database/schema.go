package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// The unique constraint on short_id is load-bearing: the creation service
// relies on ON CONFLICT reporting to retry identifier generation.
const schema = `
CREATE TABLE IF NOT EXISTS share_links (
	id                      BIGSERIAL PRIMARY KEY,
	short_id                TEXT        NOT NULL UNIQUE,
	original_url            TEXT        NOT NULL,
	app_id                  TEXT,
	created_by              TEXT,
	expires_at              TIMESTAMPTZ,
	meta                    JSONB       NOT NULL DEFAULT '{}'::jsonb,
	analytics_clicks        BIGINT      NOT NULL DEFAULT 0,
	analytics_by_referrer   JSONB       NOT NULL DEFAULT '{}'::jsonb,
	analytics_by_platform   JSONB       NOT NULL DEFAULT '{}'::jsonb,
	analytics_last_click_at TIMESTAMPTZ,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the share_links table if it does not exist.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}
