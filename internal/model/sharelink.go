package model

import "time"

// Platform classes used as keys in Analytics.ByPlatform.
const (
	PlatformMobile  = "mobile"
	PlatformDesktop = "desktop"
	PlatformUnknown = "unknown"
)

// ReferrerDirect is the bucket used when a redirect request carries no
// Referer header.
const ReferrerDirect = "direct"

// Analytics is the per-link click aggregate. Clicks always equals the sum of
// ByReferrer values and the sum of ByPlatform values; the store updates all
// three together.
type Analytics struct {
	Clicks      int64            `json:"clicks"`
	ByReferrer  map[string]int64 `json:"byReferrer"`
	ByPlatform  map[string]int64 `json:"byPlatform"`
	LastClickAt *time.Time       `json:"lastClickAt"`
}

// ShareLink is a short link plus its analytics counters. ShortID is unique
// and immutable once created; only the analytics aggregate changes after
// creation.
type ShareLink struct {
	ID          int64          `json:"id"`
	ShortID     string         `json:"shortId"`
	OriginalURL string         `json:"originalUrl"`
	AppID       *string        `json:"appId,omitempty"`
	CreatedBy   *string        `json:"createdBy,omitempty"`
	ExpiresAt   *time.Time     `json:"expiresAt"`
	Meta        map[string]any `json:"meta"`
	Analytics   Analytics      `json:"analytics"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Resolution carries the fields the redirect path needs. They are immutable
// after creation, which is what makes the resolution cacheable.
type Resolution struct {
	ShortID     string     `json:"shortId"`
	OriginalURL string     `json:"originalUrl"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

type CreateShareLinkRequest struct {
	URL           string         `json:"url" binding:"required"`
	AppID         *string        `json:"appId"`
	ExpiresInDays *int           `json:"expiresInDays"`
	Meta          map[string]any `json:"meta"`
}

type CreateShareLinkResponse struct {
	OK       bool   `json:"ok"`
	ShortURL string `json:"shortUrl"`
	ID       int64  `json:"id"`
	ShortID  string `json:"shortId"`
}

type TrackRequest struct {
	AppID string `json:"appId"`
	Kind  string `json:"kind"`
}

// ShareOverview is the admin summary aggregate.
type ShareOverview struct {
	TotalShortLinks int64 `json:"totalShortLinks"`
	TotalClicks     int64 `json:"totalClicks"`
}
