package service

import (
	"context"
	"strings"
	"time"

	"github.com/mssola/useragent"

	apperrors "github.com/karthikrshet/nexora-share-service/internal/errors"
	"github.com/karthikrshet/nexora-share-service/internal/model"
)

// Resolve looks up a short identifier and enforces expiry. An expired link
// keeps its record and analytics but no longer redirects.
func (s *ShareService) Resolve(ctx context.Context, shortID string) (*model.Resolution, error) {
	if shortID == "" {
		return nil, apperrors.NewValidationError("shortId", "short id cannot be empty")
	}

	res, err := s.repo.Resolve(ctx, shortID)
	if err != nil {
		return nil, err
	}

	if res.ExpiresAt != nil && time.Now().After(*res.ExpiresAt) {
		return nil, apperrors.ErrLinkExpired
	}

	return res, nil
}

// RecordClick classifies the request and increments the total, referrer, and
// platform counters in a single store operation. Callers treat this as
// best-effort relative to the redirect itself.
func (s *ShareService) RecordClick(ctx context.Context, shortID, referer, rawUA string) error {
	refKey := referrerKey(referer)
	platform := classifyPlatform(rawUA)

	if err := s.repo.RecordClick(ctx, shortID, refKey, platform, time.Now()); err != nil {
		return err
	}

	browser, osName, device := describeUserAgent(rawUA)
	s.log.Info().
		Str("short_id", shortID).
		Str("referrer", refKey).
		Str("platform", platform).
		Str("browser", browser).
		Str("os", osName).
		Str("device", device).
		Msg("click recorded")

	return nil
}

func referrerKey(referer string) string {
	if referer == "" {
		return model.ReferrerDirect
	}
	return referer
}

// classifyPlatform buckets a User-Agent for the platform counter. An empty
// header is "unknown"; any UA containing "mobile" (any case) is "mobile";
// everything else is "desktop".
func classifyPlatform(rawUA string) string {
	if rawUA == "" {
		return model.PlatformUnknown
	}
	if strings.Contains(strings.ToLower(rawUA), "mobile") {
		return model.PlatformMobile
	}
	return model.PlatformDesktop
}

// describeUserAgent enriches the click log; it plays no part in the counter
// keys.
func describeUserAgent(rawUA string) (browser, osName, device string) {
	if rawUA == "" {
		return "Unknown", "Unknown", "Unknown"
	}

	ua := useragent.New(rawUA)
	browser, _ = ua.Browser()
	osName = ua.OS()
	device = "Desktop"
	if ua.Mobile() {
		device = "Mobile"
	} else if ua.Bot() {
		device = "Bot"
	}

	return browser, osName, device
}
