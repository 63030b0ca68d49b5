package service

import (
	"fmt"
	"net/url"

	apperrors "github.com/karthikrshet/nexora-share-service/internal/errors"
)

// validateTargetURL requires an http/https URL with a host. This is stricter
// than accepting any non-empty string; redirect targets that cannot be
// parsed would otherwise fail only at click time.
func validateTargetURL(rawURL string) error {
	if rawURL == "" {
		return apperrors.NewValidationError("url", "url is required")
	}

	if len(rawURL) > 2048 {
		return apperrors.NewValidationError("url", "url is too long (max 2048 characters)")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.NewValidationError("url", fmt.Sprintf("invalid url format: %v", err))
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return apperrors.NewValidationError("url", "url must start with http:// or https://")
	}

	if parsed.Host == "" {
		return apperrors.NewValidationError("url", "url must contain a valid host")
	}

	return nil
}
