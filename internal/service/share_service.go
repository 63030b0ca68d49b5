package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/karthikrshet/nexora-share-service/internal/errors"
	"github.com/karthikrshet/nexora-share-service/internal/model"
	"github.com/karthikrshet/nexora-share-service/internal/repository"
	"github.com/karthikrshet/nexora-share-service/internal/shortid"
)

const (
	maxCreateRetries  = 5
	defaultExpiryDays = 30
)

type ShareService struct {
	repo    repository.ShareLinkRepository
	baseURL string
	log     zerolog.Logger
}

func NewShareService(repo repository.ShareLinkRepository, baseURL string, log zerolog.Logger) *ShareService {
	return &ShareService{
		repo:    repo,
		baseURL: baseURL,
		log:     log,
	}
}

// CreateLink validates the request, generates a short identifier, and
// persists a new link with zeroed analytics. A uniqueness conflict from the
// store is retriable: the identifier space is large enough that collisions
// are vanishingly rare, but they are not impossible.
func (s *ShareService) CreateLink(ctx context.Context, req *model.CreateShareLinkRequest, createdBy *string) (*model.CreateShareLinkResponse, error) {
	if err := validateTargetURL(req.URL); err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := expiryFrom(now, req.ExpiresInDays)

	meta := req.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	for attempt := 0; attempt < maxCreateRetries; attempt++ {
		id, err := shortid.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate short id: %w", err)
		}

		link := &model.ShareLink{
			ShortID:     id,
			OriginalURL: req.URL,
			AppID:       req.AppID,
			CreatedBy:   createdBy,
			ExpiresAt:   expiresAt,
			Meta:        meta,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err = s.repo.Create(ctx, link)
		if err == nil {
			return &model.CreateShareLinkResponse{
				OK:       true,
				ShortURL: s.buildShortURL(link.ShortID),
				ID:       link.ID,
				ShortID:  link.ShortID,
			}, nil
		}

		if errors.Is(err, apperrors.ErrShortIDExists) {
			s.log.Warn().Str("short_id", id).Int("attempt", attempt+1).Msg("short id collision, regenerating")
			continue
		}

		return nil, fmt.Errorf("failed to create share link: %w", err)
	}

	return nil, fmt.Errorf("all %d attempts collided: %w", maxCreateRetries, apperrors.ErrShortIDExhausted)
}

// expiryFrom implements the source's truthiness semantics: omitted means the
// 30 day default, an explicit zero means no expiry, anything else (including
// negative values) is added to now.
func expiryFrom(now time.Time, days *int) *time.Time {
	d := defaultExpiryDays
	if days != nil {
		d = *days
	}
	if d == 0 {
		return nil
	}
	t := now.Add(time.Duration(d) * 24 * time.Hour)
	return &t
}

func (s *ShareService) buildShortURL(shortID string) string {
	return fmt.Sprintf("%s/s/%s", s.baseURL, shortID)
}
