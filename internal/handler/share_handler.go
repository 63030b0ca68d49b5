package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/karthikrshet/nexora-share-service/internal/auth"
	apperrors "github.com/karthikrshet/nexora-share-service/internal/errors"
	"github.com/karthikrshet/nexora-share-service/internal/model"
)

// ShareLinkService is what the share endpoints need from the service layer.
type ShareLinkService interface {
	CreateLink(ctx context.Context, req *model.CreateShareLinkRequest, createdBy *string) (*model.CreateShareLinkResponse, error)
	Resolve(ctx context.Context, shortID string) (*model.Resolution, error)
	RecordClick(ctx context.Context, shortID, referer, rawUA string) error
}

type ShareHandler struct {
	shares ShareLinkService
	log    zerolog.Logger
}

func NewShareHandler(shares ShareLinkService, log zerolog.Logger) *ShareHandler {
	return &ShareHandler{
		shares: shares,
		log:    log,
	}
}

// Create handles POST /api/share.
func (h *ShareHandler) Create(c *gin.Context) {
	var req model.CreateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url required"})
		return
	}

	var createdBy *string
	if principal, ok := auth.FromContext(c); ok {
		createdBy = &principal.UserID
	}

	response, err := h.shares.CreateLink(c.Request.Context(), &req, createdBy)
	if err != nil {
		if apperrors.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.GetValidationError(err).Message})
			return
		}

		h.log.Error().Err(err).Msg("create share link failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Track handles POST /api/share/track. The event is acknowledged and logged;
// there is no durable write behind it.
func (h *ShareHandler) Track(c *gin.Context) {
	var req model.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := ""
	if principal, ok := auth.FromContext(c); ok {
		userID = principal.UserID
	}

	h.log.Info().
		Str("user_id", userID).
		Str("app_id", req.AppID).
		Str("kind", req.Kind).
		Msg("share tracked")

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Redirect handles GET /s/:shortId. This is the public, unauthenticated hot
// path: analytics recording runs asynchronously and must never delay or fail
// the redirect. The public responses are plain text with no internal detail.
func (h *ShareHandler) Redirect(c *gin.Context) {
	shortID := c.Param("shortId")

	res, err := h.shares.Resolve(c.Request.Context(), shortID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLinkNotFound):
			c.String(http.StatusNotFound, "Link not found")
		case errors.Is(err, apperrors.ErrLinkExpired):
			c.String(http.StatusGone, "Link expired")
		case apperrors.IsValidationError(err):
			c.String(http.StatusNotFound, "Link not found")
		default:
			h.log.Error().Err(err).Str("short_id", shortID).Msg("redirect lookup failed")
			c.String(http.StatusInternalServerError, "Internal")
		}
		return
	}

	referer := c.Request.Referer()
	rawUA := c.Request.UserAgent()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.shares.RecordClick(ctx, shortID, referer, rawUA); err != nil {
			h.log.Error().Err(err).Str("short_id", shortID).Msg("failed to record click")
		}
	}()

	c.Redirect(http.StatusFound, res.OriginalURL)
}
