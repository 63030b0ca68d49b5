package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/karthikrshet/nexora-share-service/internal/model"
)

// AdminStats is what the admin endpoints need from the service layer.
type AdminStats interface {
	Overview(ctx context.Context) (*model.ShareOverview, error)
	TopByClicks(ctx context.Context, limit int) ([]model.ShareLink, error)
	MostRecent(ctx context.Context, limit int) ([]model.ShareLink, error)
}

type AdminShareHandler struct {
	stats AdminStats
	log   zerolog.Logger
}

func NewAdminShareHandler(stats AdminStats, log zerolog.Logger) *AdminShareHandler {
	return &AdminShareHandler{
		stats: stats,
		log:   log,
	}
}

// Overview handles GET /api/admin/shares/overview.
func (h *AdminShareHandler) Overview(c *gin.Context) {
	overview, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("admin share overview failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"totalShortLinks": overview.TotalShortLinks,
		"totalClicks":     overview.TotalClicks,
	})
}

// Top handles GET /api/admin/shares/top?limit=N.
func (h *AdminShareHandler) Top(c *gin.Context) {
	links, err := h.stats.TopByClicks(c.Request.Context(), limitParam(c))
	if err != nil {
		h.log.Error().Err(err).Msg("admin share top failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "data": links})
}

// Recent handles GET /api/admin/shares/recent?limit=N.
func (h *AdminShareHandler) Recent(c *gin.Context) {
	links, err := h.stats.MostRecent(c.Request.Context(), limitParam(c))
	if err != nil {
		h.log.Error().Err(err).Msg("admin share recent failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "data": links})
}

// limitParam returns 0 for a missing or malformed limit; the service
// substitutes its per-endpoint default.
func limitParam(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}

	return limit
}
