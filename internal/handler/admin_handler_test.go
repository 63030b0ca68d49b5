package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/karthikrshet/nexora-share-service/internal/model"
)

type mockAdminStats struct {
	overview   *model.ShareOverview
	links      []model.ShareLink
	lastLimit  int
	shouldFail bool
}

func (m *mockAdminStats) Overview(ctx context.Context) (*model.ShareOverview, error) {
	if m.shouldFail {
		return nil, errors.New("store error")
	}
	return m.overview, nil
}

func (m *mockAdminStats) TopByClicks(ctx context.Context, limit int) ([]model.ShareLink, error) {
	if m.shouldFail {
		return nil, errors.New("store error")
	}
	m.lastLimit = limit
	return m.links, nil
}

func (m *mockAdminStats) MostRecent(ctx context.Context, limit int) ([]model.ShareLink, error) {
	if m.shouldFail {
		return nil, errors.New("store error")
	}
	m.lastLimit = limit
	return m.links, nil
}

func newAdminRouter(stats *mockAdminStats) *gin.Engine {
	handler := NewAdminShareHandler(stats, zerolog.Nop())
	router := gin.New()
	router.GET("/api/admin/shares/overview", handler.Overview)
	router.GET("/api/admin/shares/top", handler.Top)
	router.GET("/api/admin/shares/recent", handler.Recent)
	return router
}

func TestAdminShareHandler_Overview(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stats := &mockAdminStats{
		overview: &model.ShareOverview{TotalShortLinks: 3, TotalClicks: 42},
	}
	router := newAdminRouter(stats)

	req := httptest.NewRequest("GET", "/api/admin/shares/overview", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Overview() status = %d, want %d", w.Code, http.StatusOK)
	}

	var response struct {
		OK              bool  `json:"ok"`
		TotalShortLinks int64 `json:"totalShortLinks"`
		TotalClicks     int64 `json:"totalClicks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if !response.OK {
		t.Error("Overview() response.ok = false, want true")
	}
	if response.TotalShortLinks != 3 {
		t.Errorf("Overview() totalShortLinks = %d, want 3", response.TotalShortLinks)
	}
	if response.TotalClicks != 42 {
		t.Errorf("Overview() totalClicks = %d, want 42", response.TotalClicks)
	}
}

func TestAdminShareHandler_Overview_StoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newAdminRouter(&mockAdminStats{shouldFail: true})

	req := httptest.NewRequest("GET", "/api/admin/shares/overview", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Overview() status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestAdminShareHandler_Top(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stats := &mockAdminStats{
		links: []model.ShareLink{
			{ShortID: "abc123xy", OriginalURL: "https://example.com"},
			{ShortID: "def456zw", OriginalURL: "https://example.org"},
		},
	}
	router := newAdminRouter(stats)

	req := httptest.NewRequest("GET", "/api/admin/shares/top?limit=5", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Top() status = %d, want %d", w.Code, http.StatusOK)
	}

	if stats.lastLimit != 5 {
		t.Errorf("Top() passed limit %d, want 5", stats.lastLimit)
	}

	var response struct {
		OK   bool              `json:"ok"`
		Data []model.ShareLink `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if !response.OK {
		t.Error("Top() response.ok = false, want true")
	}
	if len(response.Data) != 2 {
		t.Errorf("Top() returned %d links, want 2", len(response.Data))
	}
	if response.Data[0].ShortID != "abc123xy" {
		t.Errorf("Top() first short id = %s, want abc123xy", response.Data[0].ShortID)
	}
}

func TestAdminShareHandler_Recent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stats := &mockAdminStats{links: []model.ShareLink{{ShortID: "abc123xy"}}}
	router := newAdminRouter(stats)

	req := httptest.NewRequest("GET", "/api/admin/shares/recent", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Recent() status = %d, want %d", w.Code, http.StatusOK)
	}

	// Missing limit falls through to the service defaults as zero.
	if stats.lastLimit != 0 {
		t.Errorf("Recent() passed limit %d, want 0", stats.lastLimit)
	}
}

func TestLimitParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing", "", 0},
		{"valid", "limit=25", 25},
		{"malformed", "limit=abc", 0},
		{"negative", "limit=-3", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/admin/shares/top?"+tt.query, nil)

			if got := limitParam(c); got != tt.want {
				t.Errorf("limitParam() = %d, want %d", got, tt.want)
			}
		})
	}
}
