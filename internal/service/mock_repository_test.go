package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "github.com/karthikrshet/nexora-share-service/internal/errors"
	"github.com/karthikrshet/nexora-share-service/internal/model"
)

// mockShareLinkRepository is an in-memory store guarded by a mutex so that
// RecordClick honors the same atomicity contract as the real store. It is
// shared by the service tests, including the concurrency property test.
type mockShareLinkRepository struct {
	mu         sync.Mutex
	links      map[string]*model.ShareLink
	nextID     int64
	shouldFail bool
	failCount  int
	callCount  int
	lastLimit  int
}

func newMockShareLinkRepository() *mockShareLinkRepository {
	return &mockShareLinkRepository{
		links: make(map[string]*model.ShareLink),
	}
}

func (m *mockShareLinkRepository) Create(ctx context.Context, link *model.ShareLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return errors.New("database error")
	}

	if m.failCount > 0 && m.callCount < m.failCount {
		m.callCount++
		return apperrors.ErrShortIDExists
	}

	if _, exists := m.links[link.ShortID]; exists {
		return apperrors.ErrShortIDExists
	}

	m.nextID++
	link.ID = m.nextID
	link.Analytics = model.Analytics{
		ByReferrer: make(map[string]int64),
		ByPlatform: make(map[string]int64),
	}
	m.links[link.ShortID] = link
	return nil
}

func (m *mockShareLinkRepository) Resolve(ctx context.Context, shortID string) (*model.Resolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return nil, errors.New("database error")
	}

	link, exists := m.links[shortID]
	if !exists {
		return nil, fmt.Errorf("share link '%s': %w", shortID, apperrors.ErrLinkNotFound)
	}

	return &model.Resolution{
		ShortID:     link.ShortID,
		OriginalURL: link.OriginalURL,
		ExpiresAt:   link.ExpiresAt,
	}, nil
}

func (m *mockShareLinkRepository) GetByShortID(ctx context.Context, shortID string) (*model.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.links[shortID]
	if !exists {
		return nil, fmt.Errorf("share link '%s': %w", shortID, apperrors.ErrLinkNotFound)
	}

	return link, nil
}

func (m *mockShareLinkRepository) RecordClick(ctx context.Context, shortID, referrerKey, platformKey string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return errors.New("database error")
	}

	link, exists := m.links[shortID]
	if !exists {
		return fmt.Errorf("share link '%s': %w", shortID, apperrors.ErrLinkNotFound)
	}

	link.Analytics.Clicks++
	link.Analytics.ByReferrer[referrerKey]++
	link.Analytics.ByPlatform[platformKey]++
	link.Analytics.LastClickAt = &at
	link.UpdatedAt = at
	return nil
}

func (m *mockShareLinkRepository) CountLinks(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return 0, errors.New("database error")
	}

	return int64(len(m.links)), nil
}

func (m *mockShareLinkRepository) SumClicks(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return 0, errors.New("database error")
	}

	var sum int64
	for _, link := range m.links {
		sum += link.Analytics.Clicks
	}
	return sum, nil
}

func (m *mockShareLinkRepository) TopByClicks(ctx context.Context, limit int) ([]model.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastLimit = limit
	links := m.sorted(func(a, b *model.ShareLink) bool {
		return a.Analytics.Clicks > b.Analytics.Clicks
	})
	if len(links) > limit {
		links = links[:limit]
	}
	return links, nil
}

func (m *mockShareLinkRepository) MostRecent(ctx context.Context, limit int) ([]model.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastLimit = limit
	links := m.sorted(func(a, b *model.ShareLink) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	if len(links) > limit {
		links = links[:limit]
	}
	return links, nil
}

func (m *mockShareLinkRepository) sorted(less func(a, b *model.ShareLink) bool) []model.ShareLink {
	all := make([]*model.ShareLink, 0, len(m.links))
	for _, link := range m.links {
		all = append(all, link)
	}
	sort.Slice(all, func(i, j int) bool {
		return less(all[i], all[j])
	})

	out := make([]model.ShareLink, 0, len(all))
	for _, link := range all {
		out = append(out, *link)
	}
	return out
}
