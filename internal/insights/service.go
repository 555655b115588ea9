package insights

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrawais006/autoworkx/internal/platform/cache"
)

// DefaultLookaheadDays bounds the upcoming-services window when the caller
// does not supply one.
const DefaultLookaheadDays = 14

// Service computes dashboard aggregates.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService constructs an insights service. Cache may be nil.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// Revenue returns paid revenue figures for today, this week, this month and
// all time. The window queries run in parallel.
func (s *Service) Revenue(ctx context.Context, now time.Time) (RevenueStats, error) {
	var stats RevenueStats
	key := fmt.Sprintf("autoworkx:insights:revenue:%s", now.Format("2006-01-02T15:04"))
	err := s.cache.FetchJSON(ctx, key, &stats, func(ctx context.Context) (any, error) {
		return s.loadRevenue(ctx, now)
	})
	if err != nil {
		return RevenueStats{}, fmt.Errorf("insights: revenue: %w", err)
	}
	return stats, nil
}

func (s *Service) loadRevenue(ctx context.Context, now time.Time) (RevenueStats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := startOfWeek(dayStart)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var stats RevenueStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.repo.PaidRevenueBetween(ctx, dayStart, now)
		stats.Today = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.PaidRevenueBetween(ctx, weekStart, now)
		stats.ThisWeek = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.PaidRevenueBetween(ctx, monthStart, now)
		stats.ThisMonth = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.PaidRevenueAllTime(ctx)
		stats.AllTime = v
		return err
	})
	if err := g.Wait(); err != nil {
		return RevenueStats{}, err
	}
	return stats, nil
}

// UpcomingServices lists visits due for their next service within the window.
func (s *Service) UpcomingServices(ctx context.Context, asOf time.Time, days int) ([]UpcomingService, error) {
	if days <= 0 {
		days = DefaultLookaheadDays
	}
	out, err := s.repo.UpcomingServices(ctx, asOf, days)
	if err != nil {
		return nil, fmt.Errorf("insights: upcoming services: %w", err)
	}
	return out, nil
}

// startOfWeek truncates to the preceding Monday.
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
