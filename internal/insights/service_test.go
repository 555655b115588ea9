package insights

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mrawais006/autoworkx/internal/platform/cache"
)

type paidInvoice struct {
	total    float64
	paidDate time.Time
}

type memoryInsightsRepo struct {
	paid     []paidInvoice
	upcoming []UpcomingService
	calls    int
}

func (m *memoryInsightsRepo) PaidRevenueBetween(_ context.Context, from, to time.Time) (float64, error) {
	m.calls++
	var sum float64
	for _, inv := range m.paid {
		if !inv.paidDate.Before(from) && !inv.paidDate.After(to) {
			sum += inv.total
		}
	}
	return sum, nil
}

func (m *memoryInsightsRepo) PaidRevenueAllTime(_ context.Context) (float64, error) {
	m.calls++
	var sum float64
	for _, inv := range m.paid {
		sum += inv.total
	}
	return sum, nil
}

func (m *memoryInsightsRepo) UpcomingServices(_ context.Context, asOf time.Time, days int) ([]UpcomingService, error) {
	out := make([]UpcomingService, 0)
	horizon := asOf.AddDate(0, 0, days)
	for _, u := range m.upcoming {
		if !u.DueDate.Before(asOf) && !u.DueDate.After(horizon) {
			out = append(out, u)
		}
	}
	return out, nil
}

func newInsightsCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewCache(client, time.Minute)
}

func TestRevenueWindows(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC) // Wednesday
	repo := &memoryInsightsRepo{paid: []paidInvoice{
		{total: 100, paidDate: now.Add(-2 * time.Hour)},                 // today
		{total: 50, paidDate: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)},  // Monday, this week
		{total: 25, paidDate: time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)},   // this month
		{total: 10, paidDate: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)},  // earlier this year
	}}
	svc := NewService(repo, nil)

	stats, err := svc.Revenue(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 100.0, stats.Today)
	require.Equal(t, 150.0, stats.ThisWeek)
	require.Equal(t, 175.0, stats.ThisMonth)
	require.Equal(t, 185.0, stats.AllTime)
}

func TestRevenueIsCached(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)
	repo := &memoryInsightsRepo{paid: []paidInvoice{{total: 100, paidDate: now.Add(-time.Hour)}}}
	svc := NewService(repo, newInsightsCache(t))

	_, err := svc.Revenue(context.Background(), now)
	require.NoError(t, err)
	first := repo.calls

	_, err = svc.Revenue(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, first, repo.calls)
}

func TestUpcomingServicesDefaultWindow(t *testing.T) {
	asOf := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	repo := &memoryInsightsRepo{upcoming: []UpcomingService{
		{VisitID: uuid.New(), RegoPlate: "ABC123", DueDate: asOf.AddDate(0, 0, 3)},
		{VisitID: uuid.New(), RegoPlate: "XYZ789", DueDate: asOf.AddDate(0, 0, 20)},
	}}
	svc := NewService(repo, nil)

	upcoming, err := svc.UpcomingServices(context.Background(), asOf, 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "ABC123", upcoming[0].RegoPlate)

	upcoming, err = svc.UpcomingServices(context.Background(), asOf, 30)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
}

func TestStartOfWeek(t *testing.T) {
	wednesday := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), startOfWeek(wednesday))

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	require.Equal(t, monday, startOfWeek(monday))

	sunday := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), startOfWeek(sunday))
}
