package settings

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mrawais006/autoworkx/internal/platform/cache"
)

type memorySettingsRepo struct {
	stored *Settings
	gets   int
}

func (m *memorySettingsRepo) Get(_ context.Context) (Settings, error) {
	m.gets++
	if m.stored == nil {
		return Settings{}, ErrNotFound
	}
	return *m.stored, nil
}

func (m *memorySettingsRepo) Save(_ context.Context, s Settings) (Settings, error) {
	s.UpdatedAt = time.Now()
	m.stored = &s
	return s, nil
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewCache(client, time.Minute)
}

func TestGetFallsBackToDefaults(t *testing.T) {
	repo := &memorySettingsRepo{}
	svc := NewService(repo, newTestCache(t))

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10.0, got.DefaultTaxRate)
	require.Equal(t, 8, got.DefaultReminderWeeks)
	require.Equal(t, "Cash", got.DefaultPaymentMethod)
}

func TestGetUsesCache(t *testing.T) {
	repo := &memorySettingsRepo{stored: &Settings{ShopName: "Main St Motors", DefaultTaxRate: 10}}
	svc := NewService(repo, newTestCache(t))

	for i := 0; i < 3; i++ {
		got, err := svc.Get(context.Background())
		require.NoError(t, err)
		require.Equal(t, "Main St Motors", got.ShopName)
	}
	require.Equal(t, 1, repo.gets)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := &memorySettingsRepo{stored: &Settings{ShopName: "Old Name", DefaultPaymentMethod: "Cash"}}
	svc := NewService(repo, newTestCache(t))

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Old Name", got.ShopName)

	_, err = svc.Update(context.Background(), UpdateRequest{
		ShopName:             "New Name",
		DefaultTaxRate:       12.5,
		DefaultReminderWeeks: 6,
		InvoiceDueDays:       30,
		DefaultPaymentMethod: "Card",
	})
	require.NoError(t, err)

	got, err = svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "New Name", got.ShopName)
	require.Equal(t, 12.5, got.DefaultTaxRate)
}

func TestDefaultPaymentMethodFallback(t *testing.T) {
	repo := &memorySettingsRepo{stored: &Settings{ShopName: "Main St Motors"}}
	svc := NewService(repo, newTestCache(t))

	require.Equal(t, "Cash", svc.DefaultPaymentMethod(context.Background()))

	repo.stored.DefaultPaymentMethod = "Bank Transfer"
	svc2 := NewService(repo, newTestCache(t))
	require.Equal(t, "Bank Transfer", svc2.DefaultPaymentMethod(context.Background()))
}

func TestServiceWorksWithoutRedis(t *testing.T) {
	repo := &memorySettingsRepo{}
	svc := NewService(repo, nil)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "AutoworkX", got.ShopName)
}
