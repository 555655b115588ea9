package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrawais006/autoworkx/internal/platform/cache"
)

const cacheKey = "autoworkx:settings"

// Service reads and writes shop settings with a Redis-backed read path.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService constructs the settings service. Cache may be nil.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// Get returns the current settings, falling back to defaults when the row has
// not been seeded yet.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	var out Settings
	err := s.cache.FetchJSON(ctx, cacheKey, &out, func(ctx context.Context) (any, error) {
		current, err := s.repo.Get(ctx)
		if errors.Is(err, ErrNotFound) {
			return Defaults(), nil
		}
		return current, err
	})
	if err != nil {
		return Settings{}, fmt.Errorf("settings: get: %w", err)
	}
	return out, nil
}

// Update replaces the settings record and invalidates the cached copy.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (Settings, error) {
	next := Settings{
		ShopName:              strings.TrimSpace(req.ShopName),
		ShopAddress:           strings.TrimSpace(req.ShopAddress),
		ShopPhone:             strings.TrimSpace(req.ShopPhone),
		ShopEmail:             strings.ToLower(strings.TrimSpace(req.ShopEmail)),
		ABN:                   strings.TrimSpace(req.ABN),
		DefaultTaxRate:        req.DefaultTaxRate,
		DefaultReminderWeeks:  req.DefaultReminderWeeks,
		InvoiceDueDays:        req.InvoiceDueDays,
		DefaultPaymentMethod:  req.DefaultPaymentMethod,
		ReminderEmailTemplate: req.ReminderEmailTemplate,
		ReminderSMSTemplate:   req.ReminderSMSTemplate,
	}

	saved, err := s.repo.Save(ctx, next)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: save: %w", err)
	}
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		return Settings{}, fmt.Errorf("settings: invalidate cache: %w", err)
	}
	return saved, nil
}

// DefaultPaymentMethod reports the configured payment method fallback.
func (s *Service) DefaultPaymentMethod(ctx context.Context) string {
	current, err := s.Get(ctx)
	if err != nil || current.DefaultPaymentMethod == "" {
		return Defaults().DefaultPaymentMethod
	}
	return current.DefaultPaymentMethod
}
