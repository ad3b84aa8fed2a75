package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"rezzy/internal/availability"
	catalogerrors "rezzy/internal/catalog/errors"
	"rezzy/internal/catalog/repository"
	"rezzy/pkg/config"
	apperrors "rezzy/pkg/errors"
	"rezzy/pkg/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Catalog answers the two questions the booking path asks on every
// request: what does this service occupy, and when is this tenant open.
// Both reads sit behind a TTL'd LRU so availability requests do not
// hammer the Services and Business_hours collections.
type Catalog interface {
	ResolveService(ctx context.Context, tenantID, serviceID string) (*model.Service, error)
	DayHours(ctx context.Context, tenantID string, weekday time.Weekday) (availability.DayHours, error)
	InvalidateTenant(tenantID string)
}

type catalog struct {
	services   repository.ServiceRepository
	hours      repository.BusinessHoursRepository
	serviceLRU *expirable.LRU[string, *model.Service]
	weekLRU    *expirable.LRU[string, []*model.BusinessHours]
	cfg        *config.Config
}

func NewCatalog(services repository.ServiceRepository, hours repository.BusinessHoursRepository, cfg *config.Config) Catalog {
	return &catalog{
		services:   services,
		hours:      hours,
		serviceLRU: expirable.NewLRU[string, *model.Service](cfg.CatalogCacheSize, nil, cfg.CatalogCacheTTL),
		weekLRU:    expirable.NewLRU[string, []*model.BusinessHours](cfg.CatalogCacheSize, nil, cfg.CatalogCacheTTL),
		cfg:        cfg,
	}
}

// ResolveService returns the service definition, or the configured
// default duration/buffers when the service is unknown or inactive.
// The lenient fallback keeps availability working for tenants whose
// catalog is not fully set up yet.
func (c *catalog) ResolveService(ctx context.Context, tenantID, serviceID string) (*model.Service, error) {
	cacheKey := tenantID + "/" + serviceID
	if svc, ok := c.serviceLRU.Get(cacheKey); ok {
		return svc, nil
	}

	svc, err := c.services.FindByID(ctx, tenantID, serviceID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrServiceNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			c.cfg.Log.Debug("Service not found, using defaults",
				"tenant_id", tenantID,
				"service_id", serviceID,
			)
			return c.defaultService(tenantID, serviceID), nil
		}
		return nil, apperrors.Internal("Failed to resolve service", err)
	}

	if !svc.Active {
		return c.defaultService(tenantID, serviceID), nil
	}

	c.serviceLRU.Add(cacheKey, svc)
	return svc, nil
}

func (c *catalog) defaultService(tenantID, serviceID string) *model.Service {
	return &model.Service{
		ID:              serviceID,
		TenantID:        tenantID,
		DurationMin:     c.cfg.DefaultServiceDurMin,
		BufferBeforeMin: c.cfg.DefaultBufferBeforeMin,
		BufferAfterMin:  c.cfg.DefaultBufferAfterMin,
		Active:          true,
	}
}

// DayHours returns the opening window for one weekday, falling back to
// the configured default week when the tenant never stored hours for
// that day.
func (c *catalog) DayHours(ctx context.Context, tenantID string, weekday time.Weekday) (availability.DayHours, error) {
	week, ok := c.weekLRU.Get(tenantID)
	if !ok {
		var err error
		week, err = c.hours.WeekByTenant(ctx, tenantID)
		if err != nil {
			return availability.DayHours{}, apperrors.Internal("Failed to load business hours", err)
		}
		c.weekLRU.Add(tenantID, week)
	}

	for _, row := range week {
		if row.Weekday != int(weekday) {
			continue
		}
		if !row.Open {
			return availability.DayHours{}, nil
		}
		return c.parseWindow(row.OpenTime, row.CloseTime)
	}

	if slices.Contains(config.DefaultOpenWeekdays, int(weekday)) {
		return c.parseWindow(c.cfg.DefaultOpenTime, c.cfg.DefaultCloseTime)
	}
	return availability.DayHours{}, nil
}

func (c *catalog) parseWindow(openTime, closeTime string) (availability.DayHours, error) {
	openMin, err := availability.ParseClock(openTime)
	if err != nil {
		return availability.DayHours{}, apperrors.Internal("Malformed open_time in business hours", err)
	}
	closeMin, err := availability.ParseClock(closeTime)
	if err != nil {
		return availability.DayHours{}, apperrors.Internal("Malformed close_time in business hours", err)
	}
	if closeMin <= openMin {
		return availability.DayHours{}, nil
	}
	return availability.DayHours{Open: true, OpenMin: openMin, CloseMin: closeMin}, nil
}

func (c *catalog) InvalidateTenant(tenantID string) {
	c.weekLRU.Remove(tenantID)
	// Service entries are keyed tenant/service; let TTL age them out.
}
