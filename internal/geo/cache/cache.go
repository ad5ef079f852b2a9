// Package cache decorates a geolocation provider with a country cache so hot
// IPs do not hit the upstream provider on every auction. Concurrent lookups
// of the same address are collapsed into one upstream call.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"bidscope/internal/privacy/models"
	"bidscope/internal/privacy/ports"
)

// ErrNotFound is returned by a Store when the key has no cached value.
var ErrNotFound = errors.New("geo cache: not found")

// DefaultTTL bounds how long a resolved country is reused.
const DefaultTTL = time.Hour

// Store is the cache persistence interface.
// Error Contract:
// - Get returns ErrNotFound when no value exists for the key
// - Set returns nil on success or a wrapped error on failure
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Provider is the caching decorator.
type Provider struct {
	next   ports.GeoLocationService
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// Option configures the Provider.
type Option func(*Provider)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithLogger sets the logger for cache write failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// New wraps next with a cache. Panics on missing dependencies - fail fast at
// startup.
func New(next ports.GeoLocationService, store Store, opts ...Option) *Provider {
	if next == nil {
		panic("cache.New: upstream geo provider is required")
	}
	if store == nil {
		panic("cache.New: store is required")
	}

	p := &Provider{
		next:  next,
		store: store,
		ttl:   DefaultTTL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lookup implements ports.GeoLocationService. Cache failures are treated as
// misses; only the upstream provider can fail a lookup.
func (p *Provider) Lookup(ctx context.Context, ipAddress string) (*models.GeoInfo, error) {
	if country, err := p.store.Get(ctx, cacheKey(ipAddress)); err == nil && country != "" {
		return &models.GeoInfo{Country: country}, nil
	} else if err != nil && !errors.Is(err, ErrNotFound) && p.logger != nil {
		p.logger.Warn("geo cache read failed", "ip", ipAddress, "error", err)
	}

	result, err, _ := p.group.Do(ipAddress, func() (any, error) {
		geo, err := p.next.Lookup(ctx, ipAddress)
		if err != nil {
			return nil, err
		}
		if geo.Country != "" {
			// Best effort: a failed write only costs a future upstream call.
			if err := p.store.Set(ctx, cacheKey(ipAddress), geo.Country, p.ttl); err != nil && p.logger != nil {
				p.logger.Warn("geo cache write failed", "ip", ipAddress, "error", err)
			}
		}
		return geo, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.GeoInfo), nil
}

func cacheKey(ipAddress string) string {
	return "geo:country:" + ipAddress
}
