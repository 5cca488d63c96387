package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakhrymubarak/weather-cache/internal/cache"
	"github.com/fakhrymubarak/weather-cache/internal/model"
	"go.uber.org/zap"
)

// TTL is how long a cached record is trusted. It is shared by every
// coordinator and provider.
const TTL = 5 * time.Minute

// ErrNoRecord is logged when a provider reports success without a record.
var ErrNoRecord = errors.New("provider returned no record")

// Provider fetches fresh weather for a city. Name is the provider identity
// used in cache keys and must differ between providers sharing a cache.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (*model.WeatherRecord, error)
}

// Coordinator serves weather for one provider, consulting a shared cache.
type Coordinator struct {
	provider Provider
	cache    *cache.WeatherCache
	logger   *zap.SugaredLogger
	now      func() time.Time
}

type Option func(*Coordinator)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

func NewCoordinator(provider Provider, weatherCache *cache.WeatherCache, opts ...Option) *Coordinator {
	c := &Coordinator{
		provider: provider,
		cache:    weatherCache,
		logger:   zap.NewNop().Sugar(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key this coordinator uses for city.
func (c *Coordinator) Key(city string) cache.Key {
	return cache.NewKey(c.provider.Name(), city)
}

// GetCachedWeather is GetWeather with the cache enabled.
func (c *Coordinator) GetCachedWeather(ctx context.Context, city string) *model.WeatherRecord {
	return c.GetWeather(ctx, city, true)
}

// GetWeather returns the weather for city, or nil when no data is available.
// Provider failures are logged and never returned.
//
// With useCache the whole sequence of lookup, refresh, write and persist runs
// under the cache lock, so every cached caller of every coordinator sharing
// the cache waits for an in-flight refresh, including its provider I/O. A
// failed refresh leaves the previous entry untouched. Without useCache the
// provider is called directly and the cache is neither read nor written.
func (c *Coordinator) GetWeather(ctx context.Context, city string, useCache bool) *model.WeatherRecord {
	if !useCache {
		record, err := c.fetch(ctx, city)
		if err != nil {
			c.logFailure(city, err)
			return nil
		}
		return record
	}

	c.cache.Lock()
	defer c.cache.Unlock()

	key := c.Key(city)
	if cached, ok := c.cache.Get(key); ok && c.isFresh(cached) {
		return cached
	}

	record, err := c.fetch(ctx, city)
	if err != nil {
		c.logFailure(city, err)
		return nil
	}

	c.cache.Put(key, record)
	c.cache.Save(ctx)
	return record
}

func (c *Coordinator) isFresh(record *model.WeatherRecord) bool {
	return record.Age(c.now()) <= TTL
}

// fetch calls the provider and stamps the result with the current time.
func (c *Coordinator) fetch(ctx context.Context, city string) (*model.WeatherRecord, error) {
	record, err := c.provider.Fetch(ctx, city)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNoRecord
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	record = record.Clone()
	record.Timestamp = c.now().UTC()
	return record, nil
}

func (c *Coordinator) logFailure(city string, err error) {
	c.logger.Errorw("Failed to get the weather",
		"provider", c.provider.Name(),
		"city", city,
		"error", err,
	)
}
