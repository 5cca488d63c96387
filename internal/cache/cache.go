// Package cache holds the process-wide weather cache and its persistence.
package cache

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/fakhrymubarak/weather-cache/internal/model"
	"go.uber.org/zap"
)

// WeatherCache maps a Key to the last successfully fetched record and mirrors
// the mapping to a Store. Construct it once at startup and share it with every
// coordinator that should see the same entries.
type WeatherCache struct {
	// seq serializes whole get-or-refresh sequences, see Lock.
	seq sync.Mutex

	mu      sync.RWMutex
	entries map[Key]*model.WeatherRecord

	saveMu sync.Mutex
	store  Store
	logger *zap.SugaredLogger
}

// New returns an empty cache persisted to store. A nil store keeps the cache
// in memory only.
func New(store Store, logger *zap.SugaredLogger) *WeatherCache {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &WeatherCache{
		entries: make(map[Key]*model.WeatherRecord),
		store:   store,
		logger:  logger,
	}
}

// Lock acquires the cache-wide sequence lock. Holders may look up, refresh,
// write and persist without any other holder interleaving. Get and Put do not
// need it for memory safety.
func (c *WeatherCache) Lock() {
	c.seq.Lock()
}

func (c *WeatherCache) Unlock() {
	c.seq.Unlock()
}

// Get returns a copy of the entry for key.
func (c *WeatherCache) Get(key Key) (*model.WeatherRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Put stores a copy of record under key.
func (c *WeatherCache) Put(key Key, record *model.WeatherRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = record.Clone()
}

func (c *WeatherCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached keys in a stable order.
func (c *WeatherCache) Keys() []Key {
	c.mu.RLock()
	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
	return keys
}

// Load merges the persisted entries into memory. Existing entries are kept
// unless the store has the same key. Any failure leaves the cache unchanged
// and reports false.
func (c *WeatherCache) Load(ctx context.Context) bool {
	if c.store == nil {
		return false
	}
	data, err := c.store.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		c.logger.Infow("No persisted weather cache yet", "error", err)
		return false
	}
	if err != nil {
		c.logger.Warnw("Failed to load the weather cache", "error", err)
		return false
	}
	entries, skipped, err := decode(data)
	if err != nil {
		c.logger.Warnw("Failed to load the weather cache", "error", err)
		return false
	}
	for k, err := range skipped {
		c.logger.Warnw("Skipping invalid cache entry", "key", k.String(), "error", err)
	}

	c.mu.Lock()
	for k, r := range entries {
		c.entries[k] = r
	}
	c.mu.Unlock()

	c.logger.Debugw("Loaded weather cache", "entries", len(entries))
	return true
}

// Save overwrites the store with the full in-memory mapping. Failure is
// logged and reported as false; the in-memory cache stays usable.
func (c *WeatherCache) Save(ctx context.Context) bool {
	if c.store == nil {
		return true
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.RLock()
	data, err := encode(c.entries)
	c.mu.RUnlock()
	if err != nil {
		c.logger.Errorw("Failed to encode the weather cache", "error", err)
		return false
	}

	if err := c.store.Write(ctx, data); err != nil {
		c.logger.Errorw("Failed to save the weather cache", "error", err)
		return false
	}
	return true
}
