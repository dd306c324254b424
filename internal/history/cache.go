package history

import (
	"context"
	"slices"
	"sync"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/dionysus/internal/types"
)

type seriesKey struct {
	token      string
	resolution types.Resolution
}

func keyOf(token types.Token, resolution types.Resolution) seriesKey {
	return seriesKey{token: token.Key(), resolution: resolution}
}

// Cache is an in-memory Series.
type Cache struct {
	series map[seriesKey][]types.Sample
	mutex  sync.RWMutex
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		series: make(map[seriesKey][]types.Sample),
	}
}

// Write implements Series.
func (c *Cache) Write(_ context.Context, token types.Token, resolution types.Resolution, samples []types.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	key := keyOf(token, resolution)
	stored := c.series[key]

	last := optional.None[types.Sample]()
	if len(stored) > 0 {
		last = optional.Some(stored[len(stored)-1])
	}

	replace, err := checkBatch(last, samples)
	if err != nil {
		return err
	}

	if replace {
		stored = stored[:len(stored)-1]
	}

	c.series[key] = append(stored, samples...)

	return nil
}

// Read implements Series.
func (c *Cache) Read(_ context.Context, token types.Token, resolution types.Resolution, count int) ([]types.Sample, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stored, ok := c.series[keyOf(token, resolution)]
	if !ok {
		return nil, seriesNotFound(token, resolution)
	}

	start := max(0, len(stored)-count)

	return slices.Clone(stored[start:]), nil
}

// Last implements Series.
func (c *Cache) Last(_ context.Context, token types.Token, resolution types.Resolution) (optional.Option[types.Sample], error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stored := c.series[keyOf(token, resolution)]
	if len(stored) == 0 {
		return optional.None[types.Sample](), nil
	}

	return optional.Some(stored[len(stored)-1]), nil
}

// Contains implements Series.
func (c *Cache) Contains(_ context.Context, token types.Token, resolution types.Resolution) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	_, ok := c.series[keyOf(token, resolution)]

	return ok, nil
}
