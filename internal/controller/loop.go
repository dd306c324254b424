package controller

import (
	"context"
	"time"

	"github.com/rxtech-lab/dionysus/internal/types"
	"go.uber.org/zap"
)

// EventQueue is drained once per touch. market.Feed implements it.
type EventQueue interface {
	Drain() []types.MarketEvent
	Dropped() int64
}

// UpdateHandler receives the updates of every touch that changed something.
type UpdateHandler func(updates []Update)

// Run drains queue every interval and applies the events until ctx is cancelled.
func (c *Controller) Run(ctx context.Context, queue EventQueue, interval time.Duration, onUpdate UpdateHandler) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var dropped int64

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if total := queue.Dropped(); total > dropped {
				c.metrics.EventsDropped.Add(float64(total - dropped))
				c.log.Warn("Market events dropped", zap.Int64("count", total-dropped))
				dropped = total
			}

			events := queue.Drain()
			if len(events) == 0 {
				continue
			}

			updates := c.Touch(ctx, events)
			if len(updates) > 0 && onUpdate != nil {
				onUpdate(updates)
			}
		}
	}
}
