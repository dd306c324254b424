// Package market streams live klines, order books and tickers from Binance into a single queue
// that the controller drains once per tick.
package market

import (
	"context"
	"sync/atomic"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/dionysus/internal/history"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPoolSize   = 8
	DefaultBufferSize = 1024
	DefaultDepth      = 5
)

// Subscription selects the streams opened for one token.
type Subscription struct {
	Token      types.Token
	Resolution types.Resolution
	Depth      int
}

// Feed fans websocket streams into one buffered channel.
// Many workers publish, one consumer drains.
type Feed struct {
	ws       WebSocketService
	events   chan types.MarketEvent
	poolSize int
	ticks    bool
	dropped  atomic.Int64
	log      *logger.Logger
}

type FeedOption func(*Feed)

// WithPoolSize bounds the number of streams served concurrently, the ticker stream included.
func WithPoolSize(size int) FeedOption {
	return func(f *Feed) {
		if size > 0 {
			f.poolSize = size
		}
	}
}

func WithBufferSize(size int) FeedOption {
	return func(f *Feed) {
		if size > 0 {
			f.events = make(chan types.MarketEvent, size)
		}
	}
}

// WithTicks also subscribes to the all-market ticker stream.
func WithTicks() FeedOption {
	return func(f *Feed) {
		f.ticks = true
	}
}

func WithLogger(log *logger.Logger) FeedOption {
	return func(f *Feed) {
		f.log = log
	}
}

func NewFeed(ws WebSocketService, opts ...FeedOption) *Feed {
	f := &Feed{
		ws:       ws,
		events:   make(chan types.MarketEvent, DefaultBufferSize),
		poolSize: DefaultPoolSize,
		log:      logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Run serves every subscription until ctx is cancelled or a stream fails.
// A cancelled context is not an error.
func (f *Feed) Run(ctx context.Context, subs []Subscription) error {
	if len(subs) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "no subscriptions provided")
	}

	for _, sub := range subs {
		if !sub.Token.IsPair() {
			return errors.Newf(errors.ErrCodeInvalidToken, "token %s is not a pair", sub.Token.Name())
		}

		if _, err := history.BinanceInterval(sub.Resolution); err != nil {
			return err
		}
	}

	streams := len(subs)
	if f.ticks {
		streams++
	}

	if streams > f.poolSize {
		return errors.Newf(errors.ErrCodeInvalidParameter, "%d streams exceed the pool size of %d", streams, f.poolSize)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.poolSize)

	if f.ticks {
		watched := make(map[string]types.Token, len(subs))
		for _, sub := range subs {
			watched[sub.Token.String()] = sub.Token
		}

		g.Go(func() error {
			return f.serveTicks(ctx, watched)
		})
	}

	for _, sub := range subs {
		g.Go(func() error {
			return f.serveSubscription(ctx, sub)
		})
	}

	err := g.Wait()
	if err != nil {
		f.log.Error("Market feed stopped", zap.Error(err))
	}

	return err
}

// Events exposes the queue for consumers that block instead of draining.
func (f *Feed) Events() <-chan types.MarketEvent {
	return f.events
}

// Drain returns every queued event without blocking.
func (f *Feed) Drain() []types.MarketEvent {
	var events []types.MarketEvent

	for {
		select {
		case event := <-f.events:
			events = append(events, event)
		default:
			return events
		}
	}
}

// Dropped counts events discarded because the queue was full.
func (f *Feed) Dropped() int64 {
	return f.dropped.Load()
}

func (f *Feed) publish(event types.MarketEvent) {
	select {
	case f.events <- event:
	default:
		f.dropped.Add(1)
		f.log.Warn("Market event queue full, dropping event",
			zap.String("kind", string(event.Kind)),
			zap.String("token", event.Token.Name()),
		)
	}
}

func (f *Feed) serveSubscription(ctx context.Context, sub Subscription) error {
	interval, err := history.BinanceInterval(sub.Resolution)
	if err != nil {
		return err
	}

	depth := sub.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}

	symbol := sub.Token.String()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return f.serve(ctx, "kline "+symbol, func(errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
			return f.ws.WsKlineServe(symbol, interval, func(event *binance.WsKlineEvent) {
				f.handleKline(sub, event)
			}, errHandler)
		})
	})

	g.Go(func() error {
		return f.serve(ctx, "depth "+symbol, func(errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
			return f.ws.WsPartialDepthServe(symbol, streamDepth(depth), func(event *binance.WsPartialDepthEvent) {
				f.publish(types.BookEvent(bookFromDepthEvent(sub.Token, event)))
			}, errHandler)
		})
	})

	return g.Wait()
}

func (f *Feed) serveTicks(ctx context.Context, watched map[string]types.Token) error {
	return f.serve(ctx, "tickers", func(errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
		return f.ws.WsAllMarketsStatServe(func(event binance.WsAllMarketsStatEvent) {
			ticks := ticksFromStats(watched, event)
			if len(ticks) > 0 {
				f.publish(types.TicksEvent(ticks))
			}
		}, errHandler)
	})
}

func (f *Feed) handleKline(sub Subscription, event *binance.WsKlineEvent) {
	if !event.Kline.IsFinal {
		return
	}

	sample, err := sampleFromKlineEvent(sub.Resolution, event)
	if err != nil {
		f.log.Warn("Skipping malformed kline",
			zap.String("token", sub.Token.Name()),
			zap.Time("time", eventTime(event.Kline.StartTime)),
			zap.Error(err),
		)

		return
	}

	f.publish(types.KlineEvent(sub.Token, sample))
}

type startFunc func(errHandler binance.ErrHandler) (doneC, stopC chan struct{}, err error)

// serve holds one websocket stream open until ctx ends, the stream reports an error or it closes.
func (f *Feed) serve(ctx context.Context, name string, start startFunc) error {
	errC := make(chan error, 1)

	doneC, stopC, err := start(func(err error) {
		select {
		case errC <- err:
		default:
		}
	})
	if err != nil {
		return errors.Wrapf(errors.ErrCodeFeedFailed, err, "failed to start %s stream", name)
	}

	f.log.Debug("Stream started", zap.String("stream", name))

	select {
	case <-ctx.Done():
		close(stopC)
		<-doneC

		return nil
	case err := <-errC:
		close(stopC)
		<-doneC

		return errors.Wrapf(errors.ErrCodeFeedFailed, err, "%s stream error", name)
	case <-doneC:
		return errors.Newf(errors.ErrCodeFeedFailed, "%s stream closed", name)
	}
}
