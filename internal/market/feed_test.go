package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/dionysus/internal/types"
	dionysusErrors "github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockWebSocketService emits the configured events once, then waits for the stop signal.
type mockWebSocketService struct {
	mu sync.Mutex

	klines     []*binance.WsKlineEvent
	depths     []*binance.WsPartialDepthEvent
	stats      []binance.WsAllMarketsStatEvent
	streamErr  error
	startError error

	klineCalls []string
	depthCalls []string
}

func (m *mockWebSocketService) WsKlineServe(symbol, interval string, handler binance.WsKlineHandler, errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
	m.mu.Lock()
	m.klineCalls = append(m.klineCalls, symbol+"@"+interval)
	m.mu.Unlock()

	return m.emit(func() {
		for _, event := range m.klines {
			handler(event)
		}
	}, errHandler)
}

func (m *mockWebSocketService) WsPartialDepthServe(symbol, levels string, handler binance.WsPartialDepthHandler, errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
	m.mu.Lock()
	m.depthCalls = append(m.depthCalls, symbol+"@"+levels)
	m.mu.Unlock()

	return m.emit(func() {
		for _, event := range m.depths {
			handler(event)
		}
	}, nil)
}

func (m *mockWebSocketService) WsAllMarketsStatServe(handler binance.WsAllMarketsStatHandler, errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
	return m.emit(func() {
		for _, event := range m.stats {
			handler(event)
		}
	}, nil)
}

func (m *mockWebSocketService) emit(send func(), errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
	if m.startError != nil {
		return nil, nil, m.startError
	}

	doneC := make(chan struct{})
	stopC := make(chan struct{})

	go func() {
		defer close(doneC)

		send()

		if m.streamErr != nil && errHandler != nil {
			errHandler(m.streamErr)

			return
		}

		select {
		case <-stopC:
		case <-time.After(5 * time.Second):
		}
	}()

	return doneC, stopC, nil
}

type FeedTestSuite struct {
	suite.Suite
	token types.Token
}

func TestFeedSuite(t *testing.T) {
	suite.Run(t, new(FeedTestSuite))
}

func (suite *FeedTestSuite) SetupTest() {
	suite.token = types.NewPair("BTC", "USDT")
}

func (suite *FeedTestSuite) subscription() Subscription {
	return Subscription{Token: suite.token, Resolution: types.Hour(), Depth: 5}
}

func kline(start int64, closePrice string, final bool) *binance.WsKlineEvent {
	return &binance.WsKlineEvent{
		Symbol: "BTCUSDT",
		Kline: binance.WsKline{
			StartTime: start,
			Open:      "100",
			High:      "110",
			Low:       "90",
			Close:     closePrice,
			Volume:    "12",
			IsFinal:   final,
		},
	}
}

// runUntil runs the feed until want events are queued or the deadline passes.
func (suite *FeedTestSuite) runUntil(feed *Feed, subs []Subscription, want int) []types.MarketEvent {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- feed.Run(ctx, subs)
	}()

	var events []types.MarketEvent
	deadline := time.After(2 * time.Second)

	for len(events) < want {
		select {
		case event := <-feed.Events():
			events = append(events, event)
		case <-deadline:
			suite.FailNow("timed out waiting for events")
		}
	}

	cancel()
	suite.NoError(<-done)

	return events
}

func (suite *FeedTestSuite) TestOnlyFinalKlinesArePublished() {
	ws := &mockWebSocketService{
		klines: []*binance.WsKlineEvent{
			kline(1704067200000, "105", false),
			kline(1704067200000, "106", true),
		},
	}
	feed := NewFeed(ws)

	events := suite.runUntil(feed, []Subscription{suite.subscription()}, 1)

	suite.Require().Len(events, 1)
	suite.Equal(types.MarketEventKline, events[0].Kind)
	suite.Equal(suite.token, events[0].Token)
	suite.Equal(106.0, events[0].Sample.Close)
	suite.Equal(time.UnixMilli(1704067200000).UTC(), events[0].Sample.Time.UTC())
	suite.Equal([]string{"BTCUSDT@1h"}, ws.klineCalls)
	suite.Empty(feed.Drain())
}

func (suite *FeedTestSuite) TestDepthEventsBecomeBooks() {
	ws := &mockWebSocketService{
		depths: []*binance.WsPartialDepthEvent{
			{
				Symbol: "BTCUSDT",
				Bids:   []binance.Bid{{Price: "99.5", Quantity: "2"}},
				Asks:   []binance.Ask{{Price: "100.5", Quantity: "1.5"}, {Price: "101", Quantity: "3"}},
			},
		},
	}
	feed := NewFeed(ws)

	events := suite.runUntil(feed, []Subscription{{Token: suite.token, Resolution: types.Hour(), Depth: 7}}, 1)

	suite.Require().Len(events, 1)
	book := events[0].Book
	suite.Equal(types.MarketEventBook, events[0].Kind)
	suite.Equal([]types.BookLine{{Price: 99.5, Quantity: 2}}, book.Bids)
	suite.Equal([]types.BookLine{{Price: 100.5, Quantity: 1.5}, {Price: 101, Quantity: 3}}, book.Asks)
	suite.Equal([]string{"BTCUSDT@10"}, ws.depthCalls)
}

func (suite *FeedTestSuite) TestTicksKeepWatchedTokens() {
	ws := &mockWebSocketService{
		stats: []binance.WsAllMarketsStatEvent{
			{
				{Symbol: "BTCUSDT", LastPrice: "42000", PriceChangePercent: "1.5"},
				{Symbol: "DOGEUSDT", LastPrice: "0.1", PriceChangePercent: "-3"},
			},
		},
	}
	feed := NewFeed(ws, WithTicks())

	events := suite.runUntil(feed, []Subscription{suite.subscription()}, 1)

	suite.Require().Len(events, 1)
	suite.Equal(types.MarketEventTicks, events[0].Kind)
	suite.Equal([]types.MarketTick{{Token: suite.token, Price: 42000, ChangePct: 1.5}}, events[0].Ticks)
}

func (suite *FeedTestSuite) TestDrainDoesNotBlock() {
	feed := NewFeed(&mockWebSocketService{})
	suite.Empty(feed.Drain())

	feed.publish(types.KlineEvent(suite.token, types.Sample{Close: 1}))
	feed.publish(types.KlineEvent(suite.token, types.Sample{Close: 2}))

	events := feed.Drain()
	suite.Require().Len(events, 2)
	suite.Equal(1.0, events[0].Sample.Close)
	suite.Equal(2.0, events[1].Sample.Close)
	suite.Empty(feed.Drain())
}

func (suite *FeedTestSuite) TestFullQueueDropsEvents() {
	feed := NewFeed(&mockWebSocketService{}, WithBufferSize(1))

	feed.publish(types.KlineEvent(suite.token, types.Sample{Close: 1}))
	feed.publish(types.KlineEvent(suite.token, types.Sample{Close: 2}))

	suite.Equal(int64(1), feed.Dropped())
	suite.Len(feed.Drain(), 1)
}

func (suite *FeedTestSuite) TestStartErrorFailsRun() {
	feed := NewFeed(&mockWebSocketService{startError: errors.New("connection refused")})

	err := feed.Run(context.Background(), []Subscription{suite.subscription()})
	suite.Error(err)
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeFeedFailed))
	suite.Contains(err.Error(), "connection refused")
}

func (suite *FeedTestSuite) TestStreamErrorFailsRun() {
	feed := NewFeed(&mockWebSocketService{streamErr: errors.New("websocket disconnected")})

	err := feed.Run(context.Background(), []Subscription{suite.subscription()})
	suite.Error(err)
	suite.Contains(err.Error(), "websocket disconnected")
}

func (suite *FeedTestSuite) TestInvalidSubscriptions() {
	feed := NewFeed(&mockWebSocketService{})

	err := feed.Run(context.Background(), nil)
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeMissingParameter))

	err = feed.Run(context.Background(), []Subscription{{Token: suite.token, Resolution: types.NewResolution(types.TimeUnitMin, 7)}})
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeInvalidResolution))
}

func (suite *FeedTestSuite) TestStreamsBeyondPoolAreRejected() {
	ws := &mockWebSocketService{}
	subs := []Subscription{suite.subscription(), {Token: types.NewPair("ETH", "USDT"), Resolution: types.Hour(), Depth: 5}}

	err := NewFeed(ws, WithPoolSize(1)).Run(context.Background(), subs)
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeInvalidParameter))

	err = NewFeed(ws, WithPoolSize(2), WithTicks()).Run(context.Background(), subs)
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeInvalidParameter))
	suite.Empty(ws.klineCalls)
}

func (suite *FeedTestSuite) TestEverySubscriptionIsServedWithinPool() {
	ws := &mockWebSocketService{
		klines: []*binance.WsKlineEvent{kline(1704067200000, "106", true)},
	}
	subs := []Subscription{suite.subscription(), {Token: types.NewPair("ETH", "USDT"), Resolution: types.Hour(), Depth: 5}}

	events := suite.runUntil(NewFeed(ws, WithPoolSize(2)), subs, 2)

	suite.Len(events, 2)
	suite.ElementsMatch([]string{"BTCUSDT@1h", "ETHUSDT@1h"}, ws.klineCalls)
}

func (suite *FeedTestSuite) TestStreamDepth() {
	suite.Equal("5", streamDepth(1))
	suite.Equal("10", streamDepth(6))
	suite.Equal("20", streamDepth(20))
	suite.Equal("20", streamDepth(100))
}
