// Package controller owns the trading agents of a live session. It feeds market events
// to the agents, submits their orders and keeps the history source current.
//
// Every agent call goes through the controller mutex.
package controller

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/dionysus/internal/agent"
	"github.com/rxtech-lab/dionysus/internal/backtest"
	"github.com/rxtech-lab/dionysus/internal/history"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/metrics"
	"github.com/rxtech-lab/dionysus/internal/strategy"
	"github.com/rxtech-lab/dionysus/internal/trading"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// UpdateKind tells which view of a token changed during a touch.
type UpdateKind string

const (
	UpdateKline UpdateKind = "kline"
	UpdateBook  UpdateKind = "book"
)

// Update is reported by Touch for every token whose state changed.
type Update struct {
	Kind  UpdateKind
	Token types.Token
}

// Snapshot is a copy of an agent's state.
type Snapshot struct {
	Token         types.Token
	Strategy      strategy.Strategy
	Capital       float64
	LockedCapital float64
	Balance       float64
	Positions     []types.Position
	Orders        []types.Order
}

// Controller serialises every call to the agents it owns.
type Controller struct {
	mu      sync.Mutex
	agents  map[string]*agent.Chrysus
	ticks   map[string]types.MarketTick
	source  history.Source
	trader  trading.Trader
	capital float64
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
}

type Option func(*Controller)

func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithCapital sets the free capital given to each new agent.
func WithCapital(capital float64) Option {
	return func(c *Controller) {
		c.capital = capital
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a controller reading history from source and submitting orders to trader.
func New(source history.Source, trader trading.Trader, opts ...Option) *Controller {
	c := &Controller{
		agents:  make(map[string]*agent.Chrysus),
		ticks:   make(map[string]types.MarketTick),
		source:  source,
		trader:  trader,
		capital: backtest.DefaultStartingCapital,
		metrics: metrics.NewMetrics(""),
		log:     logger.NewNopLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AddToken creates an agent running the default strategy and warms up its history.
func (c *Controller) AddToken(ctx context.Context, token types.Token) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.agents[token.Key()]; ok {
		return errors.Newf(errors.ErrCodeAgentAlreadyExists, "agent for %s already exists", token.Name())
	}

	c.agents[token.Key()] = agent.New(token, strategy.Default(),
		agent.WithCapital(c.capital),
		agent.WithLogger(c.log),
		agent.WithClock(c.now),
	)

	c.warmUp(ctx, c.agents[token.Key()])

	return nil
}

// SetStrategy replaces the strategy of an agent and warms up the new window.
func (c *Controller) SetStrategy(ctx context.Context, token types.Token, s strategy.Strategy) error {
	if err := s.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.agents[token.Key()]
	if !ok {
		return agentNotFound(token)
	}

	a.Strategy = s
	c.warmUp(ctx, a)

	return nil
}

// warmUp asks the source to refresh the strategy window. Failures are logged.
func (c *Controller) warmUp(ctx context.Context, a *agent.Chrysus) {
	if !a.Token.IsPair() {
		return
	}

	err := c.source.FetchLast(ctx, a.Token, a.Strategy.Window)
	switch {
	case err == nil:
	case errors.IsNotImplemented(err):
		c.log.Debug("Source cannot fetch history", zap.String("token", a.Token.Name()))
	default:
		c.log.Error("Failed to fetch history",
			zap.String("token", a.Token.Name()),
			zap.String("window", a.Strategy.Window.Resolution.Name()),
			zap.Error(err),
		)
	}
}

// Get returns a copy of the agent state of token.
func (c *Controller) Get(token types.Token) optional.Option[Snapshot] {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.agents[token.Key()]
	if !ok {
		return optional.None[Snapshot]()
	}

	return optional.Some(snapshot(a))
}

func snapshot(a *agent.Chrysus) Snapshot {
	return Snapshot{
		Token:         a.Token,
		Strategy:      a.Strategy,
		Capital:       a.Ledger.Capital,
		LockedCapital: a.Ledger.LockedCapital,
		Balance:       a.Ledger.Balance,
		Positions:     a.Positions(),
		Orders:        a.Orders(),
	}
}

// Tokens lists the managed tokens by name.
func (c *Controller) Tokens() []types.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	tokens := lo.MapToSlice(c.agents, func(_ string, a *agent.Chrysus) types.Token {
		return a.Token
	})
	slices.SortFunc(tokens, func(a, b types.Token) int {
		return strings.Compare(a.Name(), b.Name())
	})

	return tokens
}

// Balances returns the held symbol quantity of every token with a positive balance,
// keyed by Token.Key.
func (c *Controller) Balances() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	balances := make(map[string]float64)
	for key, a := range c.agents {
		if a.Ledger.Balance > 0 {
			balances[key] = a.Ledger.Balance
		}
	}

	return balances
}

// SetBalance overrides the held quantity of token, e.g. from an exchange account.
func (c *Controller) SetBalance(token types.Token, balance float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.agents[token.Key()]
	if !ok {
		return agentNotFound(token)
	}

	a.Ledger.Balance = balance

	return nil
}

// Tick returns the last ticker seen for token.
func (c *Controller) Tick(token types.Token) optional.Option[types.MarketTick] {
	c.mu.Lock()
	defer c.mu.Unlock()

	tick, ok := c.ticks[token.Key()]
	if !ok {
		return optional.None[types.MarketTick]()
	}

	return optional.Some(tick)
}

// History returns the samples of the strategy window of token.
func (c *Controller) History(ctx context.Context, token types.Token) ([]types.Sample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.agents[token.Key()]
	if !ok {
		return nil, agentNotFound(token)
	}

	return c.source.GetLast(ctx, token, a.Strategy.Window)
}

// Records returns the persisted form of every agent ordered by token name.
func (c *Controller) Records() []strategy.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := lo.MapToSlice(c.agents, func(_ string, a *agent.Chrysus) strategy.Record {
		return strategy.NewRecord(a.Token, a.Strategy)
	})
	slices.SortFunc(records, func(a, b strategy.Record) int {
		return strings.Compare(a.Token.Name(), b.Token.Name())
	})

	return records
}

// LoadRecords adds an agent per record, replacing the strategy of known tokens.
func (c *Controller) LoadRecords(ctx context.Context, records []strategy.Record) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}

	for _, record := range records {
		err := c.AddToken(ctx, record.Token)
		if err != nil && !errors.HasCode(err, errors.ErrCodeAgentAlreadyExists) {
			return err
		}

		if err := c.SetStrategy(ctx, record.Token, record.Strategy); err != nil {
			return err
		}
	}

	return nil
}

// Backtest replays the last window of token through a copy of its agent.
func (c *Controller) Backtest(ctx context.Context, token types.Token, window types.TimeWindow, opts ...backtest.Option) (backtest.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.agents[token.Key()]
	if !ok {
		return backtest.Result{}, agentNotFound(token)
	}

	samples, err := c.source.GetLast(ctx, token, window)
	if err != nil {
		return backtest.Result{}, err
	}

	return backtest.Run(ctx, a, samples, opts...), nil
}

// Touch applies a batch of market events in order and reports what changed.
func (c *Controller) Touch(ctx context.Context, events []types.MarketEvent) []Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	var updates []Update

	for _, event := range events {
		c.metrics.EventsProcessed.WithLabelValues(string(event.Kind)).Inc()

		switch event.Kind {
		case types.MarketEventKline:
			if c.touchKline(ctx, event) {
				updates = append(updates, Update{Kind: UpdateKline, Token: event.Token})
			}
		case types.MarketEventTicks:
			c.touchTicks(event.Ticks)
		case types.MarketEventBook:
			if c.touchBook(ctx, event.Book) {
				updates = append(updates, Update{Kind: UpdateBook, Token: event.Book.Token})
			}
		}
	}

	return updates
}

func (c *Controller) touchKline(ctx context.Context, event types.MarketEvent) bool {
	a, ok := c.agents[event.Token.Key()]
	if !ok {
		return false
	}

	if err := c.source.Append(ctx, event.Token, event.Sample); err != nil {
		c.metrics.AppendErrors.WithLabelValues(event.Token.Name()).Inc()
		c.log.Error("Failed to append sample",
			zap.String("token", event.Token.Name()),
			zap.Time("time", event.Sample.Time),
			zap.Error(err),
		)

		return false
	}

	return event.Sample.Resolution == a.Strategy.Window.Resolution
}

func (c *Controller) touchTicks(ticks []types.MarketTick) {
	for _, tick := range ticks {
		c.ticks[tick.Token.Key()] = tick
		c.metrics.LastPrice.WithLabelValues(tick.Token.Name()).Set(tick.Price)
	}
}

func (c *Controller) touchBook(ctx context.Context, book types.Book) bool {
	a, ok := c.agents[book.Token.Key()]
	if !ok {
		return false
	}

	started := time.Now()
	orders := a.Decide(ctx, book, c.source)
	c.metrics.DecideDuration.Observe(time.Since(started).Seconds())

	for _, order := range orders {
		c.metrics.OrdersDecided.WithLabelValues(order.Token.Name(), string(order.Side)).Inc()
		c.submit(ctx, a, order)
	}

	c.metrics.RecordLedger(a.Token.Name(), a.Ledger.Capital, a.Ledger.LockedCapital, a.Ledger.Balance, len(a.Ledger.Positions))

	return true
}

// submit sends one order. Accepted orders are filled whole, refused ones are cancelled.
func (c *Controller) submit(ctx context.Context, a *agent.Chrysus, order types.Order) {
	id, err := c.trader.Submit(ctx, order)
	c.metrics.RecordSubmission(order.Token.Name(), string(order.Side), err)

	if err != nil {
		c.log.Error("Order rejected",
			zap.String("token", order.Token.Name()),
			zap.Int("index", order.Index),
			zap.String("side", string(order.Side)),
			zap.Error(err),
		)
		a.Cancel(order)

		return
	}

	c.log.Info("Order submitted",
		zap.String("token", order.Token.Name()),
		zap.Int("index", order.Index),
		zap.Int64("exchange_id", id),
	)
	a.Realize(order.WithExchangeID(id))
}

func agentNotFound(token types.Token) error {
	return errors.Newf(errors.ErrCodeAgentNotFound, "no agent for %s", token.Name())
}
