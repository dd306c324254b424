// Package agent implements Chrysus, the per-token trading agent that turns
// strategy decisions into orders and applies fills to its ledger.
//
// An agent is not safe for concurrent use. Its owner serialises Decide and Realize.
package agent

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/dionysus/internal/history"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/oracle"
	"github.com/rxtech-lab/dionysus/internal/strategy"
	"github.com/rxtech-lab/dionysus/internal/types"
	"go.uber.org/zap"
)

// Chrysus trades one token with one strategy.
type Chrysus struct {
	Token    types.Token
	Strategy strategy.Strategy
	Ledger   *Ledger

	logger *logger.Logger
	now    func() time.Time
}

// Option configures a Chrysus.
type Option func(*Chrysus)

// WithLogger sets the logger. Agents log nothing by default.
func WithLogger(l *logger.Logger) Option {
	return func(c *Chrysus) {
		c.logger = l
	}
}

// WithClock sets the clock used to date quotes and orders.
func WithClock(now func() time.Time) Option {
	return func(c *Chrysus) {
		c.now = now
	}
}

// WithCapital sets the starting free capital.
func WithCapital(capital float64) Option {
	return func(c *Chrysus) {
		c.Ledger = NewLedger(capital)
	}
}

// New creates an agent with an empty ledger.
func New(token types.Token, s strategy.Strategy, opts ...Option) *Chrysus {
	c := &Chrysus{
		Token:    token,
		Strategy: s,
		Ledger:   NewLedger(0),
		logger:   logger.NewNopLogger(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Clone copies the configuration of the agent with a fresh ledger holding capital.
func (c *Chrysus) Clone(capital float64) *Chrysus {
	return &Chrysus{
		Token:    c.Token,
		Strategy: c.Strategy,
		Ledger:   NewLedger(capital),
		logger:   c.logger,
		now:      c.now,
	}
}

// Positions returns the open positions ordered by index.
func (c *Chrysus) Positions() []types.Position {
	return c.Ledger.SortedPositions()
}

// Orders returns every order the agent emitted, ordered by index.
func (c *Chrysus) Orders() []types.Order {
	return c.Ledger.SortedOrders()
}

// Equity values the agent with its symbol balance marked at price.
func (c *Chrysus) Equity(mark float64) float64 {
	return c.Ledger.Equity(mark)
}

// Decide turns the current order book into orders. Failures of the history source
// or the strategy are logged and produce no orders.
func (c *Chrysus) Decide(ctx context.Context, book types.Book, source history.Source) []types.Order {
	now := c.now()

	q := book.Quote(now)
	if q.IsNone() {
		return nil
	}

	quote := q.Unwrap()

	samples, err := source.GetLast(ctx, c.Token, c.Strategy.Window)
	if err != nil {
		c.logger.Warn("Failed to get history, skipping tick",
			zap.String("token", c.Token.Name()),
			zap.String("window", c.Strategy.Window.Resolution.Name()),
			zap.Error(err),
		)

		return nil
	}

	decision, err := c.Strategy.Run(quote, samples)
	if err != nil {
		c.logger.Warn("Strategy failed, skipping tick",
			zap.String("token", c.Token.Name()),
			zap.String("strategy", c.Strategy.Name()),
			zap.Error(err),
		)

		return nil
	}

	switch decision.Advice.Signal {
	case types.SignalBuy:
		return c.buy(decision, now)
	case types.SignalSell:
		return c.sell(decision, now)
	default:
		return nil
	}
}

func (c *Chrysus) buy(decision oracle.Decision, now time.Time) []types.Order {
	advice := decision.Advice
	if advice.StopPrice <= 0 {
		return nil
	}

	allocated := decision.Pct * c.Ledger.Capital

	quantity := allocated / advice.StopPrice
	if quantity <= 0 {
		return nil
	}

	c.Ledger.Capital -= allocated
	c.Ledger.LockedCapital += allocated

	order := c.newOrder(types.SideBuy, quantity, decision, now)
	c.Ledger.Orders[order.Index] = order

	c.logger.Info("Buy order",
		zap.String("token", c.Token.Name()),
		zap.Int("index", order.Index),
		zap.Float64("quantity", order.Quantity),
		zap.Float64("price", order.Price),
	)

	return []types.Order{order}
}

func (c *Chrysus) sell(decision oracle.Decision, now time.Time) []types.Order {
	var orders []types.Order

	for _, position := range c.Ledger.SortedPositions() {
		if position.IsAttached() || decision.Advice.StopPrice <= position.Price {
			continue
		}

		order := c.newOrder(types.SideSell, position.Quantity, decision, now)
		order.PositionIndex = optional.Some(position.Index)

		position.AttachedOrder = optional.Some(order.Index)
		c.Ledger.Positions[position.Index] = position
		c.Ledger.Orders[order.Index] = order

		c.logger.Info("Sell order",
			zap.String("token", c.Token.Name()),
			zap.Int("index", order.Index),
			zap.Int("position", position.Index),
			zap.Float64("quantity", order.Quantity),
			zap.Float64("price", order.Price),
		)

		orders = append(orders, order)
	}

	return orders
}

func (c *Chrysus) newOrder(side types.Side, quantity float64, decision oracle.Decision, now time.Time) types.Order {
	advice := decision.Advice

	order := types.Order{
		Index:    c.Ledger.takeOrderIndex(),
		Token:    c.Token,
		Date:     now,
		Side:     side,
		Quantity: quantity,
		Price:    advice.StopPrice,
		Type:     advice.OrderType,
		TIF:      advice.TIF,
	}

	if advice.OrderType == types.OrderTypeStopMarket || advice.OrderType == types.OrderTypeStopLimit {
		order.StopPrice = optional.Some(advice.StopPrice)
	}

	return order
}

// Realize applies a fill of the whole order to the ledger.
//
// Realize must be called at most once per accepted fill. It keeps no record of
// applied orders: a second call for the same order counts the fill twice.
func (c *Chrysus) Realize(order types.Order) {
	value := order.Quantity * order.Price

	switch order.Side {
	case types.SideBuy:
		c.Ledger.LockedCapital -= value
		c.Ledger.Balance += order.Quantity

		index := c.Ledger.takePositionIndex()
		c.Ledger.Positions[index] = types.Position{
			Index:    index,
			Token:    order.Token,
			Quantity: order.Quantity,
			Price:    order.Price,
			Date:     order.Date,
		}
	case types.SideSell:
		if order.PositionIndex.IsSome() {
			delete(c.Ledger.Positions, order.PositionIndex.Unwrap())
		}

		c.Ledger.Balance -= order.Quantity
		c.Ledger.Capital += value
	}

	c.Ledger.Orders[order.Index] = order
}

// Cancel withdraws an order the exchange refused. A buy releases its locked capital,
// a sell frees its position for a later order.
func (c *Chrysus) Cancel(order types.Order) {
	switch order.Side {
	case types.SideBuy:
		value := order.Quantity * order.Price
		c.Ledger.LockedCapital -= value
		c.Ledger.Capital += value
	case types.SideSell:
		if order.PositionIndex.IsSome() {
			index := order.PositionIndex.Unwrap()
			if position, ok := c.Ledger.Positions[index]; ok {
				position.AttachedOrder = optional.None[int]()
				c.Ledger.Positions[index] = position
			}
		}
	}

	delete(c.Ledger.Orders, order.Index)
}
