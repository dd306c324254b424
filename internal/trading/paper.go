package trading

import (
	"context"
	"sync"

	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/types"
	"go.uber.org/zap"
)

// PaperTrader accepts every valid order and fills it immediately.
type PaperTrader struct {
	logger *logger.Logger
	nextID int64
	orders []types.Order
	mutex  sync.Mutex
}

// NewPaperTrader creates a trader that never reaches an exchange.
func NewPaperTrader(log *logger.Logger) *PaperTrader {
	return &PaperTrader{logger: log, nextID: 1}
}

// Submit implements Trader.
func (p *PaperTrader) Submit(_ context.Context, order types.Order) (int64, error) {
	if err := order.Validate(); err != nil {
		return 0, err
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	id := p.nextID
	p.nextID++
	p.orders = append(p.orders, order.WithExchangeID(id))

	p.logger.Info("Paper order filled",
		zap.Int64("id", id),
		zap.String("token", order.Token.Name()),
		zap.String("side", string(order.Side)),
		zap.Float64("quantity", order.Quantity),
		zap.Float64("price", order.Price),
	)

	return id, nil
}

// OpenOrders implements Trader. Paper orders fill at once, so none stay open.
func (p *PaperTrader) OpenOrders(_ context.Context, _ types.Token) ([]types.OrderStatus, error) {
	return nil, nil
}

// Orders returns every accepted order with its id.
func (p *PaperTrader) Orders() []types.Order {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return append([]types.Order(nil), p.orders...)
}
