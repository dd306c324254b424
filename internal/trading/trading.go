// Package trading submits agent orders to an exchange.
package trading

import (
	"context"

	"github.com/rxtech-lab/dionysus/internal/types"
)

// Trader is the execution boundary for orders emitted by agents.
type Trader interface {
	// Submit sends order to the exchange and returns the exchange order id.
	Submit(ctx context.Context, order types.Order) (int64, error)
	// OpenOrders returns the orders still working for token.
	OpenOrders(ctx context.Context, token types.Token) ([]types.OrderStatus, error)
}
