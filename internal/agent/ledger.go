package agent

import (
	"slices"

	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/samber/lo"
)

// Ledger is the runtime state of an agent. It is never persisted.
type Ledger struct {
	// Capital is the free quote currency.
	Capital float64
	// LockedCapital is committed to buy orders that have not been filled yet.
	LockedCapital float64
	// Balance is the net quantity of the symbol held.
	Balance   float64
	Positions map[int]types.Position
	Orders    map[int]types.Order

	nextPosition int
	nextOrder    int
}

// NewLedger creates an empty ledger holding capital.
func NewLedger(capital float64) *Ledger {
	return &Ledger{
		Capital:   capital,
		Positions: make(map[int]types.Position),
		Orders:    make(map[int]types.Order),
	}
}

func (l *Ledger) takeOrderIndex() int {
	index := l.nextOrder
	l.nextOrder++

	return index
}

func (l *Ledger) takePositionIndex() int {
	index := l.nextPosition
	l.nextPosition++

	return index
}

// SortedPositions returns the open positions ordered by index.
func (l *Ledger) SortedPositions() []types.Position {
	positions := lo.Values(l.Positions)
	slices.SortFunc(positions, func(a, b types.Position) int {
		return a.Index - b.Index
	})

	return positions
}

// SortedOrders returns the recorded orders ordered by index.
func (l *Ledger) SortedOrders() []types.Order {
	orders := lo.Values(l.Orders)
	slices.SortFunc(orders, func(a, b types.Order) int {
		return a.Index - b.Index
	})

	return orders
}

// Value is capital, locked capital and the entry value of the open positions.
// Only fills change it.
func (l *Ledger) Value() float64 {
	value := l.Capital + l.LockedCapital
	for _, position := range l.Positions {
		value += position.Value()
	}

	return value
}

// Equity values the ledger with the symbol balance marked at price.
func (l *Ledger) Equity(mark float64) float64 {
	return l.Capital + l.LockedCapital + l.Balance*mark
}
