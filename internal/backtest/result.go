package backtest

import (
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/shopspring/decimal"
)

// Result is the outcome of one backtest run.
type Result struct {
	Token    types.Token
	Strategy string
	// StartingCapital is the free capital the clone started with.
	StartingCapital float64
	// CurrencyBalance is the free capital at the end of the run.
	CurrencyBalance float64
	// SymbolBalance is the quantity of the symbol held at the end of the run.
	SymbolBalance float64
	// Orders are every order emitted during the run, in emission order.
	Orders []types.Order
	// Period is the history resolution and length.
	Period types.TimeWindow
	Stats  TradeStats
}

// FinalValue values the run with the symbol balance marked at price.
func (r Result) FinalValue(mark float64) decimal.Decimal {
	currency := decimal.NewFromFloat(r.CurrencyBalance)
	symbol := decimal.NewFromFloat(r.SymbolBalance).Mul(decimal.NewFromFloat(mark))

	return currency.Add(symbol)
}

// Profit is the percent change from the starting capital to the final value at mark.
func (r Result) Profit(mark float64) decimal.Decimal {
	return PercentChange(decimal.NewFromFloat(r.StartingCapital), r.FinalValue(mark))
}

// PercentChange returns (end - start) / start * 100. A zero start yields zero.
func PercentChange(start, end decimal.Decimal) decimal.Decimal {
	if start.IsZero() {
		return decimal.Zero
	}

	return end.Sub(start).Div(start).Mul(decimal.NewFromInt(100))
}
