package counselor

import "github.com/rxtech-lab/dionysus/internal/types"

// Advice is the output of one counselor: a signal and order shape hints.
type Advice struct {
	Signal     types.Signal      `yaml:"signal" json:"signal"`
	OrderType  types.OrderType   `yaml:"order_type" json:"order_type"`
	StopPrice  float64           `yaml:"stop_price" json:"stop_price"`
	StopLoss   float64           `yaml:"stop_loss" json:"stop_loss"`
	TakeProfit float64           `yaml:"take_profit" json:"take_profit"`
	TIF        types.TimeInForce `yaml:"tif" json:"tif"`
}

// NoAdvice is the default advice: no signal, a good-till-cancel market order shape.
func NoAdvice() Advice {
	return Advice{
		Signal:    types.SignalNone,
		OrderType: types.OrderTypeMarket,
		TIF:       types.TimeInForceGTC,
	}
}

// HasSignal reports whether the advice asks for a trade.
func (a Advice) HasSignal() bool {
	return !a.Signal.IsNone()
}

// buyFrom projects a buy with a 1:1 risk reward ratio.
func buyFrom(stopPrice, stopLoss float64) Advice {
	advice := NoAdvice()
	advice.Signal = types.SignalBuy
	advice.StopPrice = stopPrice
	advice.StopLoss = stopLoss
	advice.TakeProfit = stopPrice + (stopPrice - stopLoss)

	return advice
}

// sellFrom projects a sell with a 1:1 risk reward ratio.
func sellFrom(stopPrice, stopLoss float64) Advice {
	advice := NoAdvice()
	advice.Signal = types.SignalSell
	advice.StopPrice = stopPrice
	advice.StopLoss = stopLoss
	advice.TakeProfit = stopPrice - (stopLoss - stopPrice)

	return advice
}
