package backtest

import (
	"github.com/rxtech-lab/dionysus/internal/types"
)

// TradeHoldingTime summarises how long positions stayed open, in seconds.
type TradeHoldingTime struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
	Avg int `yaml:"avg"`
}

// TradeStats summarises closed trades. A trade is a sell order closing a position.
type TradeStats struct {
	NumberOfTrades        int              `yaml:"number_of_trades"`
	NumberOfWinningTrades int              `yaml:"number_of_winning_trades"`
	NumberOfLosingTrades  int              `yaml:"number_of_losing_trades"`
	WinRate               float64          `yaml:"win_rate"`
	RealizedPnL           float64          `yaml:"realized_pnl"`
	MaximumProfit         float64          `yaml:"maximum_profit"`
	MaximumLoss           float64          `yaml:"maximum_loss"`
	MaxDrawdown           float64          `yaml:"max_drawdown"`
	HoldingTime           TradeHoldingTime `yaml:"holding_time"`
}

type statsAccumulator struct {
	totalTrades   int
	winningTrades int
	losingTrades  int
	realizedPnL   float64
	maxProfit     float64
	maxLoss       float64
	maxDrawdown   float64
	peakPnL       float64
	holdingTimes  []int
}

func newStatsAccumulator() *statsAccumulator {
	return &statsAccumulator{holdingTimes: make([]int, 0)}
}

// record accounts for a sell order closing position.
func (s *statsAccumulator) record(position types.Position, order types.Order) {
	pnl := (order.Price - position.Price) * order.Quantity

	s.totalTrades++
	s.realizedPnL += pnl

	if pnl > 0 {
		s.winningTrades++
	} else if pnl < 0 {
		s.losingTrades++
	}

	if pnl > s.maxProfit {
		s.maxProfit = pnl
	}

	if pnl < s.maxLoss {
		s.maxLoss = pnl
	}

	if s.realizedPnL > s.peakPnL {
		s.peakPnL = s.realizedPnL
	}

	if drawdown := s.peakPnL - s.realizedPnL; drawdown > s.maxDrawdown {
		s.maxDrawdown = drawdown
	}

	if held := int(order.Date.Sub(position.Date).Seconds()); held > 0 {
		s.holdingTimes = append(s.holdingTimes, held)
	}
}

func (s *statsAccumulator) build() TradeStats {
	stats := TradeStats{
		NumberOfTrades:        s.totalTrades,
		NumberOfWinningTrades: s.winningTrades,
		NumberOfLosingTrades:  s.losingTrades,
		RealizedPnL:           s.realizedPnL,
		MaximumProfit:         s.maxProfit,
		MaximumLoss:           s.maxLoss,
		MaxDrawdown:           s.maxDrawdown,
	}

	if s.totalTrades > 0 {
		stats.WinRate = float64(s.winningTrades) / float64(s.totalTrades)
	}

	if len(s.holdingTimes) > 0 {
		minTime := s.holdingTimes[0]
		maxTime := s.holdingTimes[0]
		total := 0

		for _, t := range s.holdingTimes {
			total += t
			minTime = min(minTime, t)
			maxTime = max(maxTime, t)
		}

		stats.HoldingTime = TradeHoldingTime{
			Min: minTime,
			Max: maxTime,
			Avg: total / len(s.holdingTimes),
		}
	}

	return stats
}
