package backtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/dionysus/internal/agent"
	"github.com/rxtech-lab/dionysus/internal/counselor"
	"github.com/rxtech-lab/dionysus/internal/oracle"
	"github.com/rxtech-lab/dionysus/internal/strategy"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/mocks"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BacktestTestSuite struct {
	suite.Suite
	token types.Token
	start time.Time
	agent *agent.Chrysus
}

func TestBacktestSuite(t *testing.T) {
	suite.Run(t, new(BacktestTestSuite))
}

func (suite *BacktestTestSuite) SetupTest() {
	suite.token = types.NewPair("BTC", "USDT")
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := strategy.New(oracle.Delphi, types.NewTimeWindow(types.Hour(), 3), counselor.MeanReversion(3))
	suite.agent = agent.New(suite.token, s)
}

func (suite *BacktestTestSuite) history(closes ...float64) []types.Sample {
	return mocks.SamplesFromCloses(types.Hour(), suite.start, closes...)
}

func (suite *BacktestTestSuite) TestBuyThenSell() {
	history := suite.history(10, 10, 10, 8, 20, 20, 20, 25)

	result := Run(context.Background(), suite.agent, history)
	suite.Require().Len(result.Orders, 2)

	buy := result.Orders[0]
	suite.Equal(types.SideBuy, buy.Side)
	suite.Equal(10.0, buy.Price)
	suite.InDelta(100.0, buy.Quantity, 1e-9)
	suite.Equal(history[3].Time, buy.Date)

	sell := result.Orders[1]
	suite.Equal(types.SideSell, sell.Side)
	suite.Equal(history[4].Time, sell.Date)
	suite.Greater(sell.Price, 10.0)
	suite.Require().True(sell.PositionIndex.IsSome())
	suite.Equal(0, sell.PositionIndex.Unwrap())

	suite.InDelta(100*sell.Price, result.CurrencyBalance, 1e-6)
	suite.InDelta(0.0, result.SymbolBalance, 1e-9)
	suite.Equal(DefaultStartingCapital, result.StartingCapital)
	suite.Equal(types.NewTimeWindow(types.Hour(), 8), result.Period)

	suite.Equal(1, result.Stats.NumberOfTrades)
	suite.Equal(1, result.Stats.NumberOfWinningTrades)
	suite.Equal(1.0, result.Stats.WinRate)
	suite.InDelta(100*(sell.Price-10), result.Stats.RealizedPnL, 1e-6)
	suite.Equal(3600, result.Stats.HoldingTime.Avg)
	suite.True(result.Profit(25).GreaterThan(decimal.Zero))
}

func (suite *BacktestTestSuite) TestAgentIsNotMutated() {
	suite.agent.Ledger.Capital = 42

	Run(context.Background(), suite.agent, suite.history(10, 10, 10, 8, 20))

	suite.Equal(42.0, suite.agent.Ledger.Capital)
	suite.Empty(suite.agent.Orders())
	suite.Empty(suite.agent.Positions())
}

func (suite *BacktestTestSuite) TestLookbackGating() {
	history := suite.history(10, 10, 10)

	calls := 0
	result := Run(context.Background(), suite.agent, history, WithProgress(func(_, _ int) { calls++ }))

	suite.Empty(result.Orders)
	suite.Zero(calls)
	suite.Equal(DefaultStartingCapital, result.CurrencyBalance)
	suite.True(result.Profit(10).IsZero())
}

func (suite *BacktestTestSuite) TestEmptyHistory() {
	result := Run(context.Background(), suite.agent, nil)

	suite.Empty(result.Orders)
	suite.Equal(0, result.Period.Count)
}

func (suite *BacktestTestSuite) TestDeterminism() {
	s := strategy.New(oracle.Delphi, types.NewTimeWindow(types.Hour(), 50),
		counselor.MeanReversion(20), counselor.MACDCrossover(12, 26, 9))
	a := agent.New(suite.token, s)
	history := mocks.Generate500()

	first := Run(context.Background(), a, history)
	second := Run(context.Background(), a, history)

	suite.Equal(first.Orders, second.Orders)
	suite.Equal(first.CurrencyBalance, second.CurrencyBalance)
	suite.Equal(first.SymbolBalance, second.SymbolBalance)
	suite.Equal(first.Stats, second.Stats)
}

func (suite *BacktestTestSuite) TestOptions() {
	history := suite.history(10, 10, 10, 8, 9, 9)

	var progress [][2]int
	result := Run(context.Background(), suite.agent, history,
		WithStartingCapital(500),
		WithProgress(func(current, total int) {
			progress = append(progress, [2]int{current, total})
		}),
	)

	suite.Equal(500.0, result.StartingCapital)
	suite.Equal([][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)
	suite.Require().NotEmpty(result.Orders)
	suite.InDelta(50.0, result.Orders[0].Quantity, 1e-9)
}

func (suite *BacktestTestSuite) TestPercentChange() {
	suite.Equal("10", PercentChange(decimal.NewFromInt(100), decimal.NewFromInt(110)).String())
	suite.Equal("-50", PercentChange(decimal.NewFromInt(1000), decimal.NewFromInt(500)).String())
	suite.True(PercentChange(decimal.Zero, decimal.NewFromInt(5)).IsZero())

	result := Result{StartingCapital: 1000, CurrencyBalance: 500, SymbolBalance: 10}
	suite.Equal("1500", result.FinalValue(100).String())
	suite.Equal("50", result.Profit(100).String())
}

func (suite *BacktestTestSuite) TestReplaySource() {
	history := suite.history(1, 2, 3, 4, 5)
	source := newReplay(history)
	source.seek(4)

	samples, err := source.GetLast(context.Background(), suite.token, types.NewTimeWindow(types.Hour(), 2))
	suite.Require().NoError(err)
	suite.Equal([]float64{3, 4}, types.Closes(samples))

	samples, err = source.GetLast(context.Background(), suite.token, types.NewTimeWindow(types.Hour(), 10))
	suite.Require().NoError(err)
	suite.Len(samples, 4)

	suite.True(errors.IsNotImplemented(source.Append(context.Background(), suite.token, history[0])))
	suite.True(errors.IsNotImplemented(source.FetchLast(context.Background(), suite.token, types.Days(1))))
}

func (suite *BacktestTestSuite) TestReportRoundTrip() {
	result := Run(context.Background(), suite.agent, suite.history(10, 10, 10, 8, 20, 20, 20, 25))
	report := NewReport(result, 25, suite.start)

	suite.NotEmpty(report.ID)
	suite.Equal("BTC/USDT", report.Token)
	suite.Equal(2, report.NumberOfOrders)
	suite.Equal("1h", report.Resolution)

	path := filepath.Join(suite.T().TempDir(), "report.yaml")
	suite.Require().NoError(WriteReport(path, report))

	loaded, err := ReadReport(path)
	suite.Require().NoError(err)
	suite.Equal(report.ID, loaded.ID)
	suite.True(report.Profit.Equal(loaded.Profit))
	suite.True(report.FinalValue.Equal(loaded.FinalValue))
	suite.Equal(report.Trades, loaded.Trades)
}

func (suite *BacktestTestSuite) TestReadReportMissingFile() {
	_, err := ReadReport(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestReportFailed))
}
