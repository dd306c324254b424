package backtest

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Report is the persisted summary of a run.
type Report struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when the report was created.
	Timestamp time.Time `yaml:"timestamp"`
	Token     string    `yaml:"token"`
	Strategy  string    `yaml:"strategy"`
	// Resolution and Samples describe the replayed history.
	Resolution string `yaml:"resolution"`
	Samples    int    `yaml:"samples"`

	StartingCapital decimal.Decimal `yaml:"starting_capital"`
	CurrencyBalance decimal.Decimal `yaml:"currency_balance"`
	SymbolBalance   decimal.Decimal `yaml:"symbol_balance"`
	MarkPrice       decimal.Decimal `yaml:"mark_price"`
	FinalValue      decimal.Decimal `yaml:"final_value"`
	// Profit is the percent change from the starting capital to the final value.
	Profit decimal.Decimal `yaml:"profit"`

	NumberOfOrders int        `yaml:"number_of_orders"`
	Trades         TradeStats `yaml:"trades"`
}

// NewReport summarises result with the symbol balance marked at mark.
func NewReport(result Result, mark float64, at time.Time) Report {
	return Report{
		ID:              uuid.New().String(),
		Timestamp:       at,
		Token:           result.Token.Name(),
		Strategy:        result.Strategy,
		Resolution:      result.Period.Resolution.Name(),
		Samples:         result.Period.Count,
		StartingCapital: decimal.NewFromFloat(result.StartingCapital),
		CurrencyBalance: decimal.NewFromFloat(result.CurrencyBalance),
		SymbolBalance:   decimal.NewFromFloat(result.SymbolBalance),
		MarkPrice:       decimal.NewFromFloat(mark),
		FinalValue:      result.FinalValue(mark),
		Profit:          result.Profit(mark).Round(4),
		NumberOfOrders:  len(result.Orders),
		Trades:          result.Stats,
	}
}

// WriteReport writes report as YAML to path.
func WriteReport(path string, report Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestReportFailed, "failed to marshal backtest report", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestReportFailed, "failed to write backtest report", err)
	}

	return nil
}

// ReadReport reads a YAML report written by WriteReport.
func ReadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, errors.Wrap(errors.ErrCodeBacktestReportFailed, "failed to read backtest report", err)
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return Report{}, errors.Wrap(errors.ErrCodeBacktestReportFailed, "failed to parse backtest report", err)
	}

	return report, nil
}
