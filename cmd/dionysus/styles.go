package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/dionysus/internal/backtest"
	"github.com/shopspring/decimal"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for report keys.
	LabelStyle = lipgloss.NewStyle().Faint(true).Width(18)

	// GainStyle and LossStyle color the profit line.
	GainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	LossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	// BoxStyle frames the report.
	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// FormatProfit formats a percent change with a direction marker.
func FormatProfit(profit decimal.Decimal) string {
	text := profit.StringFixed(2) + "%"

	switch {
	case profit.IsPositive():
		return GainStyle.Render(text + " ▲")
	case profit.IsNegative():
		return LossStyle.Render(text + " ▼")
	default:
		return text
	}
}

// RenderReport lays out a backtest report for the terminal.
func RenderReport(report backtest.Report) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
	}

	rows := []string{
		TitleStyle.Render(fmt.Sprintf("%s  %s", report.Token, report.Strategy)),
		"",
		row("Samples", fmt.Sprintf("%d × %s", report.Samples, report.Resolution)),
		row("Starting capital", report.StartingCapital.StringFixed(2)),
		row("Currency balance", report.CurrencyBalance.StringFixed(2)),
		row("Symbol balance", report.SymbolBalance.String()),
		row("Mark price", report.MarkPrice.String()),
		row("Final value", report.FinalValue.StringFixed(2)),
		row("Profit", FormatProfit(report.Profit)),
		"",
		row("Orders", fmt.Sprintf("%d", report.NumberOfOrders)),
		row("Trades", fmt.Sprintf("%d (%d won, %d lost)", report.Trades.NumberOfTrades,
			report.Trades.NumberOfWinningTrades, report.Trades.NumberOfLosingTrades)),
		row("Win rate", fmt.Sprintf("%.1f%%", report.Trades.WinRate*100)),
		row("Realized PnL", fmt.Sprintf("%.2f", report.Trades.RealizedPnL)),
	}

	return BoxStyle.Render(strings.Join(rows, "\n"))
}
