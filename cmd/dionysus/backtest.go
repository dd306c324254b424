package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rxtech-lab/dionysus/internal/agent"
	"github.com/rxtech-lab/dionysus/internal/backtest"
	"github.com/rxtech-lab/dionysus/internal/config"
	"github.com/rxtech-lab/dionysus/internal/counselor"
	"github.com/rxtech-lab/dionysus/internal/oracle"
	"github.com/rxtech-lab/dionysus/internal/strategy"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func backtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Replay history through an agent and report its performance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Token pair, e.g. BTC/USDT",
				Value:   "BTC/USDT",
			},
			&cli.StringFlag{
				Name:  "records",
				Usage: "Strategy record file; the record of the token is used",
			},
			&cli.StringSliceFlag{
				Name:    "counselor",
				Aliases: []string{"c"},
				Usage:   "Counselor line, e.g. \"MEAN-REVERSION 20\" (repeatable, replaces the record strategy)",
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   fmt.Sprintf("History source (%v)", sourceKinds),
				Value:   sourceBrownian,
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "DuckDB store path; empty keeps samples in memory",
			},
			&cli.StringFlag{
				Name:    "resolution",
				Aliases: []string{"r"},
				Usage:   "Candle resolution, e.g. 1h; defaults to the strategy resolution",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of candles to replay",
				Value:   500,
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Seed of the brownian source",
				Value: 1,
			},
			&cli.FloatFlag{
				Name:  "capital",
				Usage: "Starting capital",
				Value: backtest.DefaultStartingCapital,
			},
			&cli.FloatFlag{
				Name:  "mark",
				Usage: "Price used to value the symbol balance; defaults to the last close",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report as YAML to this path",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Hide the progress bar",
			},
		},
		Action: backtestAction,
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	token, err := types.ParseToken(cmd.String("token"))
	if err != nil {
		return err
	}

	s, err := backtestStrategy(cmd, token)
	if err != nil {
		return err
	}

	window := types.NewTimeWindow(s.Window.Resolution, int(cmd.Int("count")))
	if name := cmd.String("resolution"); name != "" {
		resolution, err := types.ParseResolution(name)
		if err != nil {
			return err
		}

		window.Resolution = resolution
		s.Window.Resolution = resolution
	}

	settings, err := config.Load("", cmd.String("env-file"))
	if err != nil {
		return err
	}

	series, closeSeries, err := openSeries(cmd.String("store"), log)
	if err != nil {
		return err
	}
	defer closeSeries()

	source, err := newSource(sourceOptions{
		kind:              cmd.String("source"),
		seed:              int64(cmd.Int("seed")),
		requestsPerSecond: settings.Exchange.RequestsPerSecond,
		polygonAPIKey:     settings.PolygonAPIKey,
	}, series, log)
	if err != nil {
		return err
	}

	if err := source.FetchLast(ctx, token, window); err != nil && !errors.IsNotImplemented(err) {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	samples, err := source.GetLast(ctx, token, window)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(samples) == 0 {
		return fmt.Errorf("no history for %s", token.Name())
	}

	log.Info("Running backtest",
		zap.String("token", token.Name()),
		zap.String("strategy", s.Name()),
		zap.Int("samples", len(samples)),
	)

	opts := []backtest.Option{backtest.WithStartingCapital(cmd.Float("capital"))}

	if !cmd.Bool("quiet") {
		var bar *progressbar.ProgressBar

		opts = append(opts, backtest.WithProgress(func(current, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s", token.Name())),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWriter(cmd.Root().ErrWriter),
				)
			}

			_ = bar.Set(current)
		}))
	}

	result := backtest.Run(ctx, agent.New(token, s, agent.WithLogger(log)), samples, opts...)

	mark := cmd.Float("mark")
	if mark <= 0 {
		mark = samples[len(samples)-1].Close
	}

	report := backtest.NewReport(result, mark, time.Now())
	fmt.Fprintln(cmd.Root().Writer)
	fmt.Fprintln(cmd.Root().Writer, RenderReport(report))

	if output := cmd.String("output"); output != "" {
		if err := backtest.WriteReport(output, report); err != nil {
			return err
		}

		fmt.Fprintf(cmd.Root().Writer, "Report written to %s\n", output)
	}

	return nil
}

// backtestStrategy picks the counselor flags, then the record of token, then the default strategy.
func backtestStrategy(cmd *cli.Command, token types.Token) (strategy.Strategy, error) {
	s := strategy.Default()

	if path := cmd.String("records"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return strategy.Strategy{}, fmt.Errorf("failed to open records: %w", err)
		}

		records, err := strategy.LoadRecords(path)
		if err != nil {
			return strategy.Strategy{}, err
		}

		found := false

		for _, record := range records {
			if record.Token.Key() == token.Key() {
				s = record.Strategy
				found = true

				break
			}
		}

		if !found {
			return strategy.Strategy{}, fmt.Errorf("no record for %s in %s", token.Name(), path)
		}
	}

	if lines := cmd.StringSlice("counselor"); len(lines) > 0 {
		counselors := make([]counselor.Counselor, 0, len(lines))

		for _, line := range lines {
			c, err := counselor.Parse(line)
			if err != nil {
				return strategy.Strategy{}, err
			}

			counselors = append(counselors, c)
		}

		s = strategy.New(oracle.Delphi, s.Window, counselors...)
	}

	return s, nil
}
