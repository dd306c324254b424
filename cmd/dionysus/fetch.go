package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/dionysus/internal/config"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download klines into the DuckDB store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "token",
				Aliases:  []string{"t"},
				Usage:    "Token pair, e.g. BTC/USDT",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "resolution",
				Aliases: []string{"r"},
				Usage:   "Candle resolution, e.g. 1h",
				Value:   "1h",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of candles to keep current",
				Value:   1000,
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   fmt.Sprintf("Remote source (%s, %s)", sourceBinance, sourcePolygon),
				Value:   sourceBinance,
			},
			&cli.StringFlag{
				Name:     "store",
				Usage:    "DuckDB store path",
				Required: true,
			},
		},
		Action: fetchAction,
	}
}

func fetchAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	token, err := types.ParseToken(cmd.String("token"))
	if err != nil {
		return err
	}

	resolution, err := types.ParseResolution(cmd.String("resolution"))
	if err != nil {
		return err
	}

	window := types.NewTimeWindow(resolution, int(cmd.Int("count")))

	kind := cmd.String("source")
	if kind != sourceBinance && kind != sourcePolygon {
		return fmt.Errorf("fetch supports %s and %s, got %q", sourceBinance, sourcePolygon, kind)
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
		kind:              kind,
		requestsPerSecond: settings.Exchange.RequestsPerSecond,
		polygonAPIKey:     settings.PolygonAPIKey,
	}, series, log)
	if err != nil {
		return err
	}

	log.Info("Fetching klines",
		zap.String("token", token.Name()),
		zap.String("resolution", resolution.Name()),
		zap.Int("count", window.Count),
	)

	if err := source.FetchLast(ctx, token, window); err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	samples, err := source.GetLast(ctx, token, window)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		fmt.Fprintf(cmd.Root().Writer, "No samples stored for %s\n", token.Name())

		return nil
	}

	fmt.Fprintf(cmd.Root().Writer, "Stored %d %s samples for %s from %s to %s\n",
		len(samples), resolution.Name(), token.Name(),
		samples[0].Time.Format("2006-01-02 15:04"), samples[len(samples)-1].Time.Format("2006-01-02 15:04"))

	return nil
}
