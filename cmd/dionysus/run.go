package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxtech-lab/dionysus/internal/config"
	"github.com/rxtech-lab/dionysus/internal/controller"
	"github.com/rxtech-lab/dionysus/internal/history"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/market"
	"github.com/rxtech-lab/dionysus/internal/metrics"
	"github.com/rxtech-lab/dionysus/internal/server"
	"github.com/rxtech-lab/dionysus/internal/strategy"
	"github.com/rxtech-lab/dionysus/internal/trading"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Trade live: stream the market into the agents and submit their orders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"f"},
				Usage:   "Path to the YAML configuration",
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := config.Load(cmd.String("config"), cmd.String("env-file"))
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return err
	}
	defer log.Sync()

	interval, err := time.ParseDuration(settings.Feed.TouchInterval)
	if err != nil {
		return fmt.Errorf("invalid touch interval: %w", err)
	}

	series, closeSeries, err := openSeries(settings.Store.Path, log)
	if err != nil {
		return err
	}
	defer closeSeries()

	trader, err := newTrader(settings, log)
	if err != nil {
		return err
	}

	m := metrics.NewMetrics("")
	source := history.NewBinanceSource(series, settings.Exchange.RequestsPerSecond, log)
	ctrl := controller.New(source, trader,
		controller.WithCapital(settings.Capital),
		controller.WithMetrics(m),
		controller.WithLogger(log),
	)

	if err := loadAgents(ctx, ctrl, settings); err != nil {
		return err
	}

	subs := lo.Map(ctrl.Tokens(), func(token types.Token, _ int) market.Subscription {
		return market.Subscription{
			Token:      token,
			Resolution: ctrl.Get(token).Unwrap().Strategy.Window.Resolution,
			Depth:      settings.Feed.Depth,
		}
	})

	feedOpts := []market.FeedOption{
		market.WithPoolSize(settings.Feed.PoolSize),
		market.WithBufferSize(settings.Feed.BufferSize),
		market.WithLogger(log),
	}
	if settings.Feed.Ticks {
		feedOpts = append(feedOpts, market.WithTicks())
	}

	feed := market.NewFeed(market.NewBinanceWebSocketService(), feedOpts...)

	if settings.MetricsAddr != "" {
		status := server.New(ctrl, m, log)
		if err := status.Start(settings.MetricsAddr); err != nil {
			return err
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = status.Stop(shutdownCtx)
		}()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting live trading",
		zap.Int("agents", len(subs)),
		zap.String("exchange", settings.Exchange.Mode),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return feed.Run(ctx, subs)
	})

	g.Go(func() error {
		return ctrl.Run(ctx, feed, interval, func(updates []controller.Update) {
			for _, update := range updates {
				log.Debug("Update", zap.String("kind", string(update.Kind)), zap.String("token", update.Token.Name()))
			}
		})
	})

	runErr := g.Wait()

	if settings.Records != "" {
		if err := strategy.SaveRecords(settings.Records, ctrl.Records()); err != nil {
			log.Error("Failed to save records", zap.Error(err))
		}
	}

	log.Info("Live trading stopped")

	return runErr
}

func newTrader(settings config.Config, log *logger.Logger) (trading.Trader, error) {
	if settings.Exchange.Mode == config.ExchangeBinance {
		trader, err := trading.NewBinanceTrader(settings.BinanceConfig(), log)
		if err != nil {
			return nil, err
		}

		return trader, nil
	}

	return trading.NewPaperTrader(log), nil
}

// loadAgents restores the saved records, then adds the configured tokens missing from them.
func loadAgents(ctx context.Context, ctrl *controller.Controller, settings config.Config) error {
	if settings.Records != "" {
		if _, err := os.Stat(settings.Records); err == nil {
			records, err := strategy.LoadRecords(settings.Records)
			if err != nil {
				return err
			}

			if err := ctrl.LoadRecords(ctx, records); err != nil {
				return err
			}
		}
	}

	tokens, err := settings.ParsedTokens()
	if err != nil {
		return err
	}

	for _, token := range tokens {
		if err := ctrl.AddToken(ctx, token); err != nil && !errors.HasCode(err, errors.ErrCodeAgentAlreadyExists) {
			return err
		}
	}

	if len(ctrl.Tokens()) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "no tokens configured")
	}

	return nil
}
