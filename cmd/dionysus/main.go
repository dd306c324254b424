package main

import (
	"context"
	"log"
	"os"

	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/version"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "dionysus",
		Usage:   "Backtest and run counselor driven trading agents",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Optional .env file holding exchange credentials",
				Value: ".env",
			},
		},
		Commands: []*cli.Command{
			backtestCommand(),
			fetchCommand(),
			schemaCommand(),
			counselorCommand(),
			runCommand(),
		},
	}
}

func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, err
	}

	return logger.NewLoggerWithLevel(level)
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
