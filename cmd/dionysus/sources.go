package main

import (
	"fmt"

	"github.com/rxtech-lab/dionysus/internal/history"
	"github.com/rxtech-lab/dionysus/internal/logger"
)

const (
	sourceBrownian = "brownian"
	sourceBinance  = "binance"
	sourcePolygon  = "polygon"
	sourceStore    = "store"
)

var sourceKinds = []string{sourceBrownian, sourceBinance, sourcePolygon, sourceStore}

type sourceOptions struct {
	kind              string
	storePath         string
	seed              int64
	requestsPerSecond float64
	polygonAPIKey     string
}

// openSeries opens the DuckDB store at path, or an in-memory cache when path is empty.
func openSeries(path string, log *logger.Logger) (history.Series, func() error, error) {
	if path == "" {
		return history.NewCache(), func() error { return nil }, nil
	}

	store, err := history.NewDuckDBStore(path, log)
	if err != nil {
		return nil, nil, err
	}

	return store, store.Close, nil
}

func newSource(opts sourceOptions, series history.Series, log *logger.Logger) (history.Source, error) {
	switch opts.kind {
	case sourceBrownian:
		return history.NewBrownianSource(series, opts.seed), nil
	case sourceBinance:
		return history.NewBinanceSource(series, opts.requestsPerSecond, log), nil
	case sourcePolygon:
		return history.NewPolygonSource(opts.polygonAPIKey, series, log)
	case sourceStore:
		return history.NewLocal(series), nil
	default:
		return nil, fmt.Errorf("unknown source %q, expected one of %v", opts.kind, sourceKinds)
	}
}
