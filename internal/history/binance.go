package history

import (
	"context"
	"slices"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// binanceKlinesLimit is the largest page the klines endpoint returns.
const binanceKlinesLimit = 1000

// binanceIntervals are the kline intervals the exchange accepts.
var binanceIntervals = []string{
	"1m", "3m", "5m", "15m", "30m", "1h", "2h", "4h", "6h", "8h", "12h", "1d", "3d", "1w", "1M",
}

// KlinesService is the subset of the go-binance klines service used by BinanceSource.
type KlinesService interface {
	Symbol(symbol string) KlinesService
	Interval(interval string) KlinesService
	Limit(limit int) KlinesService
	EndTime(endTime int64) KlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient abstracts the Binance client for testing.
type BinanceAPIClient interface {
	NewKlinesService() KlinesService
}

type realBinanceAPIClient struct {
	client *binance.Client
}

func (r *realBinanceAPIClient) NewKlinesService() KlinesService {
	return &realKlinesService{service: r.client.NewKlinesService()}
}

type realKlinesService struct {
	service *binance.KlinesService
}

func (s *realKlinesService) Symbol(symbol string) KlinesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realKlinesService) Interval(interval string) KlinesService {
	s.service = s.service.Interval(interval)

	return s
}

func (s *realKlinesService) Limit(limit int) KlinesService {
	s.service = s.service.Limit(limit)

	return s
}

func (s *realKlinesService) EndTime(endTime int64) KlinesService {
	s.service = s.service.EndTime(endTime)

	return s
}

func (s *realKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

// BinanceSource refreshes a Series from the Binance klines endpoint.
type BinanceSource struct {
	client  BinanceAPIClient
	series  Series
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewBinanceSource creates a source using the public Binance REST API,
// throttled to requestsPerSecond.
func NewBinanceSource(series Series, requestsPerSecond float64, log *logger.Logger) *BinanceSource {
	client := binance.NewClient("", "")

	return newBinanceSourceWithClient(&realBinanceAPIClient{client: client}, series, rate.NewLimiter(rate.Limit(requestsPerSecond), 1), log)
}

func newBinanceSourceWithClient(client BinanceAPIClient, series Series, limiter *rate.Limiter, log *logger.Logger) *BinanceSource {
	return &BinanceSource{
		client:  client,
		series:  series,
		limiter: limiter,
		logger:  log,
	}
}

// Append implements Source.
func (b *BinanceSource) Append(ctx context.Context, token types.Token, sample types.Sample) error {
	return appendKnown(ctx, b.series, token, sample)
}

// FetchLast implements Source. Windows larger than one page are fetched backwards page by page.
func (b *BinanceSource) FetchLast(ctx context.Context, token types.Token, window types.TimeWindow) error {
	interval, err := BinanceInterval(window.Resolution)
	if err != nil {
		return err
	}

	var (
		samples []types.Sample
		endTime int64
	)

	for remaining := window.Count; remaining > 0; {
		if err := b.limiter.Wait(ctx); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "rate limiter", err)
		}

		service := b.client.NewKlinesService().
			Symbol(token.String()).
			Interval(interval).
			Limit(min(remaining, binanceKlinesLimit))
		if endTime > 0 {
			service = service.EndTime(endTime)
		}

		klines, err := service.Do(ctx)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s klines for %s", interval, token.Name())
		}

		page, err := samplesFromKlines(window.Resolution, klines)
		if err != nil {
			return err
		}

		samples = append(page, samples...)
		remaining -= len(page)

		if len(page) == 0 || len(klines) < binanceKlinesLimit {
			break
		}

		endTime = klines[0].OpenTime - 1
	}

	b.logger.Debug("Fetched klines",
		zap.String("token", token.Name()),
		zap.String("interval", interval),
		zap.Int("count", len(samples)),
	)

	return merge(ctx, b.series, token, window.Resolution, samples)
}

// GetLast implements Source.
func (b *BinanceSource) GetLast(ctx context.Context, token types.Token, window types.TimeWindow) ([]types.Sample, error) {
	return b.series.Read(ctx, token, window.Resolution, window.Count)
}

// BinanceInterval maps a resolution to a Binance kline interval.
func BinanceInterval(resolution types.Resolution) (string, error) {
	name := resolution.Name()
	if !slices.Contains(binanceIntervals, name) {
		return "", errors.Newf(errors.ErrCodeInvalidResolution, "unsupported binance interval: %s", name)
	}

	return name, nil
}

func samplesFromKlines(resolution types.Resolution, klines []*binance.Kline) ([]types.Sample, error) {
	samples := make([]types.Sample, 0, len(klines))

	for _, k := range klines {
		sample, err := SampleFromKline(resolution, k.OpenTime, k.Open, k.High, k.Low, k.Close, k.Volume)
		if err != nil {
			return nil, err
		}

		samples = append(samples, sample)
	}

	return samples, nil
}

// SampleFromKline parses the string fields of a Binance kline.
func SampleFromKline(resolution types.Resolution, openTime int64, open, high, low, closePrice, volume string) (types.Sample, error) {
	prices := [4]float64{}

	for i, text := range []string{open, high, low, closePrice} {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return types.Sample{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline price %q", text)
		}

		prices[i] = value
	}

	v, err := strconv.ParseFloat(volume, 64)
	if err != nil {
		return types.Sample{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline volume %q", volume)
	}

	return types.Sample{
		Resolution: resolution,
		Time:       time.UnixMilli(openTime).UTC(),
		Open:       prices[0],
		High:       prices[1],
		Low:        prices[2],
		Close:      prices[3],
		Volume:     uint64(v),
	}, nil
}
