package market

import (
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/dionysus/internal/history"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/internal/utils"
)

// depthLevels are the book depths the partial depth stream accepts.
var depthLevels = []int{5, 10, 20}

// streamDepth rounds depth up to a supported level.
func streamDepth(depth int) string {
	for _, level := range depthLevels {
		if depth <= level {
			return strconv.Itoa(level)
		}
	}

	return strconv.Itoa(depthLevels[len(depthLevels)-1])
}

func sampleFromKlineEvent(resolution types.Resolution, event *binance.WsKlineEvent) (types.Sample, error) {
	k := event.Kline

	return history.SampleFromKline(resolution, k.StartTime, k.Open, k.High, k.Low, k.Close, k.Volume)
}

func bookFromDepthEvent(token types.Token, event *binance.WsPartialDepthEvent) types.Book {
	book := types.Book{
		Token: token,
		Bids:  make([]types.BookLine, 0, len(event.Bids)),
		Asks:  make([]types.BookLine, 0, len(event.Asks)),
	}

	for _, bid := range event.Bids {
		book.Bids = append(book.Bids, types.BookLine{Price: utils.ParseDecimal(bid.Price), Quantity: utils.ParseDecimal(bid.Quantity)})
	}

	for _, ask := range event.Asks {
		book.Asks = append(book.Asks, types.BookLine{Price: utils.ParseDecimal(ask.Price), Quantity: utils.ParseDecimal(ask.Quantity)})
	}

	return book
}

// ticksFromStats keeps the tickers of the watched tokens, keyed by exchange symbol.
func ticksFromStats(watched map[string]types.Token, event binance.WsAllMarketsStatEvent) []types.MarketTick {
	ticks := make([]types.MarketTick, 0, len(watched))

	for _, stat := range event {
		token, ok := watched[stat.Symbol]
		if !ok {
			continue
		}

		ticks = append(ticks, types.MarketTick{
			Token:     token,
			Price:     utils.ParseDecimal(stat.LastPrice),
			ChangePct: utils.ParseDecimal(stat.PriceChangePercent),
		})
	}

	return ticks
}

func eventTime(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}
