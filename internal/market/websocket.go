package market

import (
	binance "github.com/adshao/go-binance/v2"
)

// WebSocketService is the subset of the go-binance websocket API used by the feed.
type WebSocketService interface {
	WsKlineServe(symbol, interval string, handler binance.WsKlineHandler, errHandler binance.ErrHandler) (doneC, stopC chan struct{}, err error)
	WsPartialDepthServe(symbol, levels string, handler binance.WsPartialDepthHandler, errHandler binance.ErrHandler) (doneC, stopC chan struct{}, err error)
	WsAllMarketsStatServe(handler binance.WsAllMarketsStatHandler, errHandler binance.ErrHandler) (doneC, stopC chan struct{}, err error)
}

// BinanceWebSocketService connects to the public Binance streams.
type BinanceWebSocketService struct{}

// NewBinanceWebSocketService creates the production websocket service.
func NewBinanceWebSocketService() *BinanceWebSocketService {
	return &BinanceWebSocketService{}
}

func (BinanceWebSocketService) WsKlineServe(symbol, interval string, handler binance.WsKlineHandler, errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
	return binance.WsKlineServe(symbol, interval, handler, errHandler)
}

func (BinanceWebSocketService) WsPartialDepthServe(symbol, levels string, handler binance.WsPartialDepthHandler, errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
	return binance.WsPartialDepthServe(symbol, levels, handler, errHandler)
}

func (BinanceWebSocketService) WsAllMarketsStatServe(handler binance.WsAllMarketsStatHandler, errHandler binance.ErrHandler) (chan struct{}, chan struct{}, error) {
	return binance.WsAllMarketsStatServe(handler, errHandler)
}
