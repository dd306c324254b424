package trading

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/internal/utils"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"go.uber.org/zap"
)

const (
	// BinanceDecimalPrecision is a default decimal precision used as a fallback.
	// 8 decimals allows for satoshi-level precision (0.00000001 BTC) for BTC-like assets.
	BinanceDecimalPrecision = 8
)

// Service interfaces for mocking the Binance API

// CreateOrderService interface for creating orders.
type CreateOrderService interface {
	Symbol(symbol string) CreateOrderService
	Side(side binance.SideType) CreateOrderService
	Type(orderType binance.OrderType) CreateOrderService
	Quantity(quantity string) CreateOrderService
	Price(price string) CreateOrderService
	StopPrice(price string) CreateOrderService
	TimeInForce(tif binance.TimeInForceType) CreateOrderService
	Do(ctx context.Context) (*binance.CreateOrderResponse, error)
}

// ListOpenOrdersService interface for listing open orders.
type ListOpenOrdersService interface {
	Symbol(symbol string) ListOpenOrdersService
	Do(ctx context.Context) ([]*binance.Order, error)
}

// BinanceClient interface abstracts the Binance client for testing.
type BinanceClient interface {
	NewCreateOrderService() CreateOrderService
	NewListOpenOrdersService() ListOpenOrdersService
}

// realBinanceClient wraps the actual binance.Client.
type realBinanceClient struct {
	client *binance.Client
}

func (r *realBinanceClient) NewCreateOrderService() CreateOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realBinanceClient) NewListOpenOrdersService() ListOpenOrdersService {
	return &realListOpenOrdersService{service: r.client.NewListOpenOrdersService()}
}

type realCreateOrderService struct {
	service *binance.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side binance.SideType) CreateOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) Price(price string) CreateOrderService {
	s.service = s.service.Price(price)

	return s
}

func (s *realCreateOrderService) StopPrice(price string) CreateOrderService {
	s.service = s.service.StopPrice(price)

	return s
}

func (s *realCreateOrderService) TimeInForce(tif binance.TimeInForceType) CreateOrderService {
	s.service = s.service.TimeInForce(tif)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*binance.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

type realListOpenOrdersService struct {
	service *binance.ListOpenOrdersService
}

func (s *realListOpenOrdersService) Symbol(symbol string) ListOpenOrdersService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realListOpenOrdersService) Do(ctx context.Context) ([]*binance.Order, error) {
	return s.service.Do(ctx)
}

// BinanceConfig contains the credentials for Binance trading.
type BinanceConfig struct {
	APIKey    string `yaml:"api_key" json:"apiKey" validate:"required"`
	SecretKey string `yaml:"secret_key" json:"secretKey" validate:"required"`
	// BaseURL overrides the REST endpoint. It takes precedence over Testnet.
	BaseURL string `yaml:"base_url,omitempty" json:"baseUrl,omitempty"`
	Testnet bool   `yaml:"testnet,omitempty" json:"testnet,omitempty"`
}

// Validate validates the BinanceConfig struct.
func (c *BinanceConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid binance config", err)
	}

	return nil
}

// BinanceTrader submits orders to the Binance spot API.
type BinanceTrader struct {
	client           BinanceClient
	decimalPrecision int
	logger           *logger.Logger
}

// NewBinanceTrader creates a trader for the account described by config.
func NewBinanceTrader(config BinanceConfig, log *logger.Logger) (*BinanceTrader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Testnet {
		binance.UseTestnet = true
	}

	client := binance.NewClient(config.APIKey, config.SecretKey)
	if config.BaseURL != "" {
		client.BaseURL = config.BaseURL
	}

	return newBinanceTraderWithClient(&realBinanceClient{client: client}, log), nil
}

// newBinanceTraderWithClient creates a trader with a custom client.
// This is used for testing with mock clients.
func newBinanceTraderWithClient(client BinanceClient, log *logger.Logger) *BinanceTrader {
	return &BinanceTrader{
		client:           client,
		decimalPrecision: BinanceDecimalPrecision,
		logger:           log,
	}
}

// Submit implements Trader.
func (b *BinanceTrader) Submit(ctx context.Context, order types.Order) (int64, error) {
	if err := order.Validate(); err != nil {
		return 0, err
	}

	side, err := binanceSide(order.Side)
	if err != nil {
		return 0, err
	}

	quantity := utils.RoundToDecimalPrecision(order.Quantity, b.decimalPrecision)
	if quantity <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidOrder,
			"order quantity %.8f is too small after rounding to %d decimal places",
			order.Quantity, b.decimalPrecision)
	}

	service := b.client.NewCreateOrderService().
		Symbol(order.Token.String()).
		Side(side).
		Quantity(utils.FormatDecimal(quantity, b.decimalPrecision))

	price := utils.FormatDecimal(order.Price, b.decimalPrecision)

	switch order.Type {
	case types.OrderTypeMarket:
		service = service.Type(binance.OrderTypeMarket)
	case types.OrderTypeLimit:
		service = service.Type(binance.OrderTypeLimit).
			Price(price).
			TimeInForce(binanceTimeInForce(order.TIF))
	case types.OrderTypeStopLimit:
		stop := order.Price
		if order.StopPrice.IsSome() {
			stop = order.StopPrice.Unwrap()
		}

		service = service.Type(binance.OrderTypeStopLossLimit).
			Price(price).
			StopPrice(utils.FormatDecimal(stop, b.decimalPrecision)).
			TimeInForce(binanceTimeInForce(order.TIF))
	case types.OrderTypeStopMarket:
		return 0, errors.NotImplemented("stop market orders on binance spot")
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidOrder, "unsupported order type: %s", order.Type)
	}

	response, err := service.Do(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeOrderFailed, "failed to place order on Binance", err)
	}

	b.logger.Info("Order placed on Binance",
		zap.Int64("id", response.OrderID),
		zap.String("token", order.Token.Name()),
		zap.String("side", string(order.Side)),
		zap.String("type", string(order.Type)),
	)

	return response.OrderID, nil
}

// OpenOrders implements Trader.
func (b *BinanceTrader) OpenOrders(ctx context.Context, token types.Token) ([]types.OrderStatus, error) {
	binanceOrders, err := b.client.NewListOpenOrdersService().Symbol(token.String()).Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeOrderFailed, "failed to get open orders from Binance", err)
	}

	statuses := make([]types.OrderStatus, 0, len(binanceOrders))

	for _, bo := range binanceOrders {
		status, ok := convertBinanceOrder(token, bo)
		if !ok {
			continue
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

func binanceSide(side types.Side) (binance.SideType, error) {
	switch side {
	case types.SideBuy:
		return binance.SideTypeBuy, nil
	case types.SideSell:
		return binance.SideTypeSell, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidOrder, "unsupported order side: %s", side)
	}
}

func binanceTimeInForce(tif types.TimeInForce) binance.TimeInForceType {
	switch tif {
	case types.TimeInForceIOC:
		return binance.TimeInForceTypeIOC
	case types.TimeInForceFOK:
		return binance.TimeInForceTypeFOK
	default:
		return binance.TimeInForceTypeGTC
	}
}

// convertBinanceOrder maps an open Binance order. Orders of unknown side or type are skipped.
func convertBinanceOrder(token types.Token, bo *binance.Order) (types.OrderStatus, bool) {
	var side types.Side

	switch bo.Side {
	case binance.SideTypeBuy:
		side = types.SideBuy
	case binance.SideTypeSell:
		side = types.SideSell
	default:
		return types.OrderStatus{}, false
	}

	var orderType types.OrderType

	switch bo.Type {
	case binance.OrderTypeMarket:
		orderType = types.OrderTypeMarket
	case binance.OrderTypeLimit, binance.OrderTypeLimitMaker:
		orderType = types.OrderTypeLimit
	case binance.OrderTypeStopLossLimit:
		orderType = types.OrderTypeStopLimit
	case binance.OrderTypeStopLoss:
		orderType = types.OrderTypeStopMarket
	default:
		return types.OrderStatus{}, false
	}

	order := types.Order{
		ExchangeID: optional.Some(bo.OrderID),
		Token:      token,
		Date:       time.UnixMilli(bo.Time).UTC(),
		Side:       side,
		Quantity:   utils.ParseDecimal(bo.OrigQuantity),
		Price:      utils.ParseDecimal(bo.Price),
		Type:       orderType,
		TIF:        types.TimeInForce(bo.TimeInForce),
	}

	if stop := utils.ParseDecimal(bo.StopPrice); stop > 0 {
		order.StopPrice = optional.Some(stop)
	}

	return types.OrderStatus{
		Order:            order,
		ExecutedQuantity: utils.ParseDecimal(bo.ExecutedQuantity),
		Status:           string(bo.Status),
		UpdateTime:       time.UnixMilli(bo.UpdateTime).UTC(),
		Working:          bo.IsWorking,
	}, true
}
