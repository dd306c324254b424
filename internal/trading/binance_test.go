package trading

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/types"
	dionysusErrors "github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockBinanceClient implements BinanceClient interface for testing
type mockBinanceClient struct {
	createOrderService    *mockCreateOrderService
	listOpenOrdersService *mockListOpenOrdersService
}

func newMockBinanceClient() *mockBinanceClient {
	return &mockBinanceClient{
		createOrderService:    &mockCreateOrderService{},
		listOpenOrdersService: &mockListOpenOrdersService{},
	}
}

func (m *mockBinanceClient) NewCreateOrderService() CreateOrderService {
	return m.createOrderService
}

func (m *mockBinanceClient) NewListOpenOrdersService() ListOpenOrdersService {
	return m.listOpenOrdersService
}

// mockCreateOrderService implements CreateOrderService
type mockCreateOrderService struct {
	response  *binance.CreateOrderResponse
	err       error
	calls     int
	symbol    string
	side      binance.SideType
	orderTyp  binance.OrderType
	quantity  string
	price     string
	stopPrice string
	tif       binance.TimeInForceType
}

func (m *mockCreateOrderService) Symbol(symbol string) CreateOrderService {
	m.symbol = symbol
	return m
}

func (m *mockCreateOrderService) Side(side binance.SideType) CreateOrderService {
	m.side = side
	return m
}

func (m *mockCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	m.orderTyp = orderType
	return m
}

func (m *mockCreateOrderService) Quantity(quantity string) CreateOrderService {
	m.quantity = quantity
	return m
}

func (m *mockCreateOrderService) Price(price string) CreateOrderService {
	m.price = price
	return m
}

func (m *mockCreateOrderService) StopPrice(price string) CreateOrderService {
	m.stopPrice = price
	return m
}

func (m *mockCreateOrderService) TimeInForce(tif binance.TimeInForceType) CreateOrderService {
	m.tif = tif
	return m
}

func (m *mockCreateOrderService) Do(_ context.Context) (*binance.CreateOrderResponse, error) {
	m.calls++
	return m.response, m.err
}

// mockListOpenOrdersService implements ListOpenOrdersService
type mockListOpenOrdersService struct {
	orders []*binance.Order
	err    error
	symbol string
}

func (m *mockListOpenOrdersService) Symbol(symbol string) ListOpenOrdersService {
	m.symbol = symbol
	return m
}

func (m *mockListOpenOrdersService) Do(_ context.Context) ([]*binance.Order, error) {
	return m.orders, m.err
}

type BinanceTraderTestSuite struct {
	suite.Suite
	client *mockBinanceClient
	trader *BinanceTrader
	token  types.Token
}

func TestBinanceTraderSuite(t *testing.T) {
	suite.Run(t, new(BinanceTraderTestSuite))
}

func (suite *BinanceTraderTestSuite) SetupTest() {
	suite.client = newMockBinanceClient()
	suite.client.createOrderService.response = &binance.CreateOrderResponse{OrderID: 12345}
	suite.trader = newBinanceTraderWithClient(suite.client, logger.NewNopLogger())
	suite.token = types.NewPair("BTC", "USDT")
}

func (suite *BinanceTraderTestSuite) order(orderType types.OrderType) types.Order {
	return types.Order{
		Token:    suite.token,
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Side:     types.SideBuy,
		Quantity: 0.123456789,
		Price:    42000.5,
		Type:     orderType,
		TIF:      types.TimeInForceIOC,
	}
}

func (suite *BinanceTraderTestSuite) TestSubmitMarket() {
	id, err := suite.trader.Submit(context.Background(), suite.order(types.OrderTypeMarket))
	suite.Require().NoError(err)
	suite.Equal(int64(12345), id)

	service := suite.client.createOrderService
	suite.Equal("BTCUSDT", service.symbol)
	suite.Equal(binance.SideTypeBuy, service.side)
	suite.Equal(binance.OrderTypeMarket, service.orderTyp)
	suite.Equal("0.12345678", service.quantity)
	suite.Empty(service.price)
}

func (suite *BinanceTraderTestSuite) TestSubmitLimit() {
	order := suite.order(types.OrderTypeLimit)
	order.Side = types.SideSell

	_, err := suite.trader.Submit(context.Background(), order)
	suite.Require().NoError(err)

	service := suite.client.createOrderService
	suite.Equal(binance.SideTypeSell, service.side)
	suite.Equal(binance.OrderTypeLimit, service.orderTyp)
	suite.Equal("42000.50000000", service.price)
	suite.Equal(binance.TimeInForceTypeIOC, service.tif)
}

func (suite *BinanceTraderTestSuite) TestSubmitStopLimit() {
	order := suite.order(types.OrderTypeStopLimit)
	order.StopPrice = optional.Some(41000.0)

	_, err := suite.trader.Submit(context.Background(), order)
	suite.Require().NoError(err)

	service := suite.client.createOrderService
	suite.Equal(binance.OrderTypeStopLossLimit, service.orderTyp)
	suite.Equal("41000.00000000", service.stopPrice)
}

func (suite *BinanceTraderTestSuite) TestSubmitStopMarketIsNotImplemented() {
	_, err := suite.trader.Submit(context.Background(), suite.order(types.OrderTypeStopMarket))
	suite.True(dionysusErrors.IsNotImplemented(err))
	suite.Zero(suite.client.createOrderService.calls)
}

func (suite *BinanceTraderTestSuite) TestSubmitRejectsInvalidOrders() {
	order := suite.order(types.OrderTypeMarket)
	order.Quantity = 0

	_, err := suite.trader.Submit(context.Background(), order)
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeInvalidOrder))

	order.Quantity = 0.000000001
	_, err = suite.trader.Submit(context.Background(), order)
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeInvalidOrder))
	suite.Zero(suite.client.createOrderService.calls)
}

func (suite *BinanceTraderTestSuite) TestSubmitWrapsExchangeErrors() {
	suite.client.createOrderService.err = errors.New("<APIError> code=-2010, msg=Account has insufficient balance")

	_, err := suite.trader.Submit(context.Background(), suite.order(types.OrderTypeMarket))
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeOrderFailed))
	suite.Contains(err.Error(), "insufficient balance")
}

func (suite *BinanceTraderTestSuite) TestOpenOrders() {
	suite.client.listOpenOrdersService.orders = []*binance.Order{
		{
			OrderID:          7,
			Price:            "100.5",
			OrigQuantity:     "2",
			ExecutedQuantity: "0.5",
			Status:           binance.OrderStatusTypePartiallyFilled,
			TimeInForce:      binance.TimeInForceTypeGTC,
			Type:             binance.OrderTypeLimit,
			Side:             binance.SideTypeBuy,
			StopPrice:        "0.00000000",
			Time:             1704067200000,
			UpdateTime:       1704067260000,
			IsWorking:        true,
		},
		{OrderID: 8, Side: binance.SideTypeBuy, Type: binance.OrderType("TRAILING")},
	}

	statuses, err := suite.trader.OpenOrders(context.Background(), suite.token)
	suite.Require().NoError(err)
	suite.Equal("BTCUSDT", suite.client.listOpenOrdersService.symbol)
	suite.Require().Len(statuses, 1)

	status := statuses[0]
	suite.Equal(int64(7), status.Order.ExchangeID.Unwrap())
	suite.Equal(types.OrderTypeLimit, status.Order.Type)
	suite.Equal(2.0, status.Order.Quantity)
	suite.Equal(100.5, status.Order.Price)
	suite.True(status.Order.StopPrice.IsNone())
	suite.Equal(0.5, status.ExecutedQuantity)
	suite.Equal("PARTIALLY_FILLED", status.Status)
	suite.True(status.Working)
	suite.False(status.IsFilled())
	suite.Equal(time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC), status.UpdateTime)
}

func (suite *BinanceTraderTestSuite) TestOpenOrdersError() {
	suite.client.listOpenOrdersService.err = errors.New("timeout")

	_, err := suite.trader.OpenOrders(context.Background(), suite.token)
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeOrderFailed))
}

func (suite *BinanceTraderTestSuite) TestConfigValidation() {
	_, err := NewBinanceTrader(BinanceConfig{APIKey: "key"}, logger.NewNopLogger())
	suite.True(dionysusErrors.HasCode(err, dionysusErrors.ErrCodeInvalidConfiguration))
}
