package trading

import (
	"context"
	"testing"

	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type PaperTraderTestSuite struct {
	suite.Suite
	trader *PaperTrader
}

func TestPaperTraderSuite(t *testing.T) {
	suite.Run(t, new(PaperTraderTestSuite))
}

func (suite *PaperTraderTestSuite) SetupTest() {
	suite.trader = NewPaperTrader(logger.NewNopLogger())
}

func (suite *PaperTraderTestSuite) TestSubmitAssignsIncreasingIDs() {
	order := types.Order{
		Token:    types.NewPair("ETH", "USDT"),
		Side:     types.SideBuy,
		Quantity: 1,
		Price:    2000,
		Type:     types.OrderTypeMarket,
		TIF:      types.TimeInForceGTC,
	}

	first, err := suite.trader.Submit(context.Background(), order)
	suite.Require().NoError(err)
	second, err := suite.trader.Submit(context.Background(), order)
	suite.Require().NoError(err)

	suite.Equal(int64(1), first)
	suite.Equal(int64(2), second)

	orders := suite.trader.Orders()
	suite.Require().Len(orders, 2)
	suite.Equal(int64(2), orders[1].ExchangeID.Unwrap())

	open, err := suite.trader.OpenOrders(context.Background(), order.Token)
	suite.Require().NoError(err)
	suite.Empty(open)
}

func (suite *PaperTraderTestSuite) TestSubmitRejectsInvalidOrder() {
	_, err := suite.trader.Submit(context.Background(), types.Order{})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))
	suite.Empty(suite.trader.Orders())
}
