package types

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestOrderValidate(t *testing.T) {
	valid := Order{
		Index:    0,
		Token:    NewPair("BTC", "USDT"),
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Side:     SideBuy,
		Quantity: 0.5,
		Price:    42000,
		Type:     OrderTypeLimit,
		TIF:      TimeInForceGTC,
	}

	tests := []struct {
		name        string
		mutate      func(o *Order)
		shouldError bool
	}{
		{name: "valid order", mutate: func(o *Order) {}},
		{name: "valid sell with position", mutate: func(o *Order) {
			o.Side = SideSell
			o.PositionIndex = optional.Some(3)
		}},
		{name: "valid stop limit", mutate: func(o *Order) {
			o.Type = OrderTypeStopLimit
			o.StopPrice = optional.Some(41000.0)
		}},
		{name: "zero quantity", mutate: func(o *Order) { o.Quantity = 0 }, shouldError: true},
		{name: "negative price", mutate: func(o *Order) { o.Price = -1 }, shouldError: true},
		{name: "invalid side", mutate: func(o *Order) { o.Side = "HOLD" }, shouldError: true},
		{name: "invalid type", mutate: func(o *Order) { o.Type = "ICEBERG" }, shouldError: true},
		{name: "missing time in force", mutate: func(o *Order) { o.TIF = "" }, shouldError: true},
		{name: "invalid token kind", mutate: func(o *Order) { o.Token = Token{Kind: "basket"} }, shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := valid
			tt.mutate(&order)

			err := order.Validate()
			if tt.shouldError {
				assert.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidOrder))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderCopies(t *testing.T) {
	order := Order{Quantity: 2, Price: 10}
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	stamped := order.WithDate(date).WithExchangeID(77)
	assert.Equal(t, date, stamped.Date)
	assert.Equal(t, int64(77), stamped.ExchangeID.Unwrap())
	assert.True(t, order.Date.IsZero())
	assert.True(t, order.ExchangeID.IsNone())
	assert.Equal(t, 20.0, order.Value())
}

func TestOrderStatusFilled(t *testing.T) {
	status := OrderStatus{Order: Order{Quantity: 1}, ExecutedQuantity: 0.4, Working: true}
	assert.False(t, status.IsFilled())

	status.ExecutedQuantity = 1
	assert.True(t, status.IsFilled())
}

func TestPositionAttachment(t *testing.T) {
	position := Position{Index: 1, Quantity: 2, Price: 5}
	assert.False(t, position.IsAttached())
	assert.Equal(t, 10.0, position.Value())

	position.AttachedOrder = optional.Some(4)
	assert.True(t, position.IsAttached())
}

func TestSignalIsNone(t *testing.T) {
	assert.True(t, SignalNone.IsNone())
	assert.True(t, Signal("").IsNone())
	assert.False(t, SignalBuy.IsNone())
	assert.False(t, SignalSell.IsNone())
}

func TestMarketEvents(t *testing.T) {
	token := NewPair("ETH", "USDT")

	kline := KlineEvent(token, Sample{Close: 3})
	assert.Equal(t, MarketEventKline, kline.Kind)
	assert.Equal(t, 3.0, kline.Sample.Close)

	book := BookEvent(SingleLevelBook(token, 10))
	assert.Equal(t, MarketEventBook, book.Kind)
	assert.True(t, book.Token.Equal(token))

	ticks := TicksEvent([]MarketTick{{Token: token, Price: 10, ChangePct: 1.5}})
	assert.Equal(t, MarketEventTicks, ticks.Kind)
	assert.Len(t, ticks.Ticks, 1)
}
