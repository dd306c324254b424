package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/dionysus/pkg/errors"
)

type Side string

type OrderType string

type TimeInForce string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

const (
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeStopMarket OrderType = "STOP_MARKET"
	OrderTypeStopLimit  OrderType = "STOP_LIMIT"
)

const (
	// TimeInForceGTC keeps the order working until it is filled or cancelled.
	TimeInForceGTC TimeInForce = "GTC"
	// TimeInForceIOC fills what it can immediately and cancels the rest.
	TimeInForceIOC TimeInForce = "IOC"
	// TimeInForceFOK fills the whole quantity immediately or nothing.
	TimeInForceFOK TimeInForce = "FOK"
)

// Order is an immutable order intent created by an agent.
type Order struct {
	Index int `yaml:"index" json:"index" validate:"gte=0"`
	// PositionIndex references the position this order closes. Set on sell orders only.
	PositionIndex optional.Option[int] `yaml:"position_index" json:"position_index"`
	// ExchangeID is the identifier assigned by the exchange once the order has been accepted.
	ExchangeID optional.Option[int64]   `yaml:"exchange_id" json:"exchange_id"`
	Token      Token                    `yaml:"token" json:"token" validate:"required"`
	Date       time.Time                `yaml:"date" json:"date"`
	Side       Side                     `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	Quantity   float64                  `yaml:"quantity" json:"quantity" validate:"gt=0"`
	Price      float64                  `yaml:"price" json:"price" validate:"gt=0"`
	StopPrice  optional.Option[float64] `yaml:"stop_price" json:"stop_price"`
	Type       OrderType                `yaml:"type" json:"type" validate:"required,oneof=MARKET LIMIT STOP_MARKET STOP_LIMIT"`
	TIF        TimeInForce              `yaml:"tif" json:"tif" validate:"required,oneof=GTC IOC FOK"`
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	return nil
}

// Value is the quote amount the order moves when filled.
func (o Order) Value() float64 {
	return o.Quantity * o.Price
}

// WithDate returns a copy of the order stamped with date.
func (o Order) WithDate(date time.Time) Order {
	o.Date = date

	return o
}

// WithExchangeID returns a copy of the order carrying the exchange identifier.
func (o Order) WithExchangeID(id int64) Order {
	o.ExchangeID = optional.Some(id)

	return o
}

// OrderStatus is the exchange view of an order.
type OrderStatus struct {
	Order            Order     `yaml:"order" json:"order"`
	ExecutedQuantity float64   `yaml:"executed_quantity" json:"executed_quantity"`
	Status           string    `yaml:"status" json:"status"`
	UpdateTime       time.Time `yaml:"update_time" json:"update_time"`
	// Working is true while the order is on the book.
	Working bool `yaml:"working" json:"working"`
}

// IsFilled reports whether the whole order quantity has been executed.
func (s OrderStatus) IsFilled() bool {
	return s.ExecutedQuantity >= s.Order.Quantity
}
