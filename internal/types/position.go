package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Position is an open holding created by a filled buy order.
type Position struct {
	Index    int       `yaml:"index" json:"index"`
	Token    Token     `yaml:"token" json:"token"`
	Quantity float64   `yaml:"quantity" json:"quantity"`
	Price    float64   `yaml:"price" json:"price"`
	Date     time.Time `yaml:"date" json:"date"`
	// AttachedOrder is the index of the sell order currently trying to close the position.
	AttachedOrder optional.Option[int] `yaml:"attached_order" json:"attached_order"`
}

// Value is the entry value of the position.
func (p Position) Value() float64 {
	return p.Quantity * p.Price
}

// IsAttached reports whether a closing order is outstanding.
func (p Position) IsAttached() bool {
	return p.AttachedOrder.IsSome()
}
