package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Quote is the current best bid and ask of a token.
type Quote struct {
	Token Token
	// Bid is the highest price a buyer is willing to pay.
	Bid optional.Option[float64]
	// Ask is the lowest price a seller is willing to accept.
	Ask     optional.Option[float64]
	BidDate time.Time
	AskDate time.Time
}

// QuoteFromSample builds a quote whose bid and ask are the sample close.
func QuoteFromSample(token Token, sample Sample) Quote {
	return Quote{
		Token:   token,
		Bid:     optional.Some(sample.Close),
		Ask:     optional.Some(sample.Close),
		BidDate: sample.Time,
		AskDate: sample.Time,
	}
}

// BookLine is one price level of an order book.
type BookLine struct {
	Price    float64 `yaml:"price" json:"price"`
	Quantity float64 `yaml:"quantity" json:"quantity"`
}

// Book is an order book snapshot.
type Book struct {
	Token Token      `yaml:"token" json:"token"`
	Bids  []BookLine `yaml:"bids" json:"bids"`
	Asks  []BookLine `yaml:"asks" json:"asks"`
}

// SingleLevelBook creates a book with one bid and one ask at price.
func SingleLevelBook(token Token, price float64) Book {
	return Book{
		Token: token,
		Bids:  []BookLine{{Price: price, Quantity: 1}},
		Asks:  []BookLine{{Price: price, Quantity: 1}},
	}
}

// Quote derives the best bid (highest bid) and best ask (lowest ask) of the book.
// It returns None when either side is empty.
func (b Book) Quote(at time.Time) optional.Option[Quote] {
	if len(b.Bids) == 0 || len(b.Asks) == 0 {
		return optional.None[Quote]()
	}

	bid := b.Bids[0].Price
	for _, line := range b.Bids[1:] {
		if line.Price > bid {
			bid = line.Price
		}
	}

	ask := b.Asks[0].Price
	for _, line := range b.Asks[1:] {
		if line.Price < ask {
			ask = line.Price
		}
	}

	return optional.Some(Quote{
		Token:   b.Token,
		Bid:     optional.Some(bid),
		Ask:     optional.Some(ask),
		BidDate: at,
		AskDate: at,
	})
}
