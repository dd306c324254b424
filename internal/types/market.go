package types

// MarketTick is a 24h ticker entry.
type MarketTick struct {
	Token     Token   `yaml:"token" json:"token"`
	Price     float64 `yaml:"price" json:"price"`
	ChangePct float64 `yaml:"change_pct" json:"change_pct"`
}

type MarketEventKind string

const (
	MarketEventKline MarketEventKind = "kline"
	MarketEventBook  MarketEventKind = "book"
	MarketEventTicks MarketEventKind = "ticks"
)

// MarketEvent is published by the market feed. Only the field matching Kind is set.
type MarketEvent struct {
	Kind   MarketEventKind
	Token  Token
	Sample Sample
	Book   Book
	Ticks  []MarketTick
}

// KlineEvent wraps a closed candle.
func KlineEvent(token Token, sample Sample) MarketEvent {
	return MarketEvent{Kind: MarketEventKline, Token: token, Sample: sample}
}

// BookEvent wraps an order book snapshot.
func BookEvent(book Book) MarketEvent {
	return MarketEvent{Kind: MarketEventBook, Token: book.Token, Book: book}
}

// TicksEvent wraps a ticker batch.
func TicksEvent(ticks []MarketTick) MarketEvent {
	return MarketEvent{Kind: MarketEventTicks, Token: NoToken, Ticks: ticks}
}
