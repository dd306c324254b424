package types

// Signal is the sentiment of an advisory rule.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalNone Signal = "NONE"
)

// IsNone reports whether the signal asks for no trade. The zero value counts as none.
func (s Signal) IsNone() bool {
	return s == SignalNone || s == ""
}
