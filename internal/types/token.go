package types

import (
	"fmt"
	"strings"

	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// TokenKind tells which parts of a Token are meaningful.
type TokenKind string

const (
	TokenKindNone     TokenKind = "none"
	TokenKindSymbol   TokenKind = "symbol"
	TokenKindCurrency TokenKind = "currency"
	TokenKindPair     TokenKind = "pair"
)

// Token identifies an instrument: a bare symbol, a bare currency or a symbol/currency pair.
// Two tokens are equal when their Key is equal.
type Token struct {
	Kind     TokenKind `yaml:"kind" json:"kind" jsonschema:"required,enum=none,enum=symbol,enum=currency,enum=pair" validate:"required,oneof=none symbol currency pair"`
	Symbol   string    `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Currency string    `yaml:"currency,omitempty" json:"currency,omitempty"`
}

// NoToken is the explicit absence of an instrument.
var NoToken = Token{Kind: TokenKindNone}

// NewSymbol creates a bare symbol token.
func NewSymbol(symbol string) Token {
	return Token{Kind: TokenKindSymbol, Symbol: symbol}
}

// NewCurrency creates a bare currency token.
func NewCurrency(currency string) Token {
	return Token{Kind: TokenKindCurrency, Currency: currency}
}

// NewPair creates a symbol/currency pair token.
func NewPair(symbol, currency string) Token {
	return Token{Kind: TokenKindPair, Symbol: symbol, Currency: currency}
}

// ParseToken parses "BTC/USDT" as a pair and "BTC" as a symbol.
func ParseToken(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoToken, errors.New(errors.ErrCodeInvalidToken, "token must not be empty")
	}

	if strings.EqualFold(s, "NONE") {
		return NoToken, nil
	}

	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		return NewSymbol(parts[0]), nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return NoToken, errors.Newf(errors.ErrCodeInvalidToken, "invalid pair %q", s)
		}

		return NewPair(parts[0], parts[1]), nil
	default:
		return NoToken, errors.Newf(errors.ErrCodeInvalidToken, "invalid token %q", s)
	}
}

// String returns the canonical form: symbol and currency concatenated for pairs.
func (t Token) String() string {
	switch t.Kind {
	case TokenKindPair:
		return t.Symbol + t.Currency
	case TokenKindSymbol:
		return t.Symbol
	case TokenKindCurrency:
		return t.Currency
	default:
		return "NONE"
	}
}

// Key is the upper-cased canonical form used for equality and map lookups.
func (t Token) Key() string {
	return strings.ToUpper(t.String())
}

// Name is the display form, "SYM/CUR" for pairs.
func (t Token) Name() string {
	if t.Kind == TokenKindPair {
		return fmt.Sprintf("%s/%s", t.Symbol, t.Currency)
	}

	return t.String()
}

// Equal compares tokens by their Key.
func (t Token) Equal(other Token) bool {
	return t.Key() == other.Key()
}

// IsPair reports whether the token is a symbol/currency pair.
func (t Token) IsPair() bool {
	return t.Kind == TokenKindPair
}

// Reverse swaps the symbol and currency of a pair. Other kinds are returned unchanged.
func (t Token) Reverse() Token {
	if t.Kind != TokenKindPair {
		return t
	}

	return NewPair(t.Currency, t.Symbol)
}

// SymbolToken returns the symbol part as a bare symbol token.
func (t Token) SymbolToken() Token {
	switch t.Kind {
	case TokenKindPair, TokenKindSymbol:
		return NewSymbol(t.Symbol)
	default:
		return NewSymbol("")
	}
}

// CurrencyToken returns the currency part as a bare currency token.
func (t Token) CurrencyToken() Token {
	switch t.Kind {
	case TokenKindPair, TokenKindCurrency:
		return NewCurrency(t.Currency)
	default:
		return NewCurrency("")
	}
}
