package types

import (
	"testing"

	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TokenTestSuite struct {
	suite.Suite
}

func TestTokenSuite(t *testing.T) {
	suite.Run(t, new(TokenTestSuite))
}

func (suite *TokenTestSuite) TestParseToken() {
	tests := []struct {
		input    string
		expected Token
		hasError bool
	}{
		{input: "BTC/USDT", expected: NewPair("BTC", "USDT")},
		{input: " eth ", expected: NewSymbol("eth")},
		{input: "none", expected: NoToken},
		{input: "", hasError: true},
		{input: "BTC/", hasError: true},
		{input: "A/B/C", hasError: true},
	}

	for _, tc := range tests {
		suite.Run(tc.input, func() {
			token, err := ParseToken(tc.input)
			if tc.hasError {
				suite.Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidToken))

				return
			}

			suite.NoError(err)
			suite.Equal(tc.expected, token)
		})
	}
}

func (suite *TokenTestSuite) TestCanonicalForms() {
	pair := NewPair("btc", "usdt")
	suite.Equal("btcusdt", pair.String())
	suite.Equal("BTCUSDT", pair.Key())
	suite.Equal("btc/usdt", pair.Name())
	suite.Equal("NONE", NoToken.String())
	suite.Equal("USD", NewCurrency("USD").Name())
}

func (suite *TokenTestSuite) TestEqualityIsCaseInsensitive() {
	suite.True(NewPair("btc", "usdt").Equal(NewPair("BTC", "USDT")))
	suite.True(NewPair("BTC", "USDT").Equal(NewSymbol("BTCUSDT")))
	suite.False(NewPair("BTC", "USDT").Equal(NewPair("ETH", "USDT")))
}

func (suite *TokenTestSuite) TestReverse() {
	pair := NewPair("BTC", "USDT")
	suite.Equal(NewPair("USDT", "BTC"), pair.Reverse())
	suite.Equal(pair, pair.Reverse().Reverse())
	suite.Equal(NewSymbol("BTC"), NewSymbol("BTC").Reverse())
}

func (suite *TokenTestSuite) TestParts() {
	pair := NewPair("BTC", "USDT")
	suite.True(pair.IsPair())
	suite.Equal(NewSymbol("BTC"), pair.SymbolToken())
	suite.Equal(NewCurrency("USDT"), pair.CurrencyToken())
	suite.False(NewSymbol("BTC").IsPair())
}
