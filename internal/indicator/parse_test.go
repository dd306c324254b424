package indicator

import (
	"testing"

	"github.com/rxtech-lab/dionysus/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text     string
		expected Indicator
		code     errors.ErrorCode
	}{
		{text: "EMA 9", expected: EMA(9)},
		{text: "sma 20", expected: SMA(20)},
		{text: "SDEV 14", expected: StdDev(14)},
		{text: "rsi 14", expected: RSI(14)},
		{text: "BBANDS 20", expected: BollingerBands(20, 2)},
		{text: "BBANDS 20 2.5", expected: BollingerBands(20, 2.5)},
		{text: "MACD 12 26 9", expected: MACD(12, 26, 9)},
		{text: "RL 0.01", expected: ResistanceLines(0.01)},
		{text: "SL 0.02", expected: SupportLines(0.02)},
		{text: "", code: errors.ErrCodeMissingParameter},
		{text: "VWAP 3", code: errors.ErrCodeIndicatorNotFound},
		{text: "EMA", code: errors.ErrCodeInvalidParameter},
		{text: "EMA x", code: errors.ErrCodeInvalidParameter},
		{text: "MACD 12 26", code: errors.ErrCodeInvalidParameter},
		{text: "MACD 26 12 9", code: errors.ErrCodeInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ind, err := Parse(tt.text)
			if tt.code != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.code, errors.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, ind)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, ind := range []Indicator{EMA(9), SMA(3), StdDev(5), RSI(14), BollingerBands(20, 2), MACD(12, 26, 9), SupportLines(0.01), ResistanceLines(0.5)} {
		parsed, err := Parse(ind.String())
		assert.NoError(t, err)
		assert.Equal(t, ind, parsed)
	}
}
