package utils

import (
	"math"
	"strconv"
)

// RoundToDecimalPrecision rounds the quantity down to the specified decimal precision.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

// FormatDecimal formats value with exactly decimalPrecision decimals, as exchanges expect.
func FormatDecimal(value float64, decimalPrecision int) string {
	return strconv.FormatFloat(value, 'f', decimalPrecision, 64)
}

// ParseDecimal parses an exchange decimal string. Malformed input reads as zero.
func ParseDecimal(text string) float64 {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}

	return value
}
