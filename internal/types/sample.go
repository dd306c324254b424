package types

import "time"

// Sample is one OHLCV candle.
type Sample struct {
	Resolution Resolution `yaml:"resolution" json:"resolution"`
	Time       time.Time  `yaml:"time" json:"time"`
	Open       float64    `yaml:"open" json:"open"`
	High       float64    `yaml:"high" json:"high"`
	Low        float64    `yaml:"low" json:"low"`
	Close      float64    `yaml:"close" json:"close"`
	Volume     uint64     `yaml:"volume" json:"volume"`
}

// Closes extracts the close prices of a history.
func Closes(samples []Sample) []float64 {
	closes := make([]float64, len(samples))
	for i, s := range samples {
		closes[i] = s.Close
	}

	return closes
}
