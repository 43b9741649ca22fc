package models

import "time"

// Candle is one interval's OHLC summary. Immutable once received.
type Candle struct {
	Datetime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
}

// Bullish reports whether the candle body closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }

// Bearish reports whether the candle body closed below its open.
func (c Candle) Bearish() bool { return c.Close < c.Open }

// Closes extracts the close series from candles, preserving order.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// ReverseCandles returns a new slice in reversed order. The data provider
// returns newest-first; indicator recursion requires oldest-first.
func ReverseCandles(candles []Candle) []Candle {
	out := make([]Candle, len(candles))
	for i, c := range candles {
		out[len(candles)-1-i] = c
	}
	return out
}
