package strategy

import (
	"math"

	"PairSight/internal/domain/models"
)

// RSI bands differ per direction on purpose: buys want momentum recovering
// out of neutral, sells want momentum rolling over before it is oversold.
const (
	buyRSIMin  = 40.0
	buyRSIMax  = 55.0
	sellRSIMin = 45.0
	sellRSIMax = 60.0
)

// Classifier maps an indicator snapshot plus the latest candle to a
// status/bias pair using a fixed, ordered decision table.
type Classifier struct {
	flatEps float64
}

// NewClassifier creates a classifier. flatEps is the tolerance under which
// the fast and slow EMA are considered equal (a flat, untradeable market).
func NewClassifier(flatEps float64) *Classifier {
	return &Classifier{flatEps: flatEps}
}

// Classify evaluates the decision table in order; the first match wins.
//
//	flat EMAs                                   -> NO TRADE
//	uptrend + neutral RSI + bullish candle body -> VALID BUY
//	downtrend + neutral RSI + bearish body      -> VALID SELL
//	otherwise                                   -> WAIT
func (cl *Classifier) Classify(snap models.IndicatorSnapshot, last models.Candle) models.Classification {
	if math.Abs(snap.EMAFast-snap.EMASlow) < cl.flatEps {
		return models.Classification{
			Status: models.StatusNoTrade,
			Bias:   models.BiasNone,
			Reason: "flat EMA, no directional edge",
		}
	}

	if snap.EMAFast > snap.EMASlow &&
		snap.RSI >= buyRSIMin && snap.RSI <= buyRSIMax &&
		last.Bullish() {
		return models.Classification{Status: models.StatusValid, Bias: models.BiasBuy}
	}

	if snap.EMAFast < snap.EMASlow &&
		snap.RSI >= sellRSIMin && snap.RSI <= sellRSIMax &&
		last.Bearish() {
		return models.Classification{Status: models.StatusValid, Bias: models.BiasSell}
	}

	return models.Classification{Status: models.StatusWait, Bias: models.BiasNone}
}
