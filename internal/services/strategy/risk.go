package strategy

import (
	"time"

	"PairSight/internal/domain/models"
	drepo "PairSight/internal/domain/repository"
	"PairSight/pkg/util"
)

// RiskPlan is the outcome of deriving trade levels for a VALID signal.
type RiskPlan struct {
	Params models.RiskParameters
	// Rejected is set when the stop lands on the wrong side of the entry
	// (non-positive risk). Such a signal is refused rather than emitted
	// with an inverted target.
	Rejected bool
	Reason   string
}

// DeriveRisk computes entry, stop, target, and expiry for a VALID signal.
// Entry is the last close; the stop anchors on the last candle's extreme in
// the adverse direction; the target scales the risk distance by the
// timeframe's risk/reward ratio.
func DeriveRisk(bias models.Bias, last models.Candle, tf drepo.Timeframe, now time.Time) RiskPlan {
	entry := last.Close
	rr := drepo.RiskReward(tf)

	var sl, risk, tp float64
	switch bias {
	case models.BiasBuy:
		sl = last.Low
		risk = entry - sl
		tp = entry + risk*rr
	case models.BiasSell:
		sl = last.High
		risk = sl - entry
		tp = entry - risk*rr
	default:
		return RiskPlan{}
	}

	if risk <= 0 {
		return RiskPlan{
			Rejected: true,
			Reason:   "stop loss not beyond entry, candle data unusable",
		}
	}

	expiry := util.FormatExpiry(now.Add(drepo.ExpiryDuration(tf)))
	return RiskPlan{
		Params: models.RiskParameters{
			Entry:      &entry,
			StopLoss:   &sl,
			TakeProfit: &tp,
			ExpiryTime: &expiry,
		},
	}
}
