package models

// Status classifies the market state for one evaluation.
type Status string

const (
	StatusWait    Status = "WAIT"
	StatusNoTrade Status = "NO TRADE"
	StatusValid   Status = "VALID"
	StatusError   Status = "ERROR"
)

// Bias is the directional trade recommendation.
type Bias string

const (
	BiasNone Bias = "NONE"
	BiasBuy  Bias = "BUY"
	BiasSell Bias = "SELL"
)

// Classification pairs a status with a bias.
// Invariant: Bias != NONE iff Status == VALID.
type Classification struct {
	Status Status
	Bias   Bias
	Reason string
}

// IndicatorSnapshot holds the indicator values derived once per evaluation.
type IndicatorSnapshot struct {
	EMAFast float64
	EMASlow float64
	RSI     float64
}

// RiskParameters holds the derived trade levels. All fields are nil unless
// the classification is VALID.
type RiskParameters struct {
	Entry      *float64
	StopLoss   *float64
	TakeProfit *float64
	ExpiryTime *string // ISO-8601 UTC
}

// SignalResult is the engine's sole output, shaped to the wire contract.
// On ERROR only Status and Reason are guaranteed populated.
type SignalResult struct {
	Status     Status   `json:"status"`
	Bias       Bias     `json:"bias"`
	Entry      *float64 `json:"entry"`
	SL         *float64 `json:"sl"`
	TP         *float64 `json:"tp"`
	ExpiryTime *string  `json:"expiryTime"`
	EMA20      float64  `json:"ema20"`
	EMA50      float64  `json:"ema50"`
	RSI        float64  `json:"rsi"`
	CandleTime string   `json:"candleTime,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

// ErrorResult builds an ERROR SignalResult with only status and reason set.
func ErrorResult(reason string) SignalResult {
	return SignalResult{
		Status: StatusError,
		Bias:   BiasNone,
		Reason: reason,
	}
}
