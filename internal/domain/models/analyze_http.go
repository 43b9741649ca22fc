package models

// AnalyzeRequest is the inbound contract of POST /analyze.
type AnalyzeRequest struct {
	Pair      string `json:"pair" validate:"required,min=6,max=12"`
	Timeframe string `json:"timeframe" default:"15min" validate:"oneof=1min 5min 15min 30min 45min 60min"`
}
