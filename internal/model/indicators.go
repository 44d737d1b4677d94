package model

import "time"

// SymbolIndicators holds the latest computed technical indicators for one symbol.
// All values are derived from the adjusted price series and recomputed in full
// on every run.
type SymbolIndicators struct {
	Symbol     string
	Date       time.Time
	Close      float64
	DailyRSI   float64
	WeeklyRSI  float64
	MonthlyRSI float64
	SMA50      float64
	SMA200     float64
	High52w    float64
}
