package recorder

import (
	"time"

	"BhavSentinel/internal/model"
)

// RunRecord summarizes one daily pipeline run.
type RunRecord struct {
	Date     time.Time
	Symbols  int
	BarsRead int
	Signals  int
	Status   string // "OK", "PARTIAL", "NO_DATA"
	Duration time.Duration
}

// BacktestRecord holds one scenario result from a backtest run.
type BacktestRecord struct {
	Symbol      string
	Scenario    string
	Invested    float64
	FinalValue  float64
	Rate        float64
	Converged   bool
	TriggerDays int
}

// TradeEvent records a trade book mutation.
type TradeEvent struct {
	TradeID   string
	Symbol    string
	EventType string // "OPEN", "STOP_LOSS", "TARGET"
	Price     float64
	Quantity  float64
	PnL       float64
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordSignal(sig *model.StrategySignal) error
	RecordBacktest(rec *BacktestRecord) error
	RecordTradeEvent(evt *TradeEvent) error
	Close() error
}
