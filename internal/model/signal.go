package model

import "time"

// StrategySignal is emitted when a symbol's RSI profile matches a band strategy.
type StrategySignal struct {
	Symbol     string
	Strategy   string
	Date       time.Time
	Close      float64
	DailyRSI   float64
	WeeklyRSI  float64
	MonthlyRSI float64
}

// TradeStatus is the lifecycle state of a paper trade.
type TradeStatus string

const (
	TradeOpen   TradeStatus = "OPEN"
	TradeClosed TradeStatus = "CLOSED"
)

// Trade is one row of the paper trade book.
type Trade struct {
	ID            string
	Date          time.Time
	Symbol        string
	Strategy      string
	Status        TradeStatus
	EntryPrice    float64
	Quantity      float64
	Investment    float64
	StopLoss      float64
	CurrentPrice  float64
	ExitPrice     float64
	ExitReason    string
	RealizedPnL   float64
	UnrealizedPnL float64
	UpdatedAt     time.Time
}
