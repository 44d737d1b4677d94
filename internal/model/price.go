package model

import "time"

// PriceBar represents one end-of-day bhavcopy row for a symbol.
// Bars are immutable once ingested; adjustment produces new slices.
type PriceBar struct {
	Symbol    string
	Date      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	PrevClose float64
	Volume    float64
}

// AdjustmentRule rewrites historical prices for a corporate action.
// Every bar dated strictly before ExDate is multiplied by Factor.
// A split N:1 carries factor 1/N, a bonus A:B carries factor B/(A+B).
type AdjustmentRule struct {
	Symbol string
	ExDate time.Time
	Factor float64
	Note   string
}

// CashflowEvent is one signed cashflow in a backtest scenario.
// Contributions are negative; the terminal liquidation value is positive.
type CashflowEvent struct {
	Date   time.Time
	Amount float64
}
