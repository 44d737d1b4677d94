package strategy

import (
	"fmt"

	"BhavSentinel/internal/indicator"
)

// Trigger is a per-bar top-up predicate for backtest scenarios. The set of
// implementations is closed: each variant carries its own threshold and
// precomputes whatever derived series it needs, so Fire is O(1) per bar.
type Trigger interface {
	Name() string
	Fire(i int) bool
}

// RSIBelow fires when the bar's Wilder RSI is below the threshold.
type RSIBelow struct {
	Threshold float64
	rsi       []float64
}

// NewRSIBelow precomputes the RSI series over the given closes.
func NewRSIBelow(closes []float64, period int, threshold float64) *RSIBelow {
	return &RSIBelow{Threshold: threshold, rsi: indicator.RSISeries(closes, period)}
}

func (t *RSIBelow) Name() string { return fmt.Sprintf("RSI<%.0f", t.Threshold) }

func (t *RSIBelow) Fire(i int) bool {
	return i >= 0 && i < len(t.rsi) && t.rsi[i] < t.Threshold
}

// PriceBelowSMA fires when the close is below its trailing moving average.
// Warm-up bars (SMA reported as 0) never fire.
type PriceBelowSMA struct {
	Window int
	closes []float64
	sma    []float64
}

// NewPriceBelowSMA precomputes the SMA series over the given closes.
func NewPriceBelowSMA(closes []float64, window int) *PriceBelowSMA {
	return &PriceBelowSMA{Window: window, closes: closes, sma: indicator.SMASeries(closes, window)}
}

func (t *PriceBelowSMA) Name() string { return fmt.Sprintf("Price<%dDMA", t.Window) }

func (t *PriceBelowSMA) Fire(i int) bool {
	if i < 0 || i >= len(t.closes) {
		return false
	}
	return t.sma[i] > 0 && t.closes[i] < t.sma[i]
}

// DropFromHigh fires when the close has fallen at least Pct percent from the
// rolling high over the trailing window.
type DropFromHigh struct {
	Pct    float64
	Window int
	closes []float64
	high   []float64
}

// NewDropFromHigh precomputes the rolling high over the given closes.
func NewDropFromHigh(closes []float64, window int, pct float64) *DropFromHigh {
	return &DropFromHigh{Pct: pct, Window: window, closes: closes, high: indicator.RollingHigh(closes, window)}
}

func (t *DropFromHigh) Name() string { return fmt.Sprintf("Drop%.0f%%From%dDHigh", t.Pct, t.Window) }

func (t *DropFromHigh) Fire(i int) bool {
	if i < 0 || i >= len(t.closes) || t.high[i] <= 0 {
		return false
	}
	drop := (t.high[i] - t.closes[i]) / t.high[i] * 100
	return drop >= t.Pct
}
