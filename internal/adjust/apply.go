package adjust

import (
	"log"

	"BhavSentinel/internal/model"
)

// Apply returns a new price series with corporate-action adjustments applied.
// Every bar dated strictly before a rule's ex-date is multiplied by that
// rule's factor on all price fields; multiple rules compose by multiplying
// factors for all ex-dates after the bar. The input slice is never mutated.
// Rules for other symbols are ignored here.
func Apply(bars []model.PriceBar, rules []model.AdjustmentRule) []model.PriceBar {
	if len(bars) == 0 {
		return nil
	}
	out := make([]model.PriceBar, len(bars))
	copy(out, bars)

	symbol := bars[0].Symbol
	for _, rule := range rules {
		if rule.Symbol != symbol || rule.Factor <= 0 {
			continue
		}
		for i := range out {
			if out[i].Date.Before(rule.ExDate) {
				out[i].Open *= rule.Factor
				out[i].High *= rule.Factor
				out[i].Low *= rule.Factor
				out[i].Close *= rule.Factor
				out[i].PrevClose *= rule.Factor
			}
		}
	}
	return out
}

// ApplyAll adjusts every symbol's series. A rule referencing a symbol with
// no price data is a recoverable configuration mismatch: it is logged as a
// warning and ignored, never fatal. Symbols without rules pass through as
// fresh copies.
func ApplyAll(series map[string][]model.PriceBar, rules []model.AdjustmentRule) map[string][]model.PriceBar {
	for _, rule := range rules {
		if _, ok := series[rule.Symbol]; !ok {
			log.Printf("[WARN] adjustment rule for %s (ex-date %s): no price data, rule ignored",
				rule.Symbol, rule.ExDate.Format(exDateLayout))
		}
	}
	out := make(map[string][]model.PriceBar, len(series))
	for symbol, bars := range series {
		out[symbol] = Apply(bars, rules)
	}
	return out
}
