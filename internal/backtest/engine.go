package backtest

import (
	"log"

	"BhavSentinel/internal/model"
	"BhavSentinel/internal/strategy"
)

// Scenario describes one SIP cashflow simulation. A nil Trigger is the
// plain fixed-contribution baseline; otherwise TopupAmount is added on every
// bar the trigger fires.
type Scenario struct {
	Name        string
	SIPAmount   float64
	TopupAmount float64
	Trigger     strategy.Trigger
}

// ScenarioResult summarizes one simulated scenario.
type ScenarioResult struct {
	Name        string
	Invested    float64
	Units       float64
	FinalValue  float64
	TriggerDays int
	AbsReturn   float64 // percent
	XIRR        Result
}

// Run simulates every scenario over the same date-ordered adjusted series.
// Contributions convert to units at each bar's close; the terminal value is
// units times the last usable close, appended as the positive terminal
// cashflow. Bars with a non-positive close are skipped for contributions and
// for liquidation alike.
// A scenario whose XIRR fails to converge is reported as such, never aborted.
func Run(bars []model.PriceBar, scenarios []Scenario) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(scenarios))

	lastIdx := -1
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Close > 0 {
			lastIdx = i
			break
		}
	}
	if lastIdx < 0 {
		return results
	}

	for _, sc := range scenarios {
		res := ScenarioResult{Name: sc.Name}
		flows := make([]model.CashflowEvent, 0, len(bars)+1)

		for i, bar := range bars {
			if bar.Close <= 0 {
				log.Printf("[WARN] backtest %s: non-positive close on %s, bar skipped",
					sc.Name, bar.Date.Format("2006-01-02"))
				continue
			}
			amount := sc.SIPAmount
			if sc.Trigger != nil && sc.Trigger.Fire(i) {
				amount += sc.TopupAmount
				res.TriggerDays++
			}
			res.Units += amount / bar.Close
			res.Invested += amount
			flows = append(flows, model.CashflowEvent{Date: bar.Date, Amount: -amount})
		}

		last := bars[lastIdx]
		res.FinalValue = res.Units * last.Close
		if res.Invested > 0 {
			res.AbsReturn = (res.FinalValue - res.Invested) / res.Invested * 100
		}
		flows = append(flows, model.CashflowEvent{Date: last.Date, Amount: res.FinalValue})

		res.XIRR = XIRR(flows)
		if !res.XIRR.Converged {
			log.Printf("[WARN] backtest %s: XIRR did not converge", sc.Name)
		}
		results = append(results, res)
	}
	return results
}
