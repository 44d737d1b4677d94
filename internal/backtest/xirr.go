package backtest

import (
	"math"

	"BhavSentinel/internal/model"
)

const (
	xirrTolerance  = 1e-6
	xirrMaxNewton  = 100
	xirrMaxBisect  = 200
	xirrLowerBound = -0.999
	xirrUpperBound = 10.0
)

// Result is the outcome of an XIRR solve. Converged is false when the
// cashflow pattern is degenerate or the solver exhausted its iteration
// budget; callers must treat Rate as meaningless in that case.
type Result struct {
	Rate       float64
	Converged  bool
	Iterations int
}

// XIRR solves NPV(rate) = Σ cf_i / (1+rate)^(days_i/365) = 0 over
// irregularly dated cashflows. Newton-Raphson from a 10% guess with a
// bisection fallback; never panics and never returns an error, a degenerate
// input simply yields Converged=false.
func XIRR(flows []model.CashflowEvent) Result {
	if len(flows) < 2 || !mixedSigns(flows) {
		return Result{}
	}

	minDate := flows[0].Date
	for _, f := range flows[1:] {
		if f.Date.Before(minDate) {
			minDate = f.Date
		}
	}
	years := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = f.Date.Sub(minDate).Hours() / 24.0 / 365.0
	}

	npv := func(rate float64) float64 {
		if rate <= -1.0 {
			return math.Inf(1)
		}
		val := 0.0
		for i, f := range flows {
			val += f.Amount / math.Pow(1+rate, years[i])
		}
		return val
	}
	derivative := func(rate float64) float64 {
		val := 0.0
		for i, f := range flows {
			if years[i] == 0 {
				continue
			}
			val += f.Amount * (-years[i]) / math.Pow(1+rate, years[i]+1)
		}
		return val
	}

	// Flows that net to zero at rate 0 (equal in, equal out) are exactly 0%.
	if math.Abs(npv(0)) < xirrTolerance {
		return Result{Rate: 0, Converged: true}
	}

	rate := 0.10
	for i := 1; i <= xirrMaxNewton; i++ {
		fv := npv(rate)
		if math.Abs(fv) < xirrTolerance {
			return Result{Rate: rate, Converged: true, Iterations: i}
		}
		fp := derivative(rate)
		if fp == 0 || math.IsNaN(fp) || math.IsInf(fp, 0) {
			break
		}
		next := rate - fv/fp
		if next <= xirrLowerBound || next >= xirrUpperBound || math.IsNaN(next) {
			break // left the search domain, hand over to bisection
		}
		if math.Abs(next-rate) < xirrTolerance {
			return Result{Rate: next, Converged: true, Iterations: i}
		}
		rate = next
	}

	return bisect(npv)
}

// bisect falls back to bisection on a fixed bracket. Fails (Converged=false)
// when the bracket holds no sign change.
func bisect(npv func(float64) float64) Result {
	lo, hi := xirrLowerBound, xirrUpperBound
	flo, fhi := npv(lo), npv(hi)
	if math.IsInf(flo, 0) || flo*fhi > 0 {
		return Result{}
	}
	for i := 1; i <= xirrMaxBisect; i++ {
		mid := (lo + hi) / 2
		fmid := npv(mid)
		if math.Abs(fmid) < xirrTolerance || (hi-lo)/2 < xirrTolerance {
			return Result{Rate: mid, Converged: true, Iterations: i}
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	return Result{}
}

// mixedSigns reports whether the flows contain both a negative and a
// positive amount. Zero amounts are neutral.
func mixedSigns(flows []model.CashflowEvent) bool {
	var neg, pos bool
	for _, f := range flows {
		if f.Amount < 0 {
			neg = true
		} else if f.Amount > 0 {
			pos = true
		}
	}
	return neg && pos
}
