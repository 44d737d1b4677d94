package backtest

import (
	"math"
	"testing"
	"time"

	"BhavSentinel/internal/model"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestXIRR_KnownRate(t *testing.T) {
	// -1000 now, +1100 in exactly one year: 10%
	flows := []model.CashflowEvent{
		{Date: d(2024, 1, 1), Amount: -1000},
		{Date: d(2024, 12, 31), Amount: 1100},
	}
	res := XIRR(flows)
	if !res.Converged {
		t.Fatal("expected convergence")
	}
	if math.Abs(res.Rate-0.10) > 1e-3 {
		t.Errorf("expected rate ~0.10, got %.6f", res.Rate)
	}
}

func TestXIRR_ImmediateRoundTripIsZero(t *testing.T) {
	// A contribution followed immediately by an equal withdrawal is 0%.
	flows := []model.CashflowEvent{
		{Date: d(2024, 6, 1), Amount: -5000},
		{Date: d(2024, 6, 1), Amount: 5000},
	}
	res := XIRR(flows)
	if !res.Converged {
		t.Fatal("expected convergence")
	}
	if math.Abs(res.Rate) > 1e-9 {
		t.Errorf("expected 0%%, got %.6f", res.Rate)
	}
}

func TestXIRR_DegenerateSignPatterns(t *testing.T) {
	tests := []struct {
		name  string
		flows []model.CashflowEvent
	}{
		{"empty", nil},
		{"single", []model.CashflowEvent{{Date: d(2024, 1, 1), Amount: -100}}},
		{"all negative", []model.CashflowEvent{
			{Date: d(2024, 1, 1), Amount: -100},
			{Date: d(2024, 2, 1), Amount: -100},
		}},
		{"all positive", []model.CashflowEvent{
			{Date: d(2024, 1, 1), Amount: 100},
			{Date: d(2024, 2, 1), Amount: 100},
		}},
	}
	for _, tt := range tests {
		if res := XIRR(tt.flows); res.Converged {
			t.Errorf("%s: expected no convergence, got rate %.4f", tt.name, res.Rate)
		}
	}
}

func TestXIRR_NegativeRate(t *testing.T) {
	// Lost half the money over a year: rate ~ -50%
	flows := []model.CashflowEvent{
		{Date: d(2024, 1, 1), Amount: -1000},
		{Date: d(2024, 12, 31), Amount: 500},
	}
	res := XIRR(flows)
	if !res.Converged {
		t.Fatal("expected convergence")
	}
	if math.Abs(res.Rate-(-0.5)) > 1e-2 {
		t.Errorf("expected rate ~-0.50, got %.6f", res.Rate)
	}
}

func TestXIRR_BisectionFallback(t *testing.T) {
	// Near-total loss: Newton's first step from the 10% guess overshoots the
	// lower bound and bisection resolves the rate instead.
	flows := []model.CashflowEvent{
		{Date: d(2024, 1, 1), Amount: -1000},
		{Date: d(2025, 1, 1), Amount: 2},
	}
	res := XIRR(flows)
	if !res.Converged {
		t.Fatal("expected bisection to converge")
	}
	if math.Abs(res.Rate-(-0.998)) > 1e-3 {
		t.Errorf("expected rate ~-0.998, got %.6f", res.Rate)
	}
}

func TestXIRR_RateBeyondSearchDomain(t *testing.T) {
	// Doubling overnight annualizes far past the bracket's upper bound:
	// Newton leaves the domain, bisection finds no sign change, and the
	// result reports no convergence instead of a bogus rate.
	flows := []model.CashflowEvent{
		{Date: d(2024, 1, 1), Amount: -1000},
		{Date: d(2024, 1, 2), Amount: 2000},
	}
	res := XIRR(flows)
	if res.Converged {
		t.Errorf("expected no convergence for an out-of-bracket rate, got %.4f", res.Rate)
	}
}

func TestXIRR_SIPLikeFlows(t *testing.T) {
	// Twelve monthly contributions of 1000, terminal value 13000
	var flows []model.CashflowEvent
	for m := 0; m < 12; m++ {
		flows = append(flows, model.CashflowEvent{Date: d(2024, 1, 1).AddDate(0, m, 0), Amount: -1000})
	}
	flows = append(flows, model.CashflowEvent{Date: d(2024, 12, 31), Amount: 13000})

	res := XIRR(flows)
	if !res.Converged {
		t.Fatal("expected convergence")
	}
	if res.Rate <= 0 {
		t.Errorf("expected positive rate for a profitable SIP, got %.6f", res.Rate)
	}
	// Sanity: NPV at the solved rate is ~0
	npv := 0.0
	min := flows[0].Date
	for _, f := range flows {
		years := f.Date.Sub(min).Hours() / 24 / 365
		npv += f.Amount / math.Pow(1+res.Rate, years)
	}
	if math.Abs(npv) > 1e-3 {
		t.Errorf("NPV at solved rate should be ~0, got %.6f", npv)
	}
}
