package strategy

import (
	"testing"
	"time"

	"BhavSentinel/internal/model"
)

func TestBand_Contains(t *testing.T) {
	b := Band{35, 45}
	tests := []struct {
		v    float64
		want bool
	}{
		{34.99, false},
		{35, true},
		{40, true},
		{45, true},
		{45.01, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.v); got != tt.want {
			t.Errorf("Contains(%.2f) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func indWith(daily, weekly, monthly float64) *model.SymbolIndicators {
	return &model.SymbolIndicators{
		Symbol:     "RELIANCE",
		Date:       time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		Close:      2900,
		DailyRSI:   daily,
		WeeklyRSI:  weekly,
		MonthlyRSI: monthly,
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		ind     *model.SymbolIndicators
		matches []string
	}{
		{"daily dip in healthy trend", indWith(40, 60, 60), []string{"GFS"}},
		{"all bands mid", indWith(60, 60, 60), []string{"AGFS"}},
		{"weekly too weak", indWith(40, 50, 60), nil},
		{"monthly too strong", indWith(40, 60, 70), nil},
		{"daily between the band gaps", indWith(50, 60, 60), nil},
		{"daily band lower bound", indWith(35, 55, 55), []string{"GFS"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := Match(tt.ind)
			if len(signals) != len(tt.matches) {
				t.Fatalf("expected %d signals, got %d: %+v", len(tt.matches), len(signals), signals)
			}
			for i, want := range tt.matches {
				if signals[i].Strategy != want {
					t.Errorf("signal %d: expected %s, got %s", i, want, signals[i].Strategy)
				}
				if signals[i].Symbol != tt.ind.Symbol {
					t.Errorf("signal %d: symbol not carried over: %s", i, signals[i].Symbol)
				}
			}
		})
	}
}

func TestRSIBelow(t *testing.T) {
	// Falling series pushes RSI toward 0 past the warm-up.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	tr := NewRSIBelow(closes, 14, 40)

	// Warm-up bars carry the neutral value and must not fire.
	for i := 0; i < 14; i++ {
		if tr.Fire(i) {
			t.Errorf("bar %d: fired during warm-up", i)
		}
	}
	if !tr.Fire(len(closes) - 1) {
		t.Error("expected fire at the tail of a falling series")
	}
	if tr.Fire(-1) || tr.Fire(len(closes)) {
		t.Error("out-of-range index must not fire")
	}
	if tr.Name() != "RSI<40" {
		t.Errorf("unexpected name %q", tr.Name())
	}
}

func TestPriceBelowSMA(t *testing.T) {
	// Rise then fall: the tail sits below its own trailing average.
	closes := []float64{100, 110, 120, 130, 140, 130, 110, 90}
	tr := NewPriceBelowSMA(closes, 5)

	// Warm-up bars (SMA zero) never fire.
	for i := 0; i < 4; i++ {
		if tr.Fire(i) {
			t.Errorf("bar %d: fired during warm-up", i)
		}
	}
	if tr.Fire(4) {
		t.Error("bar 4: close 140 above its SMA, must not fire")
	}
	if !tr.Fire(7) {
		t.Error("bar 7: close 90 below its SMA, expected fire")
	}
	if tr.Name() != "Price<5DMA" {
		t.Errorf("unexpected name %q", tr.Name())
	}
}

func TestDropFromHigh(t *testing.T) {
	closes := []float64{100, 90, 80, 100}
	tr := NewDropFromHigh(closes, 4, 15)

	// Drops from the trailing high are 0%, 10%, 20%, 0%.
	want := []bool{false, false, true, false}
	for i, w := range want {
		if got := tr.Fire(i); got != w {
			t.Errorf("bar %d: Fire = %v, want %v", i, got, w)
		}
	}
	if tr.Name() != "Drop15%From4DHigh" {
		t.Errorf("unexpected name %q", tr.Name())
	}
}
